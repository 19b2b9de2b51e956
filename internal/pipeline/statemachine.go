package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store"
)

// TransitionOptions carries optional metadata for a status change.
type TransitionOptions struct {
	Notes         *string
	InterviewDate *time.Time
}

// StateMachine validates and applies application status transitions, writing
// one StatusChange audit row per status mutation.
type StateMachine struct {
	apps store.ApplicationStore
}

// NewStateMachine returns a StateMachine backed by the given store.
func NewStateMachine(apps store.ApplicationStore) *StateMachine {
	return &StateMachine{apps: apps}
}

// Transition moves an application to newStatus on behalf of requesterID.
//
// A same-status transition always succeeds as a metadata-only update and
// writes no audit row. Otherwise the move must be in the allowed successor
// set and the new status is persisted together with a StatusChange row. The
// interview date is stored only when the new status is interview and a date
// was supplied.
func (m *StateMachine) Transition(ctx context.Context, appID, requesterID string, newStatus model.ApplicationStatus, opts TransitionOptions) (*model.Application, error) {
	app, err := m.getOwned(ctx, appID, requesterID)
	if err != nil {
		return nil, err
	}

	if newStatus == app.Status {
		updated, err := m.apps.UpdateStatus(ctx, appID, newStatus, opts.Notes)
		if err != nil {
			return nil, fmt.Errorf("update application %s: %w", appID, err)
		}
		return updated, nil
	}

	if !IsTransitionAllowed(app.Status, newStatus) {
		return nil, &InvalidTransitionError{From: app.Status, To: newStatus}
	}

	updated, err := m.apps.UpdateStatus(ctx, appID, newStatus, opts.Notes)
	if err != nil {
		return nil, fmt.Errorf("update application %s: %w", appID, err)
	}

	from := app.Status
	if err := m.apps.AppendStatusChange(ctx, appID, &from, newStatus, opts.Notes); err != nil {
		return nil, fmt.Errorf("append status change for %s: %w", appID, err)
	}

	if newStatus == model.StatusInterview && opts.InterviewDate != nil {
		updated, err = m.apps.SetInterviewDate(ctx, appID, *opts.InterviewDate)
		if err != nil {
			return nil, fmt.Errorf("set interview date for %s: %w", appID, err)
		}
	}

	return updated, nil
}

// SetInterviewDate stores an interview date outside of a transition. The
// application must already be in the interview status.
func (m *StateMachine) SetInterviewDate(ctx context.Context, appID, requesterID string, date time.Time) (*model.Application, error) {
	app, err := m.getOwned(ctx, appID, requesterID)
	if err != nil {
		return nil, err
	}

	if app.Status != model.StatusInterview {
		return nil, ErrInvalidState
	}

	updated, err := m.apps.SetInterviewDate(ctx, appID, date)
	if err != nil {
		return nil, fmt.Errorf("set interview date for %s: %w", appID, err)
	}
	return updated, nil
}

// GetStatusHistory returns the application's audit log, oldest first.
func (m *StateMachine) GetStatusHistory(ctx context.Context, appID, requesterID string) ([]model.StatusChange, error) {
	if _, err := m.getOwned(ctx, appID, requesterID); err != nil {
		return nil, err
	}

	history, err := m.apps.GetStatusHistory(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("status history for %s: %w", appID, err)
	}
	return history, nil
}

// getOwned loads an application and validates ownership.
func (m *StateMachine) getOwned(ctx context.Context, appID, requesterID string) (*model.Application, error) {
	app, err := m.apps.FindByID(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("find application %s: %w", appID, err)
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}
	if app.SeekerID != requesterID {
		return nil, ErrUnauthorized
	}
	return app, nil
}
