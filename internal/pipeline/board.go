package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/events"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store"
)

// Column is one seeker-facing bucket of the board. The four draggable
// columns are available, applied, interview, and offered; rejected is a
// recognized drop target but is not rendered as a column.
type Column string

const (
	ColumnAvailable Column = "available"
	ColumnApplied   Column = "applied"
	ColumnInterview Column = "interview"
	ColumnOffered   Column = "offered"
	ColumnRejected  Column = "rejected"
)

// ParseColumn validates a raw column name.
func ParseColumn(s string) (Column, error) {
	c := Column(s)
	switch c {
	case ColumnAvailable, ColumnApplied, ColumnInterview, ColumnOffered, ColumnRejected:
		return c, nil
	}
	return "", &InvalidColumnError{Column: s}
}

// statusForColumn maps a status column to its application status. The
// available column has no status.
func statusForColumn(c Column) (model.ApplicationStatus, bool) {
	switch c {
	case ColumnApplied:
		return model.StatusApplied, true
	case ColumnInterview:
		return model.StatusInterview, true
	case ColumnOffered:
		return model.StatusOffered, true
	case ColumnRejected:
		return model.StatusRejected, true
	}
	return "", false
}

// MoveResult is the outcome of one board move. Application is nil for no-op
// moves and withdrawals.
type MoveResult struct {
	Application *model.Application `json:"application,omitempty"`
	Message     string             `json:"message"`
}

// Stats counts board entries per column. Available is bounded by the board's
// scan cap and counts postings not yet applied to.
type Stats struct {
	Available int `json:"available"`
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offered   int `json:"offered"`
	Rejected  int `json:"rejected"`
}

const defaultAvailableCap = 1000

// Board translates drag-and-drop moves between columns into application
// creation, withdrawal, or state-machine transitions.
type Board struct {
	jobs         store.JobStore
	apps         store.ApplicationStore
	machine      *StateMachine
	publisher    events.Publisher
	availableCap int
}

// NewBoard wires a Board. availableCap bounds the scan behind the available
// count in GetPipelineStats; 0 means the default of 1000.
func NewBoard(jobs store.JobStore, apps store.ApplicationStore, machine *StateMachine, publisher events.Publisher, availableCap int) *Board {
	if availableCap <= 0 {
		availableCap = defaultAvailableCap
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Board{jobs: jobs, apps: apps, machine: machine, publisher: publisher, availableCap: availableCap}
}

// HandleMove applies one drag-and-drop move of the job's card from one
// column to another on behalf of seekerID.
func (b *Board) HandleMove(ctx context.Context, seekerID, jobID string, fromRaw, toRaw string) (*MoveResult, error) {
	from, err := ParseColumn(fromRaw)
	if err != nil {
		return nil, err
	}
	to, err := ParseColumn(toRaw)
	if err != nil {
		return nil, err
	}

	if from == to {
		return &MoveResult{Message: "position updated within column"}, nil
	}

	var res *MoveResult
	switch {
	case from == ColumnAvailable:
		res, err = b.applyToJob(ctx, seekerID, jobID, to)
	case to == ColumnAvailable:
		res, err = b.withdraw(ctx, seekerID, jobID)
	default:
		res, err = b.transitionCard(ctx, seekerID, jobID, to)
	}
	if err != nil {
		return nil, err
	}

	ev := events.CardMoved{
		SeekerID: seekerID,
		JobID:    jobID,
		From:     string(from),
		To:       string(to),
		At:       time.Now().UTC(),
	}
	if res.Application != nil {
		ev.ApplicationID = res.Application.ID
	}
	b.publisher.CardMoved(ctx, ev)

	return res, nil
}

// applyToJob handles available → applied: creates the application and its
// initial audit entry.
func (b *Board) applyToJob(ctx context.Context, seekerID, jobID string, to Column) (*MoveResult, error) {
	if to != ColumnApplied {
		return nil, ErrCanOnlyApplyFromAvailable
	}

	existing, err := b.apps.FindBySeekerAndJob(ctx, seekerID, jobID)
	if err != nil {
		return nil, fmt.Errorf("find application for job %s: %w", jobID, err)
	}
	if existing != nil {
		return nil, &DuplicateApplicationError{ApplicationID: existing.ID}
	}

	created, err := b.apps.Create(ctx, model.Application{
		SeekerID: seekerID,
		JobID:    jobID,
		Status:   model.StatusApplied,
	})
	if errors.Is(err, store.ErrDuplicateApplication) {
		// Lost a race with a concurrent apply; report the winner's ID.
		if winner, ferr := b.apps.FindBySeekerAndJob(ctx, seekerID, jobID); ferr == nil && winner != nil {
			return nil, &DuplicateApplicationError{ApplicationID: winner.ID}
		}
		return nil, &DuplicateApplicationError{}
	}
	if err != nil {
		return nil, fmt.Errorf("create application for job %s: %w", jobID, err)
	}

	// Initial audit entry: nil from marks the application's creation.
	if err := b.apps.AppendStatusChange(ctx, created.ID, nil, model.StatusApplied, nil); err != nil {
		return nil, fmt.Errorf("append status change for %s: %w", created.ID, err)
	}

	return &MoveResult{Application: created, Message: "application created"}, nil
}

// withdraw handles any status column → available: the application is
// deleted. Its historical StatusChange rows stay with the storage layer.
func (b *Board) withdraw(ctx context.Context, seekerID, jobID string) (*MoveResult, error) {
	existing, err := b.apps.FindBySeekerAndJob(ctx, seekerID, jobID)
	if err != nil {
		return nil, fmt.Errorf("find application for job %s: %w", jobID, err)
	}
	if existing == nil {
		return nil, ErrApplicationNotFound
	}

	deleted, err := b.apps.Delete(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("delete application %s: %w", existing.ID, err)
	}
	if !deleted {
		return nil, ErrApplicationNotFound
	}

	return &MoveResult{Message: "application withdrawn"}, nil
}

// transitionCard handles a move between two status columns by delegating to
// the state machine, surfacing its error verbatim.
func (b *Board) transitionCard(ctx context.Context, seekerID, jobID string, to Column) (*MoveResult, error) {
	newStatus, ok := statusForColumn(to)
	if !ok {
		return nil, &InvalidColumnError{Column: string(to)}
	}

	existing, err := b.apps.FindBySeekerAndJob(ctx, seekerID, jobID)
	if err != nil {
		return nil, fmt.Errorf("find application for job %s: %w", jobID, err)
	}
	if existing == nil {
		return nil, ErrApplicationNotFound
	}

	updated, err := b.machine.Transition(ctx, existing.ID, seekerID, newStatus, TransitionOptions{})
	if err != nil {
		return nil, err
	}

	return &MoveResult{Application: updated, Message: fmt.Sprintf("application moved to %s", newStatus)}, nil
}

// GetValidDropTargets lists where a card in the given column may be dropped.
// For available that is only applied; for a status column it is available
// plus the status's successor set.
func (b *Board) GetValidDropTargets(currentRaw string) ([]Column, error) {
	current, err := ParseColumn(currentRaw)
	if err != nil {
		return nil, err
	}

	if current == ColumnAvailable {
		return []Column{ColumnApplied}, nil
	}

	status, _ := statusForColumn(current)
	targets := []Column{ColumnAvailable}
	for _, next := range ValidNextStatuses(status) {
		col := Column(next)
		if col == current {
			continue
		}
		targets = append(targets, col)
	}
	return targets, nil
}

// GetPipelineStats counts the seeker's board entries per column. The
// available count scans at most availableCap postings not yet applied to.
func (b *Board) GetPipelineStats(ctx context.Context, seekerID string) (*Stats, error) {
	apps, err := b.apps.FindBySeekerID(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("find applications for seeker %s: %w", seekerID, err)
	}

	stats := &Stats{}
	appliedJobIDs := make([]string, 0, len(apps))
	for _, app := range apps {
		appliedJobIDs = append(appliedJobIDs, app.JobID)
		switch app.Status {
		case model.StatusApplied:
			stats.Applied++
		case model.StatusInterview:
			stats.Interview++
		case model.StatusOffered:
			stats.Offered++
		case model.StatusRejected:
			stats.Rejected++
		}
	}

	available, err := b.jobs.FindAvailableExcluding(ctx, seekerID, appliedJobIDs, b.availableCap)
	if err != nil {
		return nil, fmt.Errorf("find available jobs: %w", err)
	}
	stats.Available = len(available)

	return stats, nil
}
