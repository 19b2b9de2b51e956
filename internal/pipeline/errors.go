package pipeline

import (
	"errors"
	"fmt"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
)

// Sentinel errors surfaced to callers.
var (
	// ErrApplicationNotFound is returned when an application is missing or
	// a (seeker, job) pair has no application.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrUnauthorized is returned when the requester does not own the
	// application.
	ErrUnauthorized = errors.New("application belongs to another seeker")

	// ErrCanOnlyApplyFromAvailable is returned when a job card is dragged
	// out of the available column to anything but applied.
	ErrCanOnlyApplyFromAvailable = errors.New("can only apply from available")

	// ErrInvalidState is returned when an interview date is set on an
	// application that is not in the interview status.
	ErrInvalidState = errors.New("interview date can only be set while in interview status")
)

// InvalidTransitionError reports a status change not in the allowed
// successor set.
type InvalidTransitionError struct {
	From model.ApplicationStatus
	To   model.ApplicationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// InvalidColumnError reports an unknown pipeline column name.
type InvalidColumnError struct {
	Column string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("invalid pipeline column %q", e.Column)
}

// DuplicateApplicationError reports that an application already exists for
// the (seeker, job) pair. It carries the existing application's ID.
type DuplicateApplicationError struct {
	ApplicationID string
}

func (e *DuplicateApplicationError) Error() string {
	return fmt.Sprintf("application %s already exists for this job", e.ApplicationID)
}
