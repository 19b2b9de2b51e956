// Package store declares the persistence interfaces consumed by the matching
// engine and the pipeline board. Implementations live in store/postgres;
// tests substitute in-memory fakes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
)

// ErrDuplicateApplication is returned by Create when an application already
// exists for the (seeker, job) pair. Implementations must enforce the
// uniqueness atomically so concurrent creations cannot both succeed.
var ErrDuplicateApplication = errors.New("application already exists for this seeker and job")

// JobStore reads job postings. Postings are owned by the discovery pipeline
// and are never written through this interface.
type JobStore interface {
	// FindAvailableExcluding returns available postings, skipping the given
	// IDs. A limit of 0 means no limit.
	FindAvailableExcluding(ctx context.Context, seekerID string, excludeIDs []string, limit int) ([]model.JobPosting, error)
	// FindByID returns nil, nil when no posting exists.
	FindByID(ctx context.Context, id string) (*model.JobPosting, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.JobPosting, error)
	FindByExperienceTier(ctx context.Context, tier model.ExperienceTier) ([]model.JobPosting, error)
}

// ProfileStore reads seeker profiles.
type ProfileStore interface {
	// FindBySeekerID returns nil, nil when the seeker has no profile.
	FindBySeekerID(ctx context.Context, seekerID string) (*model.SeekerProfile, error)
}

// ApplicationStore owns applications and their status-change audit log.
// The (seekerID, jobID) pair is unique; Create must enforce it so concurrent
// duplicate creations cannot race past the board's existence check.
type ApplicationStore interface {
	FindBySeekerID(ctx context.Context, seekerID string) ([]model.Application, error)
	// FindBySeekerAndJob returns nil, nil when no application exists.
	FindBySeekerAndJob(ctx context.Context, seekerID, jobID string) (*model.Application, error)
	// FindByID returns nil, nil when no application exists.
	FindByID(ctx context.Context, id string) (*model.Application, error)
	FindByStatus(ctx context.Context, seekerID string, status model.ApplicationStatus) ([]model.Application, error)
	Create(ctx context.Context, app model.Application) (*model.Application, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, notes *string) (*model.Application, error)
	SetInterviewDate(ctx context.Context, id string, date time.Time) (*model.Application, error)
	AppendStatusChange(ctx context.Context, appID string, from *model.ApplicationStatus, to model.ApplicationStatus, notes *string) error
	GetStatusHistory(ctx context.Context, appID string) ([]model.StatusChange, error)
}
