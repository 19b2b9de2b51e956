// Package memory implements the store interfaces on in-process maps. It
// backs the test suites and local development without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store"
)

// JobStore holds postings in insertion order so ranking ties stay stable.
type JobStore struct {
	mu   sync.RWMutex
	jobs []model.JobPosting
}

var _ store.JobStore = (*JobStore)(nil)

// NewJobStore seeds a JobStore with the given postings.
func NewJobStore(jobs ...model.JobPosting) *JobStore {
	return &JobStore{jobs: jobs}
}

// Add appends a posting.
func (s *JobStore) Add(job model.JobPosting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

func (s *JobStore) FindAvailableExcluding(_ context.Context, _ string, excludeIDs []string, limit int) ([]model.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	out := make([]model.JobPosting, 0, len(s.jobs))
	for _, job := range s.jobs {
		if !job.Available || excluded[job.ID] {
			continue
		}
		out = append(out, job)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *JobStore) FindByID(_ context.Context, id string) (*model.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if job.ID == id {
			j := job
			return &j, nil
		}
	}
	return nil, nil
}

func (s *JobStore) FindByIDs(_ context.Context, ids []string) ([]model.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	out := make([]model.JobPosting, 0, len(ids))
	for _, job := range s.jobs {
		if wanted[job.ID] {
			out = append(out, job)
		}
	}
	return out, nil
}

func (s *JobStore) FindByExperienceTier(_ context.Context, tier model.ExperienceTier) ([]model.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.JobPosting, 0)
	for _, job := range s.jobs {
		if job.Available && job.Tier == tier {
			out = append(out, job)
		}
	}
	return out, nil
}

// ProfileStore keys profiles by owning user.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]model.SeekerProfile
}

var _ store.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore seeds a ProfileStore with the given profiles.
func NewProfileStore(profiles ...model.SeekerProfile) *ProfileStore {
	m := make(map[string]model.SeekerProfile, len(profiles))
	for _, p := range profiles {
		m[p.UserID] = p
	}
	return &ProfileStore{profiles: m}
}

func (s *ProfileStore) FindBySeekerID(_ context.Context, seekerID string) (*model.SeekerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[seekerID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ApplicationStore holds applications and their audit log.
type ApplicationStore struct {
	mu      sync.Mutex
	nextID  int
	apps    []model.Application
	changes []model.StatusChange
}

var _ store.ApplicationStore = (*ApplicationStore)(nil)

// NewApplicationStore returns an empty ApplicationStore.
func NewApplicationStore() *ApplicationStore {
	return &ApplicationStore{}
}

// Seed inserts an application as-is, bypassing uniqueness bookkeeping.
func (s *ApplicationStore) Seed(app model.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps = append(s.apps, app)
}

func (s *ApplicationStore) FindBySeekerID(_ context.Context, seekerID string) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Application, 0)
	for _, app := range s.apps {
		if app.SeekerID == seekerID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *ApplicationStore) FindBySeekerAndJob(_ context.Context, seekerID, jobID string) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, app := range s.apps {
		if app.SeekerID == seekerID && app.JobID == jobID {
			a := app
			return &a, nil
		}
	}
	return nil, nil
}

func (s *ApplicationStore) FindByID(_ context.Context, id string) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if app := s.find(id); app != nil {
		a := *app
		return &a, nil
	}
	return nil, nil
}

func (s *ApplicationStore) FindByStatus(_ context.Context, seekerID string, status model.ApplicationStatus) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Application, 0)
	for _, app := range s.apps {
		if app.SeekerID == seekerID && app.Status == status {
			out = append(out, app)
		}
	}
	return out, nil
}

func (s *ApplicationStore) Create(_ context.Context, app model.Application) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.apps {
		if existing.SeekerID == app.SeekerID && existing.JobID == app.JobID {
			return nil, store.ErrDuplicateApplication
		}
	}

	if app.ID == "" {
		s.nextID++
		app.ID = fmt.Sprintf("app-%d", s.nextID)
	}
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now
	s.apps = append(s.apps, app)

	a := app
	return &a, nil
}

func (s *ApplicationStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, app := range s.apps {
		if app.ID == id {
			s.apps = append(s.apps[:i], s.apps[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *ApplicationStore) UpdateStatus(_ context.Context, id string, status model.ApplicationStatus, notes *string) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app := s.find(id)
	if app == nil {
		return nil, fmt.Errorf("application %s not found", id)
	}
	app.Status = status
	if notes != nil {
		app.Notes = notes
	}
	app.UpdatedAt = time.Now().UTC()

	a := *app
	return &a, nil
}

func (s *ApplicationStore) SetInterviewDate(_ context.Context, id string, date time.Time) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app := s.find(id)
	if app == nil {
		return nil, fmt.Errorf("application %s not found", id)
	}
	app.InterviewDate = &date
	app.UpdatedAt = time.Now().UTC()

	a := *app
	return &a, nil
}

func (s *ApplicationStore) AppendStatusChange(_ context.Context, appID string, from *model.ApplicationStatus, to model.ApplicationStatus, notes *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.changes = append(s.changes, model.StatusChange{
		ID:            fmt.Sprintf("change-%d", len(s.changes)+1),
		ApplicationID: appID,
		From:          from,
		To:            to,
		ChangedAt:     time.Now().UTC(),
		Notes:         notes,
	})
	return nil
}

func (s *ApplicationStore) GetStatusHistory(_ context.Context, appID string) ([]model.StatusChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.StatusChange, 0)
	for _, c := range s.changes {
		if c.ApplicationID == appID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *ApplicationStore) find(id string) *model.Application {
	for i := range s.apps {
		if s.apps[i].ID == id {
			return &s.apps[i]
		}
	}
	return nil
}
