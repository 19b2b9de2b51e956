package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store"
)

// ProfileStore reads seeker profiles from PostgreSQL.
type ProfileStore struct {
	pool *pgxpool.Pool
}

var _ store.ProfileStore = (*ProfileStore)(nil)

// NewProfileStore wires a ProfileStore on the given pool.
func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

// FindBySeekerID returns nil, nil when the seeker has no profile. Profiles
// are 1:1 with users.
func (s *ProfileStore) FindBySeekerID(ctx context.Context, seekerID string) (*model.SeekerProfile, error) {
	var (
		p        model.SeekerProfile
		tier     string
		prefTier []string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, skills, experience_tier,
		        preferred_locations, preferred_tiers, keywords, remote_ok,
		        salary_min, salary_max, created_at, updated_at
		 FROM seeker_profiles
		 WHERE user_id = $1`,
		seekerID,
	).Scan(
		&p.ID, &p.UserID, &p.Skills, &tier,
		&p.Preferences.Locations, &prefTier, &p.Preferences.Keywords, &p.Preferences.RemoteOK,
		&p.Preferences.SalaryMin, &p.Preferences.SalaryMax, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile for seeker %s: %w", seekerID, err)
	}
	p.Tier = model.ExperienceTier(tier)
	for _, t := range prefTier {
		p.Preferences.Tiers = append(p.Preferences.Tiers, model.ExperienceTier(t))
	}
	return &p, nil
}
