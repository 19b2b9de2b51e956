// Package postgres implements the store interfaces on pgx. SQL stays plain
// where the shape is fixed; squirrel builds the queries whose predicates
// vary per call.
package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const jobColumns = "id, title, company, location, description, requirements, experience_tier, available, created_at, updated_at"

// JobStore reads job postings from PostgreSQL.
type JobStore struct {
	pool *pgxpool.Pool
}

var _ store.JobStore = (*JobStore)(nil)

// NewJobStore wires a JobStore on the given pool.
func NewJobStore(pool *pgxpool.Pool) *JobStore {
	return &JobStore{pool: pool}
}

// FindAvailableExcluding returns available postings, newest first, skipping
// excludeIDs. A limit of 0 means no limit.
func (s *JobStore) FindAvailableExcluding(ctx context.Context, _ string, excludeIDs []string, limit int) ([]model.JobPosting, error) {
	q := psql.Select(jobColumns).
		From("job_postings").
		Where(sq.Eq{"available": true}).
		OrderBy("created_at DESC")

	if len(excludeIDs) > 0 {
		q = q.Where(sq.NotEq{"id": excludeIDs})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build available jobs query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query available jobs: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

// FindByID returns nil, nil when no posting exists.
func (s *JobStore) FindByID(ctx context.Context, id string) (*model.JobPosting, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)

	job, err := scanJob(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query job %s: %w", id, err)
	}
	return job, nil
}

func (s *JobStore) FindByIDs(ctx context.Context, ids []string) ([]model.JobPosting, error) {
	if len(ids) == 0 {
		return []model.JobPosting{}, nil
	}

	sql, args, err := psql.Select(jobColumns).
		From("job_postings").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build jobs-by-ids query: %w", err)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs by ids: %w", err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

func (s *JobStore) FindByExperienceTier(ctx context.Context, tier model.ExperienceTier) ([]model.JobPosting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM job_postings
		 WHERE available = true AND experience_tier = $1
		 ORDER BY created_at DESC`,
		string(tier),
	)
	if err != nil {
		return nil, fmt.Errorf("query jobs by tier %s: %w", tier, err)
	}
	defer rows.Close()

	return scanJobs(rows)
}

func scanJobs(rows pgx.Rows) ([]model.JobPosting, error) {
	jobs := make([]model.JobPosting, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(row pgx.Row) (*model.JobPosting, error) {
	var (
		j    model.JobPosting
		tier string
	)
	if err := row.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.Description,
		&j.Requirements, &tier, &j.Available, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	j.Tier = model.ExperienceTier(tier)
	return &j, nil
}
