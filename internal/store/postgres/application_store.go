package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/model"
	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/internal/store"
)

const appColumns = "id, seeker_id, job_id, status, applied_at, cover_letter, notes, interview_date, updated_at"

// ApplicationStore owns applications and their status-change audit log in
// PostgreSQL. The unique index on (seeker_id, job_id) closes the
// check-then-create race the board would otherwise be exposed to.
type ApplicationStore struct {
	pool *pgxpool.Pool
}

var _ store.ApplicationStore = (*ApplicationStore)(nil)

// NewApplicationStore wires an ApplicationStore on the given pool.
func NewApplicationStore(pool *pgxpool.Pool) *ApplicationStore {
	return &ApplicationStore{pool: pool}
}

func (s *ApplicationStore) FindBySeekerID(ctx context.Context, seekerID string) ([]model.Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appColumns+`
		 FROM applications
		 WHERE seeker_id = $1
		 ORDER BY applied_at DESC`,
		seekerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query applications for seeker %s: %w", seekerID, err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

// FindBySeekerAndJob returns nil, nil when no application exists.
func (s *ApplicationStore) FindBySeekerAndJob(ctx context.Context, seekerID, jobID string) (*model.Application, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+appColumns+` FROM applications WHERE seeker_id = $1 AND job_id = $2`,
		seekerID, jobID,
	)
	app, err := scanApplication(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query application for seeker %s job %s: %w", seekerID, jobID, err)
	}
	return app, nil
}

// FindByID returns nil, nil when no application exists.
func (s *ApplicationStore) FindByID(ctx context.Context, id string) (*model.Application, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+appColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query application %s: %w", id, err)
	}
	return app, nil
}

func (s *ApplicationStore) FindByStatus(ctx context.Context, seekerID string, status model.ApplicationStatus) ([]model.Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appColumns+`
		 FROM applications
		 WHERE seeker_id = $1 AND status = $2
		 ORDER BY applied_at DESC`,
		seekerID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("query applications by status %s: %w", status, err)
	}
	defer rows.Close()

	return scanApplications(rows)
}

// Create inserts a new application. ON CONFLICT DO NOTHING on the
// (seeker_id, job_id) unique index keeps concurrent duplicate creations from
// racing past the board's existence check; a conflicting insert returns
// store.ErrDuplicateApplication.
func (s *ApplicationStore) Create(ctx context.Context, app model.Application) (*model.Application, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO applications (id, seeker_id, job_id, status, cover_letter, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (seeker_id, job_id) DO NOTHING
		 RETURNING `+appColumns,
		app.ID, app.SeekerID, app.JobID, string(app.Status), app.CoverLetter, app.Notes,
	)
	created, err := scanApplication(row)
	if err == pgx.ErrNoRows {
		return nil, store.ErrDuplicateApplication
	}
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}
	return created, nil
}

func (s *ApplicationStore) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete application %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatus persists the status and optionally replaces the notes. Nil
// notes leave the stored notes untouched.
func (s *ApplicationStore) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus, notes *string) (*model.Application, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status = $1,
		     notes = COALESCE($2, notes),
		     updated_at = NOW()
		 WHERE id = $3
		 RETURNING `+appColumns,
		string(status), notes, id,
	)
	app, err := scanApplication(row)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("application %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update application %s: %w", id, err)
	}
	return app, nil
}

func (s *ApplicationStore) SetInterviewDate(ctx context.Context, id string, date time.Time) (*model.Application, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE applications
		 SET interview_date = $1,
		     updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+appColumns,
		date, id,
	)
	app, err := scanApplication(row)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("application %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("set interview date on %s: %w", id, err)
	}
	return app, nil
}

// AppendStatusChange writes one append-only audit row. from is nil only for
// the initial applied entry.
func (s *ApplicationStore) AppendStatusChange(ctx context.Context, appID string, from *model.ApplicationStatus, to model.ApplicationStatus, notes *string) error {
	var fromStr *string
	if from != nil {
		v := string(*from)
		fromStr = &v
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO status_changes (id, application_id, from_status, to_status, notes)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), appID, fromStr, string(to), notes,
	)
	if err != nil {
		return fmt.Errorf("insert status change for %s: %w", appID, err)
	}
	return nil
}

func (s *ApplicationStore) GetStatusHistory(ctx context.Context, appID string) ([]model.StatusChange, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, application_id, from_status, to_status, changed_at, notes
		 FROM status_changes
		 WHERE application_id = $1
		 ORDER BY changed_at ASC`,
		appID,
	)
	if err != nil {
		return nil, fmt.Errorf("query status history for %s: %w", appID, err)
	}
	defer rows.Close()

	history := make([]model.StatusChange, 0)
	for rows.Next() {
		var (
			c        model.StatusChange
			fromStr  *string
			toStatus string
		)
		if err := rows.Scan(&c.ID, &c.ApplicationID, &fromStr, &toStatus, &c.ChangedAt, &c.Notes); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		if fromStr != nil {
			from := model.ApplicationStatus(*fromStr)
			c.From = &from
		}
		c.To = model.ApplicationStatus(toStatus)
		history = append(history, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history: %w", err)
	}
	return history, nil
}

func scanApplications(rows pgx.Rows) ([]model.Application, error) {
	apps := make([]model.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

func scanApplication(row pgx.Row) (*model.Application, error) {
	var (
		a      model.Application
		status string
	)
	if err := row.Scan(
		&a.ID, &a.SeekerID, &a.JobID, &status, &a.AppliedAt,
		&a.CoverLetter, &a.Notes, &a.InterviewDate, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = model.ApplicationStatus(status)
	return &a, nil
}
