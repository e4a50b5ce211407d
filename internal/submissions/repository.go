package submissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masterclass-hub/backend/internal/models"
)

// ErrNotFound is returned when a submission id has no matching record.
var ErrNotFound = errors.New("submission not found")

// Repository handles session-proposal persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a submission repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new pending submission.
func (r *Repository) Create(ctx context.Context, s *models.VideoSubmission) error {
	const q = `INSERT INTO video_submissions (title, description, duration, email, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	s.Status = models.SubmissionStatusPending
	return r.pool.QueryRow(ctx, q, s.Title, s.Description, s.Duration, s.Email, s.Status).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID returns a submission by id, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.VideoSubmission, error) {
	const q = `SELECT id, title, description, duration, email, status, created_at, updated_at
		FROM video_submissions WHERE id = $1`
	var s models.VideoSubmission
	err := r.pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.Title, &s.Description, &s.Duration,
		&s.Email, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns submissions newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string) ([]models.VideoSubmission, error) {
	base := `SELECT id, title, description, duration, email, status, created_at, updated_at
		FROM video_submissions`
	var rows pgx.Rows
	var err error
	if status != "" {
		rows, err = r.pool.Query(ctx, base+` WHERE status = $1 ORDER BY created_at DESC`, status)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.VideoSubmission
	for rows.Next() {
		var s models.VideoSubmission
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Duration,
			&s.Email, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdateStatus moves a submission through the review lifecycle.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE video_submissions SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a submission.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM video_submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
