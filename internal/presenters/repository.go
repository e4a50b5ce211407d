package presenters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masterclass-hub/backend/internal/models"
)

// ErrNotFound is returned when a presenter lookup has no matching record.
var ErrNotFound = errors.New("presenter not found")

const presenterColumns = `p.id, p.name, COALESCE(p.email, ''), p.hrc_id, COALESCE(p.headshot, '')`

// Repository is the presenter catalog.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a presenter repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) queryPresenters(ctx context.Context, sql string, args ...interface{}) ([]models.Presenter, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Presenter
	for rows.Next() {
		var p models.Presenter
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.HRCID, &p.Headshot); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *Repository) queryPresenter(ctx context.Context, sql string, args ...interface{}) (*models.Presenter, error) {
	var p models.Presenter
	err := r.pool.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Name, &p.Email, &p.HRCID, &p.Headshot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// WithDiscoverableVideos returns presenters associated with at least one
// discoverable video, alphabetical by name.
func (r *Repository) WithDiscoverableVideos(ctx context.Context) ([]models.Presenter, error) {
	const q = `SELECT ` + presenterColumns + ` FROM presenters p
		JOIN video_presenters vp ON vp.presenter_id = p.id
		JOIN videos v ON v.id = vp.video_id
		WHERE v.recording IS NOT NULL
		GROUP BY p.id
		ORDER BY p.name`
	return r.queryPresenters(ctx, q)
}

// List returns all presenters, optionally filtered by a case-insensitive name
// substring (admin autocomplete), alphabetical.
func (r *Repository) List(ctx context.Context, nameQuery string) ([]models.Presenter, error) {
	if nameQuery == "" {
		return r.queryPresenters(ctx, `SELECT `+presenterColumns+` FROM presenters p ORDER BY p.name`)
	}
	const q = `SELECT ` + presenterColumns + ` FROM presenters p
		WHERE p.name ILIKE '%' || $1 || '%' ORDER BY p.name`
	return r.queryPresenters(ctx, q, nameQuery)
}

// GetByID returns a presenter by id, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Presenter, error) {
	return r.queryPresenter(ctx, `SELECT `+presenterColumns+` FROM presenters p WHERE p.id = $1`, id)
}

// GetByHRCID returns a presenter by external-directory id, or ErrNotFound.
func (r *Repository) GetByHRCID(ctx context.Context, hrcID int64) (*models.Presenter, error) {
	return r.queryPresenter(ctx, `SELECT `+presenterColumns+` FROM presenters p WHERE p.hrc_id = $1`, hrcID)
}

// GetByEmail returns a presenter by email, or ErrNotFound.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Presenter, error) {
	return r.queryPresenter(ctx, `SELECT `+presenterColumns+` FROM presenters p WHERE p.email = $1`, email)
}

// Create inserts a new presenter.
func (r *Repository) Create(ctx context.Context, p *models.Presenter) error {
	const q = `INSERT INTO presenters (name, email, hrc_id, headshot)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, '')) RETURNING id`
	return r.pool.QueryRow(ctx, q, p.Name, p.Email, p.HRCID, p.Headshot).Scan(&p.ID)
}

// Update replaces a presenter's fields.
func (r *Repository) Update(ctx context.Context, p *models.Presenter) error {
	const q = `UPDATE presenters SET name = $1, email = NULLIF($2, ''), hrc_id = $3, headshot = NULLIF($4, '')
		WHERE id = $5`
	tag, err := r.pool.Exec(ctx, q, p.Name, p.Email, p.HRCID, p.Headshot, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a presenter; video associations cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM presenters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Talks returns all videos the presenter appears on, most recent first.
// Unlike catalog search this includes non-discoverable videos, so upcoming
// talks are visible to integration consumers.
func (r *Repository) Talks(ctx context.Context, presenterID int64) ([]models.Video, error) {
	const q = `SELECT v.id, v.title, COALESCE(v.description, ''), v.unixstart, v.unixend,
			COALESCE(v.stream, ''), COALESCE(v.slides, ''), v.recording, COALESCE(v.chat_log, ''),
			COALESCE(v.thumbnails, ''), COALESCE(v.calendar_event, '')
		FROM videos v
		JOIN video_presenters vp ON vp.video_id = v.id
		WHERE vp.presenter_id = $1
		ORDER BY v.unixstart DESC, v.id ASC`
	rows, err := r.pool.Query(ctx, q, presenterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.UnixStart, &v.UnixEnd,
			&v.Stream, &v.Slides, &v.Recording, &v.ChatLog, &v.Thumbnails, &v.CalendarEvent); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// UpsertFromDirectory reconciles one directory employee record: match by
// hrc_id first, then by email, otherwise insert. Returns true when a new
// presenter row was created.
func (r *Repository) UpsertFromDirectory(ctx context.Context, name, email string, hrcID int64, headshot string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE presenters SET name = $1, email = $2, headshot = NULLIF($3, '') WHERE hrc_id = $4`,
		name, email, headshot, hrcID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}
	tag, err = r.pool.Exec(ctx,
		`UPDATE presenters SET name = $1, hrc_id = $2, headshot = NULLIF($3, '') WHERE email = $4 AND hrc_id IS NULL`,
		name, hrcID, headshot, email)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO presenters (name, email, hrc_id, headshot) VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''))
		 ON CONFLICT (hrc_id) DO NOTHING`,
		name, email, hrcID, headshot)
	if err != nil {
		return false, err
	}
	return true, nil
}
