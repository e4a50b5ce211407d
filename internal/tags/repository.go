package tags

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masterclass-hub/backend/internal/models"
)

// ErrNotFound is returned when a tag or category id has no matching record.
var ErrNotFound = errors.New("tag not found")

// Repository is the tag catalog.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tag repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InCategory returns the tags of a category that label at least one
// discoverable video. Ordering is alphabetical except for the Date category,
// which is reverse chronological by the "Q<digit> <year>" tag name; a
// non-conforming Date tag name is a hard error.
func (r *Repository) InCategory(ctx context.Context, category string) ([]models.Tag, error) {
	const q = `SELECT t.id, t.name, t.tag_type_id, tc.name FROM tag t
		JOIN tag_category tc ON tc.id = t.tag_type_id
		JOIN video_tags vt ON vt.tag_id = t.id
		JOIN videos v ON v.id = vt.video_id
		WHERE tc.name = $1 AND v.recording IS NOT NULL
		GROUP BY t.id, tc.name
		ORDER BY t.name`
	list, err := r.queryTags(ctx, q, category)
	if err != nil {
		return nil, err
	}
	if category == models.CategoryDate {
		if err := sortDateTags(list); err != nil {
			return nil, fmt.Errorf("order %s tags: %w", category, err)
		}
	}
	return list, nil
}

// List returns all tags with their category, for the admin surface.
func (r *Repository) List(ctx context.Context) ([]models.Tag, error) {
	const q = `SELECT t.id, t.name, t.tag_type_id, tc.name FROM tag t
		JOIN tag_category tc ON tc.id = t.tag_type_id
		ORDER BY tc.name, t.name`
	return r.queryTags(ctx, q)
}

func (r *Repository) queryTags(ctx context.Context, sql string, args ...interface{}) ([]models.Tag, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CategoryID, &t.Category); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetByID returns a tag by id, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	const q = `SELECT t.id, t.name, t.tag_type_id, tc.name FROM tag t
		JOIN tag_category tc ON tc.id = t.tag_type_id
		WHERE t.id = $1`
	var t models.Tag
	err := r.pool.QueryRow(ctx, q, id).Scan(&t.ID, &t.Name, &t.CategoryID, &t.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a new tag in the given category.
func (r *Repository) Create(ctx context.Context, t *models.Tag) error {
	const q = `INSERT INTO tag (name, tag_type_id) VALUES ($1, $2) RETURNING id`
	return r.pool.QueryRow(ctx, q, t.Name, t.CategoryID).Scan(&t.ID)
}

// Update renames a tag and/or moves it to another category.
func (r *Repository) Update(ctx context.Context, t *models.Tag) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tag SET name = $1, tag_type_id = $2 WHERE id = $3`,
		t.Name, t.CategoryID, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a tag; its video associations cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tag WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Categories returns all tag categories ordered by name.
func (r *Repository) Categories(ctx context.Context) ([]models.TagCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM tag_category ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.TagCategory
	for rows.Next() {
		var c models.TagCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CreateCategory inserts a new tag category.
func (r *Repository) CreateCategory(ctx context.Context, c *models.TagCategory) error {
	const q = `INSERT INTO tag_category (name) VALUES ($1) RETURNING id`
	return r.pool.QueryRow(ctx, q, c.Name).Scan(&c.ID)
}
