package videos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/masterclass-hub/backend/internal/discovery"
	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/pkg/textutil"
)

// ErrNotFound is returned when a video id has no matching record.
var ErrNotFound = errors.New("video not found")

const videoColumns = `v.id, v.title, COALESCE(v.description, ''), v.unixstart, v.unixend,
	COALESCE(v.stream, ''), COALESCE(v.slides, ''), v.recording, COALESCE(v.chat_log, ''),
	COALESCE(v.thumbnails, ''), COALESCE(v.calendar_event, '')`

// Repository is the video store. It implements discovery.Store for the search
// engine and provides the admin mutations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a video repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var v models.Video
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.UnixStart, &v.UnixEnd,
		&v.Stream, &v.Slides, &v.Recording, &v.ChatLog, &v.Thumbnails, &v.CalendarEvent)
	return v, err
}

func (r *Repository) queryVideos(ctx context.Context, sql string, args ...interface{}) ([]models.Video, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *Repository) queryIDSet(ctx context.Context, sql string, args ...interface{}) (map[int64]struct{}, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// MatchDiscoverable compiles a discovery filter into SQL and returns the
// matching discoverable video ids.
func (r *Repository) MatchDiscoverable(ctx context.Context, f discovery.Filter) (map[int64]struct{}, error) {
	switch f := f.(type) {
	case discovery.TagFilter:
		const q = `SELECT DISTINCT v.id FROM videos v
			JOIN video_tags vt ON vt.video_id = v.id
			JOIN tag t ON t.id = vt.tag_id
			JOIN tag_category tc ON tc.id = t.tag_type_id
			WHERE v.recording IS NOT NULL AND tc.name = $1 AND t.id = ANY($2)`
		return r.queryIDSet(ctx, q, f.Category, f.IDs)
	case discovery.PresenterFilter:
		const q = `SELECT DISTINCT v.id FROM videos v
			JOIN video_presenters vp ON vp.video_id = v.id
			WHERE v.recording IS NOT NULL AND vp.presenter_id = ANY($1)`
		return r.queryIDSet(ctx, q, f.IDs)
	case discovery.TextFilter:
		sql, args := buildTextMatch(f.Query)
		return r.queryIDSet(ctx, sql, args...)
	default:
		return nil, fmt.Errorf("unsupported filter %T", f)
	}
}

// buildTextMatch builds the structured text match: the whole query against
// aggregated presenter names and aggregated tag names, plus each query term
// against title and description.
func buildTextMatch(query string) (string, []interface{}) {
	lowered := strings.ToLower(strings.TrimSpace(query))
	args := []interface{}{lowered}
	clauses := []string{
		`lower(COALESCE(string_agg(DISTINCT p.name, ' '), '')) LIKE '%' || $1 || '%'`,
		`lower(COALESCE(string_agg(DISTINCT t.name, ' '), '')) LIKE '%' || $1 || '%'`,
	}
	for _, term := range textutil.QueryTerms(query) {
		args = append(args, term)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			`(lower(v.title) LIKE '%%' || $%d || '%%' OR lower(COALESCE(v.description, '')) LIKE '%%' || $%d || '%%')`, n, n))
	}
	sql := `SELECT v.id FROM videos v
		LEFT JOIN video_tags vt ON vt.video_id = v.id
		LEFT JOIN tag t ON t.id = vt.tag_id
		LEFT JOIN video_presenters vp ON vp.video_id = v.id
		LEFT JOIN presenters p ON p.id = vp.presenter_id
		WHERE v.recording IS NOT NULL
		GROUP BY v.id
		HAVING ` + strings.Join(clauses, " OR ")
	return sql, args
}

// DiscoverablePage returns one ordered page of discoverable videos. A nil ids
// slice means no filter; ordering is start descending with id ascending as
// the deterministic tie-break.
func (r *Repository) DiscoverablePage(ctx context.Context, ids []int64, limit, offset int) ([]models.Video, error) {
	if ids == nil {
		q := `SELECT ` + videoColumns + ` FROM videos v
			WHERE v.recording IS NOT NULL
			ORDER BY v.unixstart DESC, v.id ASC LIMIT $1 OFFSET $2`
		return r.queryVideos(ctx, q, limit, offset)
	}
	q := `SELECT ` + videoColumns + ` FROM videos v
		WHERE v.recording IS NOT NULL AND v.id = ANY($1)
		ORDER BY v.unixstart DESC, v.id ASC LIMIT $2 OFFSET $3`
	return r.queryVideos(ctx, q, ids, limit, offset)
}

// DiscoverableCount counts discoverable videos, optionally restricted to ids.
func (r *Repository) DiscoverableCount(ctx context.Context, ids []int64) (int, error) {
	var count int
	if ids == nil {
		err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE recording IS NOT NULL`).Scan(&count)
		return count, err
	}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM videos WHERE recording IS NOT NULL AND id = ANY($1)`, ids).Scan(&count)
	return count, err
}

// DiscoverablePresenterNames returns (video id, presenter name) pairs for all
// discoverable videos, for the fuzzy text-search fallback.
func (r *Repository) DiscoverablePresenterNames(ctx context.Context) ([]discovery.VideoPresenterName, error) {
	const q = `SELECT vp.video_id, p.name FROM video_presenters vp
		JOIN presenters p ON p.id = vp.presenter_id
		JOIN videos v ON v.id = vp.video_id
		WHERE v.recording IS NOT NULL`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []discovery.VideoPresenterName
	for rows.Next() {
		var pn discovery.VideoPresenterName
		if err := rows.Scan(&pn.VideoID, &pn.Name); err != nil {
			return nil, err
		}
		list = append(list, pn)
	}
	return list, rows.Err()
}

// SharedTopicVideos ranks discoverable videos by the count of Topic tags
// shared with the given video, descending, most recent first on ties.
func (r *Repository) SharedTopicVideos(ctx context.Context, videoID int64, limit int) ([]models.Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos v
		JOIN (
			SELECT vt2.video_id, COUNT(*) AS shared FROM video_tags vt1
			JOIN tag t ON t.id = vt1.tag_id
			JOIN tag_category tc ON tc.id = t.tag_type_id AND tc.name = $1
			JOIN video_tags vt2 ON vt2.tag_id = vt1.tag_id AND vt2.video_id <> vt1.video_id
			WHERE vt1.video_id = $2
			GROUP BY vt2.video_id
		) s ON s.video_id = v.id
		WHERE v.recording IS NOT NULL
		ORDER BY s.shared DESC, v.unixstart DESC, v.id ASC LIMIT $3`
	return r.queryVideos(ctx, q, models.CategoryTopic, videoID, limit)
}

// RecentVideos returns the most recently started discoverable videos,
// excluding the given id.
func (r *Repository) RecentVideos(ctx context.Context, excludeID int64, limit int) ([]models.Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos v
		WHERE v.recording IS NOT NULL AND v.id <> $1
		ORDER BY v.unixstart DESC, v.id ASC LIMIT $2`
	return r.queryVideos(ctx, q, excludeID, limit)
}

// RandomVideos returns uniformly random discoverable videos, excluding the
// given id.
func (r *Repository) RandomVideos(ctx context.Context, excludeID int64, limit int) ([]models.Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos v
		WHERE v.recording IS NOT NULL AND v.id <> $1
		ORDER BY random() LIMIT $2`
	return r.queryVideos(ctx, q, excludeID, limit)
}

// LiveVideos returns all videos whose window contains now, ordered by start.
func (r *Repository) LiveVideos(ctx context.Context, now int64) ([]models.Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos v
		WHERE v.unixstart <= $1 AND v.unixend >= $1
		ORDER BY v.unixstart ASC, v.id ASC`
	return r.queryVideos(ctx, q, now)
}

// GetByID returns a video by id, or ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos v WHERE v.id = $1`
	v, err := scanVideo(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// RandomDiscoverable returns one uniformly random discoverable video, or
// ErrNotFound when the catalog is empty.
func (r *Repository) RandomDiscoverable(ctx context.Context) (*models.Video, error) {
	q := `SELECT ` + videoColumns + ` FROM videos v
		WHERE v.recording IS NOT NULL ORDER BY random() LIMIT 1`
	v, err := scanVideo(r.pool.QueryRow(ctx, q))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// AttachRelations loads presenters and tags for the given videos in two
// batched queries and fills the slice in place.
func (r *Repository) AttachRelations(ctx context.Context, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}
	ids := make([]int64, len(videos))
	index := make(map[int64]*models.Video, len(videos))
	for i := range videos {
		ids[i] = videos[i].ID
		index[videos[i].ID] = &videos[i]
	}

	const presenterQ = `SELECT vp.video_id, p.id, p.name, COALESCE(p.email, ''), p.hrc_id, COALESCE(p.headshot, '')
		FROM video_presenters vp
		JOIN presenters p ON p.id = vp.presenter_id
		WHERE vp.video_id = ANY($1) ORDER BY p.name`
	rows, err := r.pool.Query(ctx, presenterQ, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var videoID int64
		var p models.Presenter
		if err := rows.Scan(&videoID, &p.ID, &p.Name, &p.Email, &p.HRCID, &p.Headshot); err != nil {
			rows.Close()
			return err
		}
		if v := index[videoID]; v != nil {
			v.Presenters = append(v.Presenters, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	const tagQ = `SELECT vt.video_id, t.id, t.name, t.tag_type_id, tc.name
		FROM video_tags vt
		JOIN tag t ON t.id = vt.tag_id
		JOIN tag_category tc ON tc.id = t.tag_type_id
		WHERE vt.video_id = ANY($1) ORDER BY tc.name, t.name`
	rows, err = r.pool.Query(ctx, tagQ, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var videoID int64
		var t models.Tag
		if err := rows.Scan(&videoID, &t.ID, &t.Name, &t.CategoryID, &t.Category); err != nil {
			return err
		}
		if v := index[videoID]; v != nil {
			v.Tags = append(v.Tags, t)
		}
	}
	return rows.Err()
}

// Create inserts a new video.
func (r *Repository) Create(ctx context.Context, v *models.Video) error {
	const q = `INSERT INTO videos (title, description, unixstart, unixend, stream, slides, recording, chat_log, thumbnails, calendar_event)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))
		RETURNING id`
	return r.pool.QueryRow(ctx, q, v.Title, v.Description, v.UnixStart, v.UnixEnd,
		v.Stream, v.Slides, v.Recording, v.ChatLog, v.Thumbnails, v.CalendarEvent).Scan(&v.ID)
}

// Update replaces all mutable fields of a video.
func (r *Repository) Update(ctx context.Context, v *models.Video) error {
	const q = `UPDATE videos SET title = $1, description = NULLIF($2, ''), unixstart = $3, unixend = $4,
		stream = NULLIF($5, ''), slides = NULLIF($6, ''), recording = $7, chat_log = NULLIF($8, ''),
		thumbnails = NULLIF($9, ''), calendar_event = NULLIF($10, '')
		WHERE id = $11`
	tag, err := r.pool.Exec(ctx, q, v.Title, v.Description, v.UnixStart, v.UnixEnd,
		v.Stream, v.Slides, v.Recording, v.ChatLog, v.Thumbnails, v.CalendarEvent, v.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a video; association rows cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTags replaces the video's tag associations.
func (r *Repository) SetTags(ctx context.Context, videoID int64, tagIDs []int64) error {
	return r.replaceAssociations(ctx, videoID, tagIDs,
		`DELETE FROM video_tags WHERE video_id = $1`,
		`INSERT INTO video_tags (video_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`)
}

// SetPresenters replaces the video's presenter associations.
func (r *Repository) SetPresenters(ctx context.Context, videoID int64, presenterIDs []int64) error {
	return r.replaceAssociations(ctx, videoID, presenterIDs,
		`DELETE FROM video_presenters WHERE video_id = $1`,
		`INSERT INTO video_presenters (video_id, presenter_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`)
}

func (r *Repository) replaceAssociations(ctx context.Context, videoID int64, ids []int64, deleteQ, insertQ string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteQ, videoID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.Exec(ctx, insertQ, videoID, id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
