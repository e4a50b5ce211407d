package videos

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masterclass-hub/backend/internal/discovery"
	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/internal/presenters"
	"github.com/masterclass-hub/backend/internal/tags"
	"github.com/masterclass-hub/backend/pkg/response"
	"github.com/masterclass-hub/backend/pkg/textutil"
)

// Facets are the filter options offered for the current catalog, restricted
// to tags/presenters with at least one discoverable video.
type Facets struct {
	Topics     []models.Tag       `json:"topics"`
	Events     []models.Tag       `json:"events"`
	Dates      []models.Tag       `json:"dates"`
	Presenters []models.Presenter `json:"presenters"`
}

// ActiveFilters echoes the request's resolved filter state back to the UI.
type ActiveFilters struct {
	Search     string   `json:"search,omitempty"`
	Topics     []string `json:"topics,omitempty"`
	Events     []string `json:"events,omitempty"`
	Dates      []string `json:"dates,omitempty"`
	Presenters []string `json:"presenters,omitempty"`
}

// Handler handles the public catalog endpoints.
type Handler struct {
	repo          *Repository
	engine        *discovery.Engine
	tagRepo       *tags.Repository
	presenterRepo *presenters.Repository
	pageSize      int
	logger        *zap.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(repo *Repository, engine *discovery.Engine, tagRepo *tags.Repository, presenterRepo *presenters.Repository, pageSize int, logger *zap.Logger) *Handler {
	if pageSize <= 0 {
		pageSize = discovery.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:          repo,
		engine:        engine,
		tagRepo:       tagRepo,
		presenterRepo: presenterRepo,
		pageSize:      pageSize,
		logger:        logger,
	}
}

// List handles GET /videos: the searchable, filterable, paginated catalog.
// topic/event/date/presenter query params are comma-separated slug lists.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	facets, err := h.loadFacets(c)
	if err != nil {
		return // response already written
	}

	active := ActiveFilters{
		Search:     strings.TrimSpace(c.Query("search")),
		Topics:     splitSlugs(c.Query("topic")),
		Events:     splitSlugs(c.Query("event")),
		Dates:      splitSlugs(c.Query("date")),
		Presenters: splitSlugs(c.Query("presenter")),
	}

	req := discovery.Request{
		Query:        active.Search,
		TopicTagIDs:  resolveTagSlugs(facets.Topics, active.Topics),
		EventTagIDs:  resolveTagSlugs(facets.Events, active.Events),
		DateTagIDs:   resolveTagSlugs(facets.Dates, active.Dates),
		PresenterIDs: resolvePresenterSlugs(facets.Presenters, active.Presenters),
		Page:         parsePage(c.Query("page")),
		PageSize:     h.pageSize,
	}

	result, err := h.engine.Search(ctx, req)
	if err != nil {
		h.logger.Error("catalog search failed", zap.Error(err))
		response.Internal(c, "search failed")
		return
	}
	if err := h.repo.AttachRelations(ctx, result.Videos); err != nil {
		h.logger.Error("load video relations failed", zap.Error(err))
		response.Internal(c, "search failed")
		return
	}

	live, err := h.liveBanner(c)
	if err != nil {
		return
	}

	response.OK(c, gin.H{
		"videos":    result.Videos,
		"total":     result.Total,
		"page":      result.Page,
		"pages":     result.Pages,
		"page_size": result.PageSize,
		"filters":   active,
		"facets":    facets,
		"live":      live,
	})
}

// Detail handles GET /videos/:slug where slug is "{title-slug}-class-{id}".
// A stale title slug redirects permanently to the canonical URL.
func (h *Handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	slug, id, ok := ParseDetailSlug(c.Param("slug"))
	if !ok {
		response.NotFound(c, "video not found")
		return
	}
	video, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "video not found")
			return
		}
		h.logger.Error("get video failed", zap.Error(err), zap.Int64("video_id", id))
		response.Internal(c, "failed to load video")
		return
	}
	if canonical := textutil.Slugify(video.Title); slug != canonical {
		c.Redirect(http.StatusMovedPermanently, "/videos/"+DetailSlug(video.Title, video.ID))
		return
	}

	page := []models.Video{*video}
	if err := h.repo.AttachRelations(ctx, page); err != nil {
		h.logger.Error("load video relations failed", zap.Error(err), zap.Int64("video_id", id))
		response.Internal(c, "failed to load video")
		return
	}

	suggested, err := h.engine.Suggested(ctx, video.ID)
	if err != nil {
		h.logger.Error("suggested videos failed", zap.Error(err), zap.Int64("video_id", id))
		response.Internal(c, "failed to load video")
		return
	}
	if err := h.repo.AttachRelations(ctx, suggested); err != nil {
		h.logger.Error("load suggested relations failed", zap.Error(err))
		response.Internal(c, "failed to load video")
		return
	}

	live, err := h.liveBanner(c)
	if err != nil {
		return
	}

	response.OK(c, gin.H{
		"video":     page[0],
		"suggested": suggested,
		"live":      live,
	})
}

// Random handles GET /random: redirect to a uniformly random discoverable
// video's detail page.
func (h *Handler) Random(c *gin.Context) {
	video, err := h.repo.RandomDiscoverable(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "no videos available")
			return
		}
		h.logger.Error("random video failed", zap.Error(err))
		response.Internal(c, "failed to pick a video")
		return
	}
	c.Redirect(http.StatusFound, "/videos/"+DetailSlug(video.Title, video.ID))
}

// Live handles GET /live: the currently-live banner list.
func (h *Handler) Live(c *gin.Context) {
	live, err := h.liveBanner(c)
	if err != nil {
		return
	}
	response.OK(c, live)
}

func (h *Handler) liveBanner(c *gin.Context) ([]models.Video, error) {
	live, err := h.engine.Live(c.Request.Context())
	if err != nil {
		h.logger.Error("live videos failed", zap.Error(err))
		response.Internal(c, "failed to load live videos")
		return nil, err
	}
	if err := h.repo.AttachRelations(c.Request.Context(), live); err != nil {
		h.logger.Error("load live relations failed", zap.Error(err))
		response.Internal(c, "failed to load live videos")
		return nil, err
	}
	return live, nil
}

func (h *Handler) loadFacets(c *gin.Context) (*Facets, error) {
	ctx := c.Request.Context()
	var f Facets
	var err error
	if f.Topics, err = h.tagRepo.InCategory(ctx, models.CategoryTopic); err == nil {
		if f.Events, err = h.tagRepo.InCategory(ctx, models.CategoryEvent); err == nil {
			if f.Dates, err = h.tagRepo.InCategory(ctx, models.CategoryDate); err == nil {
				f.Presenters, err = h.presenterRepo.WithDiscoverableVideos(ctx)
			}
		}
	}
	if err != nil {
		// A malformed Date tag name surfaces here as a hard error.
		h.logger.Error("load facets failed", zap.Error(err))
		response.Internal(c, "failed to load catalog filters")
		return nil, err
	}
	return &f, nil
}

// resolveTagSlugs maps request slugs to tag ids via slugified tag names.
// Slug collisions between distinct names alias to the last one seen. Slugs
// that resolve to nothing still constitute a filter (one no video matches),
// so a bogus slug yields an empty result rather than an unfiltered catalog.
func resolveTagSlugs(facet []models.Tag, slugs []string) []int64 {
	if len(slugs) == 0 {
		return nil
	}
	index := make(map[string]int64, len(facet))
	for _, t := range facet {
		index[textutil.Slugify(t.Name)] = t.ID
	}
	return resolveSlugIDs(index, slugs)
}

func resolvePresenterSlugs(facet []models.Presenter, slugs []string) []int64 {
	if len(slugs) == 0 {
		return nil
	}
	index := make(map[string]int64, len(facet))
	for _, p := range facet {
		index[textutil.Slugify(p.Name)] = p.ID
	}
	return resolveSlugIDs(index, slugs)
}

func resolveSlugIDs(index map[string]int64, slugs []string) []int64 {
	var ids []int64
	for _, s := range slugs {
		if id, ok := index[s]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []int64{-1}
	}
	return ids
}

func splitSlugs(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
