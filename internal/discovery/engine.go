// Package discovery implements the catalog search engine: multi-criteria
// filter intersection, structured free-text matching with a fuzzy
// presenter-name fallback, and pagination over discoverable videos.
package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/pkg/textutil"
)

// DefaultPageSize is the catalog page size when the request does not set one.
const DefaultPageSize = 12

// SuggestedLimit is the number of related videos returned for a detail page.
const SuggestedLimit = 3

// Request is a catalog search. Page is 1-based and clamped into the valid
// range once the result size is known. All filter sets are optional.
type Request struct {
	Query        string
	TopicTagIDs  []int64
	EventTagIDs  []int64
	DateTagIDs   []int64
	PresenterIDs []int64
	Page         int
	PageSize     int
}

// Result is one page of a search along with totals.
type Result struct {
	Videos   []models.Video
	Total    int
	Page     int
	Pages    int
	PageSize int
}

// Engine resolves search requests against an injected Store. It is stateless
// per call and performs read-only queries; concurrent searches are
// independent.
type Engine struct {
	store Store
	now   func() int64
}

// NewEngine creates an engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{
		store: store,
		now:   func() int64 { return time.Now().Unix() },
	}
}

// Search narrows the discoverable set through each non-empty filter group in
// fixed order (Topic, Event, Date tags, then presenters), short-circuiting to
// an empty result as soon as the intersection is empty. A free-text query is
// then intersected via the structured match; when that matches nothing, the
// fuzzy presenter-name fallback runs over all discoverable videos and, if it
// finds anything, replaces the narrowed set entirely.
func (e *Engine) Search(ctx context.Context, req Request) (Result, error) {
	size := req.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	// nil until the first filter applies; distinct from an empty set.
	var matched map[int64]struct{}
	narrow := func(ids map[int64]struct{}) bool {
		if matched == nil {
			matched = ids
			if matched == nil {
				matched = map[int64]struct{}{}
			}
		} else {
			for id := range matched {
				if _, ok := ids[id]; !ok {
					delete(matched, id)
				}
			}
		}
		return len(matched) > 0
	}

	var groups []Filter
	if len(req.TopicTagIDs) > 0 {
		groups = append(groups, TagFilter{Category: models.CategoryTopic, IDs: req.TopicTagIDs})
	}
	if len(req.EventTagIDs) > 0 {
		groups = append(groups, TagFilter{Category: models.CategoryEvent, IDs: req.EventTagIDs})
	}
	if len(req.DateTagIDs) > 0 {
		groups = append(groups, TagFilter{Category: models.CategoryDate, IDs: req.DateTagIDs})
	}
	if len(req.PresenterIDs) > 0 {
		groups = append(groups, PresenterFilter{IDs: req.PresenterIDs})
	}
	for _, f := range groups {
		ids, err := e.store.MatchDiscoverable(ctx, f)
		if err != nil {
			return Result{}, err
		}
		if !narrow(ids) {
			return emptyResult(size), nil
		}
	}

	if q := strings.TrimSpace(req.Query); q != "" {
		ids, err := e.store.MatchDiscoverable(ctx, TextFilter{Query: q})
		if err != nil {
			return Result{}, err
		}
		if !narrow(ids) {
			names, err := e.store.DiscoverablePresenterNames(ctx)
			if err != nil {
				return Result{}, err
			}
			if fuzzy := fuzzyPresenterMatch(q, names); len(fuzzy) > 0 {
				matched = fuzzy
			}
		}
	}

	var idList []int64
	if matched != nil {
		if len(matched) == 0 {
			return emptyResult(size), nil
		}
		idList = make([]int64, 0, len(matched))
		for id := range matched {
			idList = append(idList, id)
		}
	}

	total, err := e.store.DiscoverableCount(ctx, idList)
	if err != nil {
		return Result{}, err
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	videos, err := e.store.DiscoverablePage(ctx, idList, size, (page-1)*size)
	if err != nil {
		return Result{}, err
	}
	return Result{Videos: videos, Total: total, Page: page, Pages: pages, PageSize: size}, nil
}

// Suggested returns up to SuggestedLimit discoverable videos related to the
// given one: by shared Topic tags first, then most recently started, then
// random. It degrades to fewer (or zero) results rather than failing.
func (e *Engine) Suggested(ctx context.Context, videoID int64) ([]models.Video, error) {
	videos, err := e.store.SharedTopicVideos(ctx, videoID, SuggestedLimit)
	if err != nil {
		return nil, err
	}
	if len(videos) > 0 {
		return videos, nil
	}
	videos, err = e.store.RecentVideos(ctx, videoID, SuggestedLimit)
	if err != nil {
		return nil, err
	}
	if len(videos) > 0 {
		return videos, nil
	}
	return e.store.RandomVideos(ctx, videoID, SuggestedLimit)
}

// Live returns all videos whose scheduling window contains the current time,
// regardless of discoverability.
func (e *Engine) Live(ctx context.Context) ([]models.Video, error) {
	return e.store.LiveVideos(ctx, e.now())
}

func emptyResult(size int) Result {
	return Result{Total: 0, Page: 1, Pages: 1, PageSize: size}
}

// fuzzyPresenterMatch matches the normalized query against normalized
// presenter names: as a substring of the full name, or against each
// whitespace-separated name part as a prefix in either direction or a
// substring. Returns nil when nothing matches.
func fuzzyPresenterMatch(query string, names []VideoPresenterName) map[int64]struct{} {
	nq := textutil.Normalize(query)
	if nq == "" {
		return nil
	}
	out := make(map[int64]struct{})
	for _, pn := range names {
		if _, ok := out[pn.VideoID]; ok {
			continue
		}
		full := textutil.Normalize(pn.Name)
		if strings.Contains(full, nq) {
			out[pn.VideoID] = struct{}{}
			continue
		}
		for _, part := range strings.Fields(full) {
			if strings.HasPrefix(part, nq) || strings.HasPrefix(nq, part) || strings.Contains(part, nq) {
				out[pn.VideoID] = struct{}{}
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
