package discovery

import (
	"context"

	"github.com/masterclass-hub/backend/internal/models"
)

// Filter is a search criterion the Store compiles into its native query
// language. Exactly one of the concrete types below is passed per
// MatchDiscoverable call.
type Filter interface {
	filter()
}

// TagFilter matches videos carrying at least one of the given tag ids within
// the named category.
type TagFilter struct {
	Category string
	IDs      []int64
}

// PresenterFilter matches videos with at least one of the given presenter ids.
type PresenterFilter struct {
	IDs []int64
}

// TextFilter is the structured text match: the query as a substring of the
// video's aggregated presenter names or aggregated tag names, or any
// whitespace-delimited query term as a substring of title or description.
// All comparisons are lowercased.
type TextFilter struct {
	Query string
}

func (TagFilter) filter()       {}
func (PresenterFilter) filter() {}
func (TextFilter) filter()      {}

// VideoPresenterName pairs a discoverable video with one of its presenters'
// display names, for the fuzzy fallback pass.
type VideoPresenterName struct {
	VideoID int64
	Name    string
}

// Store is the read-only video store the engine searches over. All id-set
// operations are restricted to discoverable videos (recording IS NOT NULL);
// LiveVideos is the one exception and considers every video.
//
// For DiscoverablePage and DiscoverableCount a nil ids slice means "no filter
// applied" (every discoverable video); a non-nil slice restricts to those ids.
type Store interface {
	MatchDiscoverable(ctx context.Context, f Filter) (map[int64]struct{}, error)
	DiscoverablePage(ctx context.Context, ids []int64, limit, offset int) ([]models.Video, error)
	DiscoverableCount(ctx context.Context, ids []int64) (int, error)
	DiscoverablePresenterNames(ctx context.Context) ([]VideoPresenterName, error)
	SharedTopicVideos(ctx context.Context, videoID int64, limit int) ([]models.Video, error)
	RecentVideos(ctx context.Context, excludeID int64, limit int) ([]models.Video, error)
	RandomVideos(ctx context.Context, excludeID int64, limit int) ([]models.Video, error)
	LiveVideos(ctx context.Context, now int64) ([]models.Video, error)
}
