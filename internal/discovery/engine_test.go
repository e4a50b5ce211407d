package discovery

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterclass-hub/backend/internal/models"
	"github.com/masterclass-hub/backend/pkg/textutil"
)

// memStore is an in-memory Store with the same matching semantics as the SQL
// repository, for exercising the engine without a database.
type memStore struct {
	videos []models.Video
}

func (s *memStore) discoverable() []models.Video {
	var out []models.Video
	for _, v := range s.videos {
		if v.Discoverable() {
			out = append(out, v)
		}
	}
	return out
}

func (s *memStore) MatchDiscoverable(_ context.Context, f Filter) (map[int64]struct{}, error) {
	out := make(map[int64]struct{})
	for _, v := range s.discoverable() {
		if matchVideo(v, f) {
			out[v.ID] = struct{}{}
		}
	}
	return out, nil
}

func matchVideo(v models.Video, f Filter) bool {
	switch f := f.(type) {
	case TagFilter:
		for _, t := range v.Tags {
			if t.Category != f.Category {
				continue
			}
			for _, id := range f.IDs {
				if t.ID == id {
					return true
				}
			}
		}
		return false
	case PresenterFilter:
		for _, p := range v.Presenters {
			for _, id := range f.IDs {
				if p.ID == id {
					return true
				}
			}
		}
		return false
	case TextFilter:
		q := strings.ToLower(f.Query)
		var names, tagNames []string
		for _, p := range v.Presenters {
			names = append(names, p.Name)
		}
		for _, t := range v.Tags {
			tagNames = append(tagNames, t.Name)
		}
		if strings.Contains(strings.ToLower(strings.Join(names, " ")), q) {
			return true
		}
		if strings.Contains(strings.ToLower(strings.Join(tagNames, " ")), q) {
			return true
		}
		title := strings.ToLower(v.Title)
		desc := strings.ToLower(v.Description)
		for _, term := range textutil.QueryTerms(f.Query) {
			if strings.Contains(title, term) || strings.Contains(desc, term) {
				return true
			}
		}
		return false
	}
	return false
}

func (s *memStore) restrict(ids []int64) []models.Video {
	videos := s.discoverable()
	if ids != nil {
		allowed := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			allowed[id] = struct{}{}
		}
		var kept []models.Video
		for _, v := range videos {
			if _, ok := allowed[v.ID]; ok {
				kept = append(kept, v)
			}
		}
		videos = kept
	}
	sort.SliceStable(videos, func(i, j int) bool {
		if videos[i].UnixStart != videos[j].UnixStart {
			return videos[i].UnixStart > videos[j].UnixStart
		}
		return videos[i].ID < videos[j].ID
	})
	return videos
}

func (s *memStore) DiscoverablePage(_ context.Context, ids []int64, limit, offset int) ([]models.Video, error) {
	videos := s.restrict(ids)
	if offset >= len(videos) {
		return nil, nil
	}
	end := offset + limit
	if end > len(videos) {
		end = len(videos)
	}
	return videos[offset:end], nil
}

func (s *memStore) DiscoverableCount(_ context.Context, ids []int64) (int, error) {
	return len(s.restrict(ids)), nil
}

func (s *memStore) DiscoverablePresenterNames(_ context.Context) ([]VideoPresenterName, error) {
	var out []VideoPresenterName
	for _, v := range s.discoverable() {
		for _, p := range v.Presenters {
			out = append(out, VideoPresenterName{VideoID: v.ID, Name: p.Name})
		}
	}
	return out, nil
}

func (s *memStore) SharedTopicVideos(_ context.Context, videoID int64, limit int) ([]models.Video, error) {
	var base *models.Video
	for i := range s.videos {
		if s.videos[i].ID == videoID {
			base = &s.videos[i]
		}
	}
	if base == nil {
		return nil, nil
	}
	topics := make(map[int64]struct{})
	for _, t := range base.Tags {
		if t.Category == models.CategoryTopic {
			topics[t.ID] = struct{}{}
		}
	}
	var out []models.Video
	for _, v := range s.restrict(nil) {
		if v.ID == videoID || len(out) >= limit {
			continue
		}
		for _, t := range v.Tags {
			if _, ok := topics[t.ID]; ok && t.Category == models.CategoryTopic {
				out = append(out, v)
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) RecentVideos(_ context.Context, excludeID int64, limit int) ([]models.Video, error) {
	var out []models.Video
	for _, v := range s.restrict(nil) {
		if v.ID == excludeID {
			continue
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memStore) RandomVideos(ctx context.Context, excludeID int64, limit int) ([]models.Video, error) {
	return s.RecentVideos(ctx, excludeID, limit)
}

func (s *memStore) LiveVideos(_ context.Context, now int64) ([]models.Video, error) {
	var out []models.Video
	for _, v := range s.videos {
		if v.Live(now) {
			out = append(out, v)
		}
	}
	return out, nil
}

func rec() *string {
	s := "https://cdn.example.com/rec.mp4"
	return &s
}

func topic(id int64, name string) models.Tag {
	return models.Tag{ID: id, Name: name, Category: models.CategoryTopic}
}

func event(id int64, name string) models.Tag {
	return models.Tag{ID: id, Name: name, Category: models.CategoryEvent}
}

func dateTag(id int64, name string) models.Tag {
	return models.Tag{ID: id, Name: name, Category: models.CategoryDate}
}

// catalogStore builds a small catalog:
//
//	1: Go Concurrency    topics[Go]        presenters[José García]   start 400
//	2: Intro to Rust     topics[Rust]      presenters[Ann Lee]       start 300
//	3: Go Generics       topics[Go]        presenters[Ann Lee]       start 200
//	4: Kafka Basics      topics[Infra]     presenters[Bo Chen]       start 100
//	5: Unreleased        (no recording)
func catalogStore() *memStore {
	return &memStore{videos: []models.Video{
		{ID: 1, Title: "Go Concurrency", Description: "channels and goroutines", UnixStart: 400, UnixEnd: 450, Recording: rec(),
			Tags:       []models.Tag{topic(10, "Go"), event(20, "TechWeek"), dateTag(30, "Q1 2025")},
			Presenters: []models.Presenter{{ID: 100, Name: "José García"}}},
		{ID: 2, Title: "Intro to Rust", Description: "ownership explained", UnixStart: 300, UnixEnd: 350, Recording: rec(),
			Tags:       []models.Tag{topic(11, "Rust"), event(20, "TechWeek"), dateTag(30, "Q1 2025")},
			Presenters: []models.Presenter{{ID: 101, Name: "Ann Lee"}}},
		{ID: 3, Title: "Go Generics", Description: "type parameters", UnixStart: 200, UnixEnd: 250, Recording: rec(),
			Tags:       []models.Tag{topic(10, "Go"), dateTag(31, "Q4 2024")},
			Presenters: []models.Presenter{{ID: 101, Name: "Ann Lee"}}},
		{ID: 4, Title: "Kafka Basics", Description: "streams and brokers", UnixStart: 100, UnixEnd: 150, Recording: rec(),
			Tags:       []models.Tag{topic(12, "Infra"), dateTag(31, "Q4 2024")},
			Presenters: []models.Presenter{{ID: 102, Name: "Bo Chen"}}},
		{ID: 5, Title: "Unreleased Session", UnixStart: 500, UnixEnd: 550,
			Tags:       []models.Tag{topic(10, "Go")},
			Presenters: []models.Presenter{{ID: 100, Name: "José García"}}},
	}}
}

func resultIDs(r Result) []int64 {
	ids := make([]int64, len(r.Videos))
	for i, v := range r.Videos {
		ids[i] = v.ID
	}
	return ids
}

func TestSearchUnfiltered(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.Pages)
	// Newest first; the non-discoverable video never appears.
	assert.Equal(t, []int64{1, 2, 3, 4}, resultIDs(res))
}

func TestSearchTagFilter(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{TopicTagIDs: []int64{10}, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3}, resultIDs(res))
	assert.Equal(t, 2, res.Total)
}

func TestSearchFilterGroupsIntersect(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{
		TopicTagIDs:  []int64{10},
		PresenterIDs: []int64{101},
		PageSize:     10,
	})
	require.NoError(t, err)

	// Go topic AND Ann Lee leaves only video 3.
	assert.Equal(t, []int64{3}, resultIDs(res))
}

func TestSearchWithinGroupIsUnion(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{TopicTagIDs: []int64{10, 11}, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, resultIDs(res))
}

func TestSearchEmptyIntersectionShortCircuits(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{
		TopicTagIDs: []int64{11},
		DateTagIDs:  []int64{31},
		Page:        7,
		PageSize:    10,
	})
	require.NoError(t, err)

	assert.Empty(t, res.Videos)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.Pages)
}

func TestSearchSentinelFilterMatchesNothing(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{TopicTagIDs: []int64{-1}, PageSize: 10})
	require.NoError(t, err)

	assert.Empty(t, res.Videos)
	assert.Equal(t, 0, res.Total)
}

func TestSearchUnknownPresenterIsEmpty(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{PresenterIDs: []int64{999}, PageSize: 10})
	require.NoError(t, err)

	assert.Empty(t, res.Videos)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.Pages)
}

func TestSearchTextIntersectsWithFilters(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{
		TopicTagIDs: []int64{10},
		Query:       "generics",
		PageSize:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{3}, resultIDs(res))
}

func TestSearchTextMatchesTagAndPresenterNames(t *testing.T) {
	e := NewEngine(catalogStore())

	res, err := e.Search(context.Background(), Request{Query: "techweek", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, resultIDs(res))

	res, err = e.Search(context.Background(), Request{Query: "ann lee", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, resultIDs(res))
}

func TestSearchFuzzyFallbackReplacesFilters(t *testing.T) {
	e := NewEngine(catalogStore())

	// "jose" never appears in titles, descriptions, tag names, or the exact
	// aggregated presenter string, so the structured match comes up empty and
	// the accent-insensitive presenter fallback takes over. The fallback
	// replaces the narrowed set, so the Rust topic filter no longer applies.
	res, err := e.Search(context.Background(), Request{
		TopicTagIDs: []int64{11},
		Query:       "jose",
		PageSize:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, resultIDs(res))
}

func TestSearchFuzzyMatchesNamePartPrefix(t *testing.T) {
	e := NewEngine(catalogStore())

	res, err := e.Search(context.Background(), Request{Query: "garc", PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, resultIDs(res))
}

func TestSearchNoStructuredNoFuzzyIsEmpty(t *testing.T) {
	e := NewEngine(catalogStore())

	res, err := e.Search(context.Background(), Request{Query: "zzzzzz", PageSize: 10})
	require.NoError(t, err)

	assert.Empty(t, res.Videos)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Pages)
}

func TestSearchPagination(t *testing.T) {
	e := NewEngine(catalogStore())

	first, err := e.Search(context.Background(), Request{Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, resultIDs(first))
	assert.Equal(t, 2, first.Pages)
	assert.Equal(t, 4, first.Total)

	second, err := e.Search(context.Background(), Request{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, resultIDs(second))
}

func TestSearchPageClamped(t *testing.T) {
	e := NewEngine(catalogStore())

	res, err := e.Search(context.Background(), Request{Page: 99, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, []int64{4}, resultIDs(res))

	res, err = e.Search(context.Background(), Request{Page: -4, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
}

func TestSearchOrderingNonIncreasing(t *testing.T) {
	e := NewEngine(catalogStore())
	res, err := e.Search(context.Background(), Request{PageSize: 10})
	require.NoError(t, err)

	for i := 1; i < len(res.Videos); i++ {
		assert.GreaterOrEqual(t, res.Videos[i-1].UnixStart, res.Videos[i].UnixStart)
	}
}

func TestSuggestedPrefersSharedTopics(t *testing.T) {
	e := NewEngine(catalogStore())

	videos, err := e.Suggested(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, videos)
	assert.Equal(t, int64(3), videos[0].ID)

	// Video 4 shares no topics; suggestions fall back to recent.
	videos, err = e.Suggested(context.Background(), 4)
	require.NoError(t, err)
	assert.NotEmpty(t, videos)
	for _, v := range videos {
		assert.NotEqual(t, int64(4), v.ID)
	}
}

func TestLiveUsesClock(t *testing.T) {
	e := NewEngine(catalogStore())
	e.now = func() int64 { return 520 }

	videos, err := e.Live(context.Background())
	require.NoError(t, err)
	// Live includes non-discoverable videos.
	require.Len(t, videos, 1)
	assert.Equal(t, int64(5), videos[0].ID)

	e.now = func() int64 { return 999 }
	videos, err = e.Live(context.Background())
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestFuzzyPresenterMatch(t *testing.T) {
	names := []VideoPresenterName{
		{VideoID: 1, Name: "José García"},
		{VideoID: 2, Name: "Ann Lee"},
	}

	assert.Contains(t, fuzzyPresenterMatch("jose", names), int64(1))
	assert.Contains(t, fuzzyPresenterMatch("garcía", names), int64(1))
	assert.Contains(t, fuzzyPresenterMatch("annabel", names), int64(2)) // part is a prefix of the query
	assert.Contains(t, fuzzyPresenterMatch("arc", names), int64(1))    // substring of a part
	assert.Nil(t, fuzzyPresenterMatch("zzz", names))
	assert.Nil(t, fuzzyPresenterMatch("   ", names))
}
