package videos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetailSlug(t *testing.T) {
	assert.Equal(t, "go-concurrency-class-42", DetailSlug("Go Concurrency", 42))
	assert.Equal(t, "jose-s-masterclass-class-7", DetailSlug("José's Masterclass!", 7))
}

func TestParseDetailSlug(t *testing.T) {
	slug, id, ok := ParseDetailSlug("go-concurrency-class-42")
	assert.True(t, ok)
	assert.Equal(t, "go-concurrency", slug)
	assert.Equal(t, int64(42), id)

	// A title that itself contains the separator: the last occurrence wins.
	slug, id, ok = ParseDetailSlug("master-class-fundamentals-class-9")
	assert.True(t, ok)
	assert.Equal(t, "master-class-fundamentals", slug)
	assert.Equal(t, int64(9), id)
}

func TestParseDetailSlugInvalid(t *testing.T) {
	for _, s := range []string{"", "no-separator", "title-class-", "title-class-abc", "title-class-0", "title-class--3"} {
		_, _, ok := ParseDetailSlug(s)
		assert.False(t, ok, "slug %q", s)
	}
}

func TestSlugRoundTrip(t *testing.T) {
	for _, title := range []string{"Go Concurrency", "Intro to Rust", "Kafka: Basics & Beyond"} {
		s := DetailSlug(title, 11)
		slug, id, ok := ParseDetailSlug(s)
		assert.True(t, ok)
		assert.Equal(t, int64(11), id)
		assert.NotEmpty(t, slug)
	}
}
