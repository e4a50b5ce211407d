package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "jose alvarez", Normalize("José Álvarez"))
	assert.Equal(t, "uber", Normalize("Über"))
	assert.Equal(t, "plain text", Normalize("  Plain Text  "))
	assert.Equal(t, "", Normalize(""))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "go-concurrency", Slugify("Go Concurrency"))
	assert.Equal(t, "jose-garcia", Slugify("José García"))
	assert.Equal(t, "kafka-basics-beyond", Slugify("Kafka: Basics & Beyond"))
	assert.Equal(t, "q4-2024", Slugify("Q4 2024"))
	assert.Equal(t, "a-b", Slugify("--a---b--"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestQueryTerms(t *testing.T) {
	assert.Equal(t, []string{"go", "generics"}, QueryTerms("  Go   Generics "))
	assert.Empty(t, QueryTerms("   "))
}
