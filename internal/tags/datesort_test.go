package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterclass-hub/backend/internal/models"
)

func dateTags(names ...string) []models.Tag {
	list := make([]models.Tag, len(names))
	for i, n := range names {
		list[i] = models.Tag{ID: int64(i + 1), Name: n, Category: models.CategoryDate}
	}
	return list
}

func tagNames(list []models.Tag) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Name
	}
	return out
}

func TestSortDateTagsReverseChronological(t *testing.T) {
	list := dateTags("Q3 2024", "Q1 2025", "Q4 2023", "Q4 2024", "Q2 2025")

	require.NoError(t, sortDateTags(list))
	assert.Equal(t, []string{"Q2 2025", "Q1 2025", "Q4 2024", "Q3 2024", "Q4 2023"}, tagNames(list))
}

func TestSortDateTagsKeepsIDsWithNames(t *testing.T) {
	list := dateTags("Q1 2024", "Q2 2024")

	require.NoError(t, sortDateTags(list))
	assert.Equal(t, "Q2 2024", list[0].Name)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, "Q1 2024", list[1].Name)
	assert.Equal(t, int64(1), list[1].ID)
}

func TestSortDateTagsMalformedName(t *testing.T) {
	for _, name := range []string{"2024 Q1", "Q12 2024", "Q1  2024", "q1 2024", "Q1 24", "Spring 2024", ""} {
		err := sortDateTags(dateTags("Q1 2024", name))
		assert.ErrorIs(t, err, ErrBadDateTag, "name %q", name)
	}
}

func TestSortDateTagsEmpty(t *testing.T) {
	assert.NoError(t, sortDateTags(nil))
}
