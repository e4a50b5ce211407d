package tags

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/masterclass-hub/backend/internal/models"
)

// ErrBadDateTag is returned when a Date-category tag name does not match the
// assumed "Q<digit> <year>" form. The format is a data-entry contract:
// failures propagate as server errors instead of silently dropping the tag.
var ErrBadDateTag = errors.New("malformed date tag name")

var dateTagPattern = regexp.MustCompile(`^Q(\d) (\d{4})$`)

func dateTagKey(name string) (year, quarter int, err error) {
	m := dateTagPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadDateTag, name)
	}
	quarter, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	return year, quarter, nil
}

// sortDateTags orders Date tags reverse chronologically: year descending,
// then quarter descending ("Q4 2024" before "Q3 2024" before "Q4 2023").
func sortDateTags(list []models.Tag) error {
	type entry struct {
		tag           models.Tag
		year, quarter int
	}
	entries := make([]entry, len(list))
	for i, t := range list {
		y, q, err := dateTagKey(t.Name)
		if err != nil {
			return err
		}
		entries[i] = entry{tag: t, year: y, quarter: q}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].year != entries[j].year {
			return entries[i].year > entries[j].year
		}
		return entries[i].quarter > entries[j].quarter
	})
	for i := range entries {
		list[i] = entries[i].tag
	}
	return nil
}
