package videos

import (
	"strconv"
	"strings"

	"github.com/masterclass-hub/backend/pkg/textutil"
)

// slugSep separates the title slug from the video id in detail URLs:
// /videos/{title-slug}-class-{id}.
const slugSep = "-class-"

// DetailSlug builds the canonical detail-path segment for a video.
func DetailSlug(title string, id int64) string {
	return textutil.Slugify(title) + slugSep + strconv.FormatInt(id, 10)
}

// ParseDetailSlug splits a detail-path segment into its title slug and video
// id. The last "-class-" occurrence wins so titles containing the separator
// still resolve.
func ParseDetailSlug(s string) (slug string, id int64, ok bool) {
	i := strings.LastIndex(s, slugSep)
	if i < 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(s[i+len(slugSep):], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return s[:i], id, true
}
