// Package textutil provides the text normalization used by catalog search:
// diacritic-insensitive matching of presenter names and slugification of
// facet names for the URL-driven filter API.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and strips diacritics ("José Álvarez" -> "jose alvarez").
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform only fails on invalid UTF-8; fall back to the raw string.
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Slugify converts a name to its URL slug: normalized, with every run of
// non-alphanumeric characters collapsed to a single hyphen.
// Two distinct names can slugify identically; callers own that ambiguity.
func Slugify(s string) string {
	normalized := Normalize(s)
	var b strings.Builder
	b.Grow(len(normalized))
	lastHyphen := true // suppress leading hyphen
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// QueryTerms splits a free-text query into lowercased whitespace-delimited
// terms for per-term title/description matching.
func QueryTerms(q string) []string {
	return strings.Fields(strings.ToLower(q))
}
