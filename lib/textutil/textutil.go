package textutil

import (
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
)

// Clean canonicalizes free text scraped from either upstream site:
// the "vs." variant collapses to "vs", non-breaking spaces become
// ordinary spaces, edges are trimmed.
func Clean(s string) string {
	s = strings.ReplaceAll(s, " vs. ", " vs ")
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(s)
}

// BoutName renders the canonical "A vs B" form of a fighter pair.
func BoutName(a, b string) string {
	return Clean(a) + " vs " + Clean(b)
}

// BoutOrderings returns both orderings of a bout string. The fixture
// page and the results page are not guaranteed to list a pair in the
// same order, so any lookup by bout name has to check both.
func BoutOrderings(bout string) []string {
	bout = Clean(bout)
	a, b, ok := strings.Cut(bout, " vs ")
	if !ok {
		return []string{bout}
	}
	return []string{a + " vs " + b, b + " vs " + a}
}

// SplitOf parses the "x of y" landed/attempted cells. Anything that
// does not split cleanly counts as (0, 0) rather than failing the row.
func SplitOf(s string) (landed, attempted int) {
	l, a, ok := strings.Cut(strings.TrimSpace(s), " of ")
	if !ok {
		return 0, 0
	}
	landed, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil {
		return 0, 0
	}
	attempted, err = strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0
	}
	return landed, attempted
}

// DurationSeconds converts "m:ss" control-time text into total
// seconds, with 0 for anything lacking the separator.
func DurationSeconds(s string) int {
	m, sec, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(sec))
	if err != nil {
		return 0
	}
	return minutes*60 + seconds
}

// Similarity scores two names with Jaro-Winkler, case-insensitively.
func Similarity(a, b string) float64 {
	return matchr.JaroWinkler(strings.ToLower(a), strings.ToLower(b), false)
}
