package crawler

import (
	"regexp"
	"strings"
)

var (
	trailingParenRe = regexp.MustCompile(`\s*\(([^)]*)\)\s*$`)
	numericDateRe   = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.`)
)

const segmentSeparator = " - "

// movieBlacklist holds listings that are known not to be movie titles:
// surprise screenings and live event relays the metadata service would
// mis-match. Compared case-insensitively as a prefix.
var movieBlacklist = []string{
	"sneak preview",
	"met opera",
	"royal opera house",
	"kurzfilmnacht",
	"filmnacht",
}

func blacklisted(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, entry := range movieBlacklist {
		if strings.HasPrefix(lower, entry) {
			return true
		}
	}
	return false
}

// splitTrailingParen removes a trailing parenthetical annotation from a
// title and returns it separately, e.g. "Dune (OV)" -> "Dune", "OV".
func splitTrailingParen(title string) (string, string) {
	m := trailingParenRe.FindStringSubmatch(title)
	if m == nil {
		return strings.TrimSpace(title), ""
	}
	clean := strings.TrimSpace(trailingParenRe.ReplaceAllString(title, ""))
	return clean, strings.TrimSpace(m[1])
}

// shrinkCandidates lists progressively shorter search candidates for a
// title, dropping one trailing " - " segment at a time:
// "Movie - Sneak Preview" -> ["Movie - Sneak Preview", "Movie"].
// The popping order is a fixed policy; stored search titles depend on it.
func shrinkCandidates(title string) []string {
	segments := strings.Split(title, segmentSeparator)
	candidates := make([]string, 0, len(segments))
	for i := len(segments); i >= 1; i-- {
		candidates = append(candidates, strings.Join(segments[:i], segmentSeparator))
	}
	return candidates
}

// droppedSegments returns the segments removed to reach candidate index i of
// shrinkCandidates(title), in their original order.
func droppedSegments(title string, candidate int) []string {
	segments := strings.Split(title, segmentSeparator)
	kept := len(segments) - candidate
	out := make([]string, 0, candidate)
	for _, s := range segments[kept:] {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
