package crawler

import "strings"

// canonicalProperties maps the sites' many spellings of the same version tag
// onto one canonical token. Canonical tokens are not themselves keys, which
// keeps normalization idempotent.
var canonicalProperties = map[string]string{
	"Englisches Original mit deutschen Untertiteln": "OmU",
	"im engl. Original mit dt. Untertiteln":         "OmU",
	"omu": "OmU",

	"englisches OV, ohne Untertitel": "OV",
	"englische OV, ohne Untertitel":  "OV",
	"Englische Originalfassung":      "OV",
	"englisch":                       "OV",
	"ov":                             "OV",

	"Englisches Original mit engl. Untertiteln": "OmeU",
	"omeu": "OmeU",

	"3d":   "3D",
	"2d":   "2D",
	"dbox": "D-BOX",
}

// NormalizeProperties maps raw site tags onto the canonical vocabulary,
// dropping blanks and duplicates while preserving first-occurrence order.
// Unrecognized tags pass through unchanged.
func NormalizeProperties(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if canonical, ok := canonicalProperties[p]; ok {
			p = canonical
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
