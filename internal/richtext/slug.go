package richtext

import (
	"regexp"
	"strings"
)

var slugSeparators = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Slugify turns heading text into a URL/id-safe token: lowercase, runs of
// anything that is not a letter, digit, or underscore collapse to a single
// hyphen, leading/trailing hyphens stripped. Idempotent.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
