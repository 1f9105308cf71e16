package portal

import (
	"strings"

	"github.com/aluiziolira/go-scrape-evds/parser"
)

// matchText picks the option named want: an exact match first, then a
// case-insensitive one, then the first option that contains want or is
// contained in it. Blank options never match. It returns -1 when nothing
// matches.
func matchText(options []string, want string) int {
	want = parser.NormalizeCell(want)
	if want == "" {
		return -1
	}
	for i, o := range options {
		if parser.NormalizeCell(o) == want {
			return i
		}
	}
	lower := strings.ToLower(want)
	for i, o := range options {
		if strings.ToLower(parser.NormalizeCell(o)) == lower {
			return i
		}
	}
	for i, o := range options {
		text := strings.ToLower(parser.NormalizeCell(o))
		if text == "" {
			continue
		}
		if strings.Contains(text, lower) || strings.Contains(lower, text) {
			return i
		}
	}
	return -1
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
