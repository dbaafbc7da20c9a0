package input

import (
	"strings"

	"github.com/rivo/uniseg"
)

// escapeKeys converts literal text to the backend's input notation.
// "<" starts a termcode and must be written <LT>; newlines are sent as
// <CR>.
func escapeKeys(text string) string {
	if !strings.ContainsAny(text, "<\n") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		switch r {
		case '<':
			b.WriteString("<LT>")
		case '\n':
			b.WriteString("<CR>")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// trimGraphemes removes the last n grapheme clusters from s. Host
// replace counts address what the user perceives as characters, which
// for composed text are clusters rather than runes or bytes.
func trimGraphemes(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	var ends []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		_, to := g.Positions()
		ends = append(ends, to)
	}
	if n >= len(ends) {
		return ""
	}
	return s[:ends[len(ends)-n-1]]
}

// insertMode reports whether a backend mode name is insert-family.
func insertMode(name string) bool {
	return len(name) > 0 && name[0] == 'i'
}
