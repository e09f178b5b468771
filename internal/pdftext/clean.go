package pdftext

import (
	"regexp"
	"strings"
)

var (
	reBackslash  = regexp.MustCompile(`\\`)
	reCID        = regexp.MustCompile(`\(cid:[0-9]+\)`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// CleanText strips parser artifacts from extracted text: backslash escape
// characters, (cid:N) glyph ids emitted for unmapped glyphs, and whitespace
// runs collapsed to single spaces.
func CleanText(s string) string {
	s = reBackslash.ReplaceAllString(s, "")
	s = reCID.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
