// Package normalize repairs spacing artifacts in extracted values. Certain PDF
// text layouts yield values with a space between most characters; the repair
// heuristic detects that shape and rebuilds the spacing around punctuation.
package normalize

import (
	"regexp"
	"strings"

	"github.com/docufield/docufield/internal/entity"
)

var (
	reAllSpace = regexp.MustCompile(`\s+`)
	rePunct    = regexp.MustCompile(`([.,;!?])`)
)

// Value returns s unchanged unless more than one third of its characters are
// spaces, in which case all whitespace is stripped and a single space is
// reinserted after each sentence-ending punctuation character. The heuristic
// can over-correct legitimately spaced content and under-correct artifacts
// below the threshold.
func Value(s string) string {
	if !abnormallySpaced(s) {
		return s
	}
	repaired := reAllSpace.ReplaceAllString(s, "")
	repaired = rePunct.ReplaceAllString(repaired, "$1 ")
	return strings.TrimSpace(repaired)
}

// Results normalizes every result value in place and returns the slice.
func Results(results []entity.ExtractionResult) []entity.ExtractionResult {
	for i := range results {
		results[i].Value = Value(results[i].Value)
	}
	return results
}

func abnormallySpaced(s string) bool {
	runes := []rune(s)
	spaces := 0
	for _, r := range runes {
		if r == ' ' {
			spaces++
		}
	}
	return float64(spaces) > float64(len(runes))/3
}
