package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docufield/docufield/internal/entity"
)

func TestValueRepairsAbnormalSpacing(t *testing.T) {
	assert.Equal(t, "Hello, world.", Value("H e l l o , w o r l d ."))
}

func TestValueLeavesNormalTextAlone(t *testing.T) {
	tests := []string{
		"John Doe",
		"Invoice INV-2024-001 dated 2024-03-01",
		"one two three four",
		"",
	}
	for _, in := range tests {
		assert.Equal(t, in, Value(in), "input %q", in)
	}
}

func TestValueIdempotent(t *testing.T) {
	inputs := []string{
		"H e l l o , w o r l d .",
		"a b c d e f",
		"plain text stays put",
	}
	for _, in := range inputs {
		once := Value(in)
		assert.Equal(t, once, Value(once), "input %q", in)
	}
}

func TestValueThreshold(t *testing.T) {
	// exactly one third spaces is not abnormal
	assert.Equal(t, "ab ab ab", Value("ab ab ab"))
	// above one third is
	assert.Equal(t, "abababab", Value("a b a b a b a b"))
}

func TestResultsNormalizesInPlace(t *testing.T) {
	results := []entity.ExtractionResult{
		{FieldID: "f1", Value: "J o h n D o e"},
		{FieldID: "f2", Value: "untouched"},
	}
	out := Results(results)
	assert.Equal(t, "JohnDoe", out[0].Value)
	assert.Equal(t, "untouched", out[1].Value)
	assert.Equal(t, "f1", out[0].FieldID)
	assert.Equal(t, "f2", out[1].FieldID)
}
