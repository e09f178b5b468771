package pdftext

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64PrefixEquivalence(t *testing.T) {
	raw := []byte("%PDF-1.4 fake body")
	bare := base64.StdEncoding.EncodeToString(raw)
	prefixed := "data:application/pdf;base64," + bare

	fromBare, err := DecodeBase64(bare)
	require.NoError(t, err)
	fromPrefixed, err := DecodeBase64(prefixed)
	require.NoError(t, err)
	assert.Equal(t, fromBare, fromPrefixed)
	assert.Equal(t, raw, fromBare)
}

func TestDecodeBase64Unpadded(t *testing.T) {
	raw := []byte("odd length payload!")
	unpadded := base64.RawStdEncoding.EncodeToString(raw)

	got, err := DecodeBase64(unpadded)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDecodeBase64Invalid(t *testing.T) {
	_, err := DecodeBase64("this is !!! not base64")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "decode", perr.Stage)
}

func TestDecodeBase64SurroundingWhitespace(t *testing.T) {
	raw := []byte("payload")
	got, err := DecodeBase64("  " + base64.StdEncoding.EncodeToString(raw) + "\n")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestExtractRejectsInvalidBase64(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	_, err := e.Extract(context.Background(), "!!! definitely not base64 !!!")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "decode", perr.Stage)
}

func TestExtractRejectsNonPDFBytes(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	payload := base64.StdEncoding.EncodeToString([]byte("this is plain text, not a PDF"))
	_, err := e.Extract(context.Background(), payload)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "validate", perr.Stage)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`back\slash`, "backslash"},
		{"glyph (cid:142) here", "glyph here"},
		{"a   b\t\nc", "a b c"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, CleanText(tc.in), "input %q", tc.in)
	}
}
