package llm

// TruncationMarker is appended whenever document text is cut to the token
// budget. Truncation silently drops tail content; it is a hard safeguard, not
// a quality optimization.
const TruncationMarker = "... [text truncated due to length]"

// TruncateText bounds text to at most maxLen characters, appending the
// truncation marker when anything was dropped. Cuts happen on rune
// boundaries so the prefix stays valid UTF-8.
func TruncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + TruncationMarker
}
