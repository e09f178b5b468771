package constants

// Sentinel values stored in ExtractionResult.Value in place of real content.
// Each extraction path owns its own sentinel; they are part of the wire
// contract and must not be conflated:
//   - SentinelNotFound: the LLM path looked and the field is absent from the document.
//   - SentinelDataNotFound: the regex fallback exhausted all patterns.
//   - SentinelExtractError: the extraction attempt itself failed (distinct from absence).
const (
	SentinelNotFound     = "Not found"
	SentinelDataNotFound = "Data not found"
	SentinelExtractError = "Error extracting data"
)

// NoTextPlaceholder is returned by the PDF text extractor when parsing
// succeeded but yielded no text. Never an empty string: downstream code
// treats empty text as a hard failure, not as "no text found".
const NoTextPlaceholder = "No text could be extracted from this PDF."

// IsSentinel reports whether v is one of the reserved sentinel strings.
func IsSentinel(v string) bool {
	return v == SentinelNotFound || v == SentinelDataNotFound || v == SentinelExtractError
}
