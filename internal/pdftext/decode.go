package pdftext

import (
	"encoding/base64"
	"strings"
)

// DecodeBase64 decodes a base64 PDF payload. A data-URI scheme marker such as
// "data:application/pdf;base64," may prefix the payload and is stripped before
// decoding, so prefixed and bare payloads decode to identical bytes.
func DecodeBase64(pdfData string) ([]byte, error) {
	payload := pdfData
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.IndexByte(payload, ','); idx >= 0 {
			payload = payload[idx+1:]
		}
	}
	payload = strings.TrimSpace(payload)

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some producers emit unpadded base64.
		raw, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, &ParseError{Stage: "decode", Err: err}
	}
	return raw, nil
}
