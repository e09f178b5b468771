package pdftext

import "fmt"

// ParseError is a typed acquisition failure: the payload could not be decoded
// or the PDF could not be structurally parsed. The pipeline treats it as a
// terminal task failure; no retry happens at this layer.
type ParseError struct {
	Stage string // "decode" | "validate" | "parse"
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pdf %s failed: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
