package extract

import (
	"context"

	"github.com/docufield/docufield/internal/entity"
)

// TextExtractor is stage 1: base64 PDF payload -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, pdfData string) (string, error)
}

// FieldExtractor is stage 2: document text + field specs -> one result per
// field, in field order.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string, fields []entity.ExtractionField) ([]entity.ExtractionResult, error)
}
