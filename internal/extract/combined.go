package extract

import (
	"context"
	"log/slog"

	"github.com/docufield/docufield/constants"
	"github.com/docufield/docufield/internal/entity"
	"github.com/docufield/docufield/internal/observability/metrics"
)

// Combined runs the schema-constrained primary extractor and silently degrades
// to the regex fallback when the primary fails for any reason (backend
// unreachable, schema violation, parse error). The degradation is a recovery,
// not a surfaced error: callers cannot distinguish which path produced the
// results.
type Combined struct {
	primary  FieldExtractor
	fallback FieldExtractor
	logger   *slog.Logger
	metrics  *metrics.PipelineMetrics
}

func NewCombined(primary, fallback FieldExtractor, logger *slog.Logger, m *metrics.PipelineMetrics) *Combined {
	if logger == nil {
		logger = slog.Default()
	}
	return &Combined{primary: primary, fallback: fallback, logger: logger, metrics: m}
}

func (c *Combined) ExtractFields(ctx context.Context, text string, fields []entity.ExtractionField) ([]entity.ExtractionResult, error) {
	if c.primary != nil {
		results, err := c.primary.ExtractFields(ctx, text, fields)
		if err == nil {
			return results, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("extract.primary_failed_falling_back", "error", err, "fields", len(fields))
		c.metrics.FallbackUsed()
	}
	if c.fallback == nil {
		return ErrorResultSet(fields), nil
	}
	return c.fallback.ExtractFields(ctx, text, fields)
}

// ErrorResultSet builds the uniform degraded set: every field's value is the
// extraction-error sentinel, which signals a failed attempt rather than
// absence in the document.
func ErrorResultSet(fields []entity.ExtractionField) []entity.ExtractionResult {
	results := make([]entity.ExtractionResult, 0, len(fields))
	for _, f := range fields {
		results = append(results, entity.ExtractionResult{
			FieldID: f.ID,
			Value:   constants.SentinelExtractError,
		})
	}
	return results
}
