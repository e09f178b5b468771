// Package patterns is the deterministic fallback field extractor: per-category
// ordered regex alternatives, applied when the schema-constrained primary path
// is unavailable or fails. Works offline and always returns exactly one result
// per requested field, in field order.
package patterns

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/docufield/docufield/constants"
	"github.com/docufield/docufield/internal/entity"
)

type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractFields maps each field to a category by substring match against its
// lowercased name and description, tries the category's patterns in order,
// and otherwise falls back to generic patterns derived from the field name.
// Fields with no match at all get the "Data not found" sentinel.
func (e *Extractor) ExtractFields(ctx context.Context, text string, fields []entity.ExtractionField) ([]entity.ExtractionResult, error) {
	results := make([]entity.ExtractionResult, 0, len(fields))
	for _, field := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value := e.extractOne(text, field)
		results = append(results, entity.ExtractionResult{FieldID: field.ID, Value: value})
	}
	e.logger.Info("patterns.extract.done", "fields", len(fields))
	return results, nil
}

func (e *Extractor) extractOne(text string, field entity.ExtractionField) string {
	nameLower := strings.ToLower(field.Name)
	descLower := strings.ToLower(field.Description)

	for _, cat := range categoryTable {
		if !strings.Contains(nameLower, cat.key) && !strings.Contains(descLower, cat.key) {
			continue
		}
		if v, ok := firstMatch(cat.patterns, text); ok {
			e.logger.Debug("patterns.match", "field", field.Name, "category", cat.key)
			return v
		}
		break // first category wins; its patterns missed, go generic
	}

	if v, ok := firstMatch(genericPatterns(field.Name), text); ok {
		e.logger.Debug("patterns.generic_match", "field", field.Name)
		return v
	}

	e.logger.Debug("patterns.miss", "field", field.Name)
	return constants.SentinelDataNotFound
}

// genericPatterns builds patterns from the field's own name: name against a
// line/comma boundary, the same without the boundary, then the same using only
// the first whitespace-delimited token of the name.
func genericPatterns(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	firstToken := quoted
	if tokens := strings.Fields(name); len(tokens) > 0 {
		firstToken = regexp.QuoteMeta(tokens[0])
	}
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)` + quoted + `[:\s]+([A-Za-z0-9\s.,#'/-]+)(?:\r|\n|,)`),
		regexp.MustCompile(`(?i)` + quoted + `[:\s]+([^\r\n]+)`),
		regexp.MustCompile(`(?i)` + firstToken + `[:\s]+([^\r\n]+)`),
	}
}

func firstMatch(res []*regexp.Regexp, text string) (string, bool) {
	for _, re := range res {
		m := re.FindStringSubmatch(text)
		if len(m) > 1 && m[1] != "" {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}
