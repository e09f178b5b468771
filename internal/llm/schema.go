package llm

import (
	"fmt"

	"github.com/docufield/docufield/internal/entity"
)

// BuildFieldsJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map: one string-typed property per field, keyed by field id, all
// required, no additional properties. This gives the model a closed contract:
// it must emit exactly the requested keys as strings. We pass it to the
// backend as a structured-output constraint and also use it locally to
// validate the response.
func BuildFieldsJSONSchema(fields []entity.ExtractionField) map[string]any {
	props := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.ID] = map[string]any{
			"type":        "string",
			"description": fmt.Sprintf("Extracted value for field: %s - %s", f.Name, f.Description),
		}
		required = append(required, f.ID)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}
