package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docufield/docufield/internal/entity"
)

var testFields = []entity.ExtractionField{
	{ID: "f1", Name: "Invoice Number", Description: "the invoice identifier"},
	{ID: "f2", Name: "Total Amount", Description: "invoice grand total"},
}

func TestBuildFieldsJSONSchema(t *testing.T) {
	schema := BuildFieldsJSONSchema(testFields)

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t, []string{"f1", "f2"}, schema["required"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	require.Len(t, props, 2)
	f1, ok := props["f1"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", f1["type"])
	assert.Contains(t, f1["description"], "Invoice Number")
}

func TestSchemaValidationRoundTrip(t *testing.T) {
	schema := BuildFieldsJSONSchema(testFields)

	assert.NoError(t, ValidateJSONAgainstSchema(schema,
		[]byte(`{"f1":"INV-2024-001","f2":"Not found"}`)))

	// missing required key
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"f1":"INV-2024-001"}`)))
	// unexpected extra key
	assert.Error(t, ValidateJSONAgainstSchema(schema,
		[]byte(`{"f1":"a","f2":"b","surprise":"c"}`)))
	// non-string value
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"f1":"a","f2":42}`)))
	// not JSON at all
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`not json`)))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 100))

	got := TruncateText(strings.Repeat("a", 200), 50)
	assert.Equal(t, strings.Repeat("a", 50)+TruncationMarker, got)

	// maxLen <= 0 disables truncation
	assert.Equal(t, "anything", TruncateText("anything", 0))
}

func TestTruncateTextRuneBoundary(t *testing.T) {
	text := strings.Repeat("é", 10)
	got := TruncateText(text, 5)
	assert.Equal(t, strings.Repeat("é", 5)+TruncationMarker, got)
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := BuildUserPrompt(testFields, "DOCUMENT BODY")

	assert.Contains(t, prompt, `Field: "Invoice Number"`)
	assert.Contains(t, prompt, "the invoice identifier")
	assert.Contains(t, prompt, `Field: "Total Amount"`)
	assert.Contains(t, prompt, "DOCUMENT BODY")
	// field list comes before the document text
	assert.Less(t, strings.Index(prompt, "Invoice Number"), strings.Index(prompt, "DOCUMENT BODY"))
}

func TestBuildSystemPromptSentinel(t *testing.T) {
	prompt := BuildSystemPrompt()
	assert.Contains(t, prompt, `"Not found"`)
	assert.Contains(t, prompt, "Extract ONLY what is explicitly present")
}
