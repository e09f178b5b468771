package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docufield/docufield/constants"
	"github.com/docufield/docufield/internal/entity"
)

var testFields = []entity.ExtractionField{
	{ID: "f1", Name: "Invoice Number"},
	{ID: "f2", Name: "Total Amount"},
}

func completionResponse(content string) string {
	msg := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(msg)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	return c, srv
}

func TestExtractFieldsSuccess(t *testing.T) {
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, completionResponse(`{"f1":"INV-2024-001","f2":"1,234.56"}`))
	})

	results, err := c.ExtractFields(context.Background(), "some invoice text", testFields)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "f1", results[0].FieldID)
	assert.Equal(t, "INV-2024-001", results[0].Value)
	assert.Equal(t, "1,234.56", results[1].Value)

	// request shape
	assert.Equal(t, "gpt-4o-2024-11-20", gotBody["model"])
	assert.InDelta(t, 0.1, gotBody["temperature"], 0.001)
	rf, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", rf["type"])
	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 3)
}

func TestExtractFieldsEmptyValueDefaultsToSentinel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionResponse(`{"f1":"INV-2024-001","f2":""}`))
	})

	results, err := c.ExtractFields(context.Background(), "text", testFields)
	require.NoError(t, err)
	assert.Equal(t, constants.SentinelNotFound, results[1].Value)
}

func TestExtractFieldsSchemaViolation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// missing required f2
		fmt.Fprint(w, completionResponse(`{"f1":"INV-2024-001"}`))
	})

	_, err := c.ExtractFields(context.Background(), "text", testFields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestExtractFieldsHTTPError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := c.ExtractFields(context.Background(), "text", testFields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := c.ExtractFields(context.Background(), "text", testFields)
		require.Error(t, err)
	}
	// after three consecutive failures the breaker stops issuing requests
	assert.Equal(t, 3, calls)
}
