package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() Request {
	return Request{Model: "test-model", System: "sys", User: "hello", MaxTokens: 100, Temperature: 0.3}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	c := NewAnthropicClient("http://example.invalid", "", time.Second)
	_, err := c.Complete(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestCompleteHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.Equal(t, "2023-06-01", r.Header.Get("Anthropic-Version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "sys", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "part one "},
				{"type": "tool_use", "text": "ignored"},
				{"type": "text", "text": "part two"},
			},
			"usage": map[string]int{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer srv.Close()

	c := NewAnthropicClient(srv.URL, "secret", time.Second)
	comp, err := c.Complete(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "part one part two", comp.Text)
	assert.Equal(t, TokenCount{Input: 10, Output: 5}, comp.Usage)
	assert.Equal(t, 15, comp.Usage.Total())
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, 529)
	}))
	defer srv.Close()

	c := NewAnthropicClient(srv.URL, "secret", time.Second)
	_, err := c.Complete(context.Background(), testRequest())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 529, apiErr.Status)
	assert.Contains(t, apiErr.Body, "overloaded")
}

// After three consecutive failures the breaker opens and rejects calls
// without touching the transport.
func TestCompleteBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewAnthropicClient(srv.URL, "secret", time.Second)
	for i := 0; i < 3; i++ {
		_, err := c.Complete(context.Background(), testRequest())
		require.Error(t, err)
	}
	require.Equal(t, 3, hits)

	_, err := c.Complete(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, 3, hits, "open breaker must not reach the transport")
}

func TestMemoryUsage(t *testing.T) {
	mu := NewMemoryUsage()
	mu.Record("svc", TokenCount{Input: 100, Output: 50})
	mu.Record("svc", TokenCount{Input: 10, Output: 5})
	mu.Record("other", TokenCount{Input: 1, Output: 1})

	assert.Equal(t, 165, mu.Tokens("svc"))
	assert.Equal(t, 2, mu.Requests("svc"))
	assert.Equal(t, 2, mu.Tokens("other"))
	assert.Zero(t, mu.Tokens("nope"))
}
