package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jchntrl/power-point-assistant/internal/core/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)
	c.backoff = func(int) time.Duration { return time.Millisecond }
	return c
}

func TestNewClient_NoAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrAPIKeyNotSet)
}

func TestClient_GenerateCompletion(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`{"slides": []}`)))
	})

	resp, err := c.GenerateCompletion(context.Background(), llm.CompletionRequest{
		Prompt:         "generate slides",
		Temperature:    0.3,
		MaxTokens:      100,
		ResponseFormat: "json",
	})
	require.NoError(t, err)

	assert.Equal(t, `{"slides": []}`, resp.Content)
	assert.Equal(t, 15, resp.TokensUsed)
	assert.Equal(t, "gpt-4o-mini", resp.Model)

	assert.Equal(t, DefaultModel, body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
}

func TestClient_GenerateCompletion_RateLimitRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit"}}`))
			return
		}
		_, _ = w.Write([]byte(completionBody("ok")))
	})

	resp, err := c.GenerateCompletion(context.Background(), llm.CompletionRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_GenerateCompletion_MaxRetriesExceeded(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	})

	_, err := c.GenerateCompletion(context.Background(), llm.CompletionRequest{Prompt: "hi"})
	require.ErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.Equal(t, int32(MaxRetries+1), calls.Load())
}

func TestClient_GenerateCompletion_InvalidJSONRegenerated(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(completionBody("not json")))
			return
		}
		_, _ = w.Write([]byte(completionBody(`{"ok": true}`)))
	})

	resp, err := c.GenerateCompletion(context.Background(), llm.CompletionRequest{Prompt: "hi", ResponseFormat: "json"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_GenerateCompletion_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad request"}}`))
	})

	_, err := c.GenerateCompletion(context.Background(), llm.CompletionRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.Contains(t, err.Error(), "OpenAI API call failed")
}

func TestExponentialBackoff(t *testing.T) {
	assert.Equal(t, BaseBackoff, exponentialBackoff(1))
	assert.Equal(t, 4*BaseBackoff, exponentialBackoff(3))
	assert.Equal(t, MaxBackoff, exponentialBackoff(10))
}
