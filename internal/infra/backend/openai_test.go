package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysum/internal/domain/entity"
	"polysum/internal/resilience/retry"
)

func TestOpenAIGenerator_Generate(t *testing.T) {
	var req struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"要約です。"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig(entity.LangJapanese)
	cfg.Kind = KindOpenAI
	cfg.APIKey = "sk-test"
	cfg.Model = "gpt-4o-mini"
	cfg.Endpoint = srv.URL + "/v1"
	gen := NewOpenAIGenerator(cfg)
	quiet(&gen.guard)

	out, err := gen.Generate(context.Background(), "本文", testParams())
	require.NoError(t, err)

	assert.Equal(t, "要約です。", out)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, 120, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "in Japanese")
	assert.Contains(t, req.Messages[0].Content, "between 96 and 120 tokens")
	assert.Contains(t, req.Messages[0].Content, "本文")
}

func TestOpenAIGenerator_BadRequestNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"context length exceeded","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	cfg := testConfig(KindOpenAI)
	cfg.APIKey = "sk-test"
	cfg.Model = "gpt-4o-mini"
	cfg.Endpoint = srv.URL + "/v1"
	gen := NewOpenAIGenerator(cfg)
	quiet(&gen.guard)

	_, err := gen.Generate(context.Background(), "x", testParams())

	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}
