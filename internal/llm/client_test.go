package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwidyatama/go-genai-service/internal/config"
)

func newTestClient(t *testing.T, serverURL string, timeoutSeconds int) *Client {
	t.Helper()
	logger := zerolog.Nop()
	return NewClient(&config.Config{
		Model: config.ModelConfig{
			Provider:       "openai",
			BaseURL:        serverURL,
			APIKey:         "test-key",
			Name:           "gpt-4o-mini",
			MaxTokens:      256,
			RequestTimeout: timeoutSeconds,
		},
	}, &logger)
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-4o-mini-2024",
			"choices": [{"message": {"role": "assistant", "content": "hi there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 2}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 5)
	result, err := client.Complete(context.Background(), Request{
		Model:     "gpt-4o-mini",
		Prompt:    "hello",
		MaxTokens: 256,
	})

	require.NoError(t, err)
	assert.Equal(t, "hi there", result.Text)
	assert.Equal(t, "gpt-4o-mini-2024", result.Model)
	assert.Equal(t, 5, result.PromptTokens)
	assert.Equal(t, 2, result.CompletionTokens)
	assert.Greater(t, result.Latency, time.Duration(0))
}

func TestCompleteAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5).Complete(context.Background(), Request{Model: "m", Prompt: "p"})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, KindAuth, llmErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, llmErr.StatusCode)
	assert.Contains(t, llmErr.Message, "Incorrect API key")
}

func TestCompleteRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "rate_limit_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5).Complete(context.Background(), Request{Model: "m", Prompt: "p"})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, KindRateLimited, llmErr.Kind)
	assert.Equal(t, 7, llmErr.RetryAfterSeconds)
}

func TestCompleteBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "max_tokens too large", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5).Complete(context.Background(), Request{Model: "m", Prompt: "p"})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, KindBadRequest, llmErr.Kind)
}

func TestCompleteServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5).Complete(context.Background(), Request{Model: "m", Prompt: "p"})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, KindUnavailable, llmErr.Kind)
}

func TestCompleteTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, srv.URL, 5).Complete(ctx, Request{Model: "m", Prompt: "p"})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, KindTimeout, llmErr.Kind)
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5).Complete(context.Background(), Request{Model: "m", Prompt: "p"})

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, KindUnavailable, llmErr.Kind)
}

func TestErrorIs(t *testing.T) {
	err := &Error{Kind: KindAuth, Message: "nope"}

	assert.True(t, errors.Is(err, &Error{}))
	assert.NotEmpty(t, err.Error())
}
