package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rwidyatama/go-genai-service/internal/config"
)

// Request is a single generation request. Zero-value Temperature is
// meaningful (deterministic sampling), so callers always set every field.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Result is a successful generation with its token accounting.
type Result struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
}

// Client calls the provider's chat completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	provider   string
	logger     *zerolog.Logger
}

// NewClient builds a provider client from model config. The HTTP client
// timeout bounds every request; slow providers surface as KindTimeout.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Model.RequestTimeout) * time.Second,
		},
		baseURL:  strings.TrimSuffix(cfg.Model.BaseURL, "/"),
		apiKey:   cfg.Model.APIKey,
		provider: cfg.Model.Provider,
		logger:   logger,
	}
}

// Wire types for the OpenAI-compatible chat completions endpoint.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one generation request and returns the model output.
func (c *Client) Complete(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling provider request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building provider request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		if isTimeout(err) {
			return nil, &Error{Kind: KindTimeout, Message: "provider request timed out"}
		}
		return nil, &Error{Kind: KindUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, StatusCode: resp.StatusCode, Message: "reading provider response: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyFailure(resp, payload)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &Error{Kind: KindUnavailable, StatusCode: resp.StatusCode, Message: "malformed provider response"}
	}
	if len(parsed.Choices) == 0 {
		return nil, &Error{Kind: KindUnavailable, StatusCode: resp.StatusCode, Message: "provider returned no choices"}
	}

	c.logger.Debug().
		Str("provider", c.provider).
		Str("model", parsed.Model).
		Int("prompt_tokens", parsed.Usage.PromptTokens).
		Int("completion_tokens", parsed.Usage.CompletionTokens).
		Dur("latency", latency).
		Msg("provider call completed")

	model := parsed.Model
	if model == "" {
		model = req.Model
	}

	return &Result{
		Text:             parsed.Choices[0].Message.Content,
		Model:            model,
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
		Latency:          latency,
	}, nil
}

// classifyFailure maps a non-200 provider response onto a typed error.
func (c *Client) classifyFailure(resp *http.Response, payload []byte) error {
	message := extractErrorMessage(payload)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &Error{Kind: KindAuth, StatusCode: resp.StatusCode, Message: message}

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 1
		if v := resp.Header.Get("Retry-After"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				retryAfter = parsed
			}
		}
		return &Error{
			Kind:              KindRateLimited,
			StatusCode:        resp.StatusCode,
			Message:           message,
			RetryAfterSeconds: retryAfter,
		}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &Error{Kind: KindBadRequest, StatusCode: resp.StatusCode, Message: message}

	default:
		return &Error{Kind: KindUnavailable, StatusCode: resp.StatusCode, Message: message}
	}
}

func extractErrorMessage(payload []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return "provider request failed"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
