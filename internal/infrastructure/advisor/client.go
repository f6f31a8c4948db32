package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/finbook/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrMissingAPIKey = errors.New("advisor API key is not configured")
	ErrEmptyResponse = errors.New("advisor returned no choices")
)

// APIError is returned when the chat completion provider answers with a
// non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("advisor API error (status %d): %s", e.StatusCode, e.Message)
}

// Message is a single chat message in OpenAI wire format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewClient creates a chat completions client from configuration
func NewClient(cfg config.AdvisorConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// IsConfigured reports whether an API key is present. Callers should
// check this before attempting a completion so that a missing key never
// causes a network round trip.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateChatCompletion sends the messages to the provider and returns the
// assistant's reply.
func (c *Client) CreateChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if !c.IsConfigured() {
		return "", ErrMissingAPIKey
	}

	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body),
		}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return completion.Choices[0].Message.Content, nil
}

// upstreamMessage extracts a readable error message from a provider
// error body, falling back to the raw body.
func upstreamMessage(body []byte) string {
	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
