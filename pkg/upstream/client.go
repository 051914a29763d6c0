package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const maxErrorBodyBytes = 4096

// ClientConfig contains configuration for the OpenRouter client.
type ClientConfig struct {
	// BaseURL is the upstream API base, e.g. "https://openrouter.ai/api/v1".
	BaseURL string

	// APIKey is the bearer token for the upstream.
	APIKey string

	// Timeout bounds each completion request end to end.
	// Default: 60 seconds
	Timeout time.Duration

	// MaxIdleConns and MaxIdleConnsPerHost tune the pooled transport.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:             "https://openrouter.ai/api/v1",
		Timeout:             60 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
	}
}

// Client is the OpenRouter completion gateway. It speaks the OpenAI
// chat-completions wire format.
type Client struct {
	config *ClientConfig
	client *http.Client
	logger *slog.Logger

	mu     sync.RWMutex
	apiKey string
}

// NewClient creates a new OpenRouter client with a pooled transport.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 5
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		logger: slog.Default().With("component", "upstream.openrouter"),
		apiKey: config.APIKey,
	}
}

// SetAPIKey replaces the bearer token for subsequent requests. Used for
// key rotation on config reload.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	changed := key != c.apiKey
	c.apiKey = key
	c.mu.Unlock()

	if changed {
		c.logger.Info("upstream API key rotated")
	}
}

// chatMessage is one message in the OpenAI chat-completions format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest is the upstream request body.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatCompletionResponse is the upstream response body.
type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage TokenUsage `json:"usage"`
}

// Complete sends one completion request. Temperature and max_tokens are
// always sent explicitly so upstream defaults never shadow the effective
// configuration. No retries: a failure surfaces directly as an
// *UpstreamError.
func (c *Client) Complete(ctx context.Context, req *Request) (*Completion, error) {
	body := chatCompletionRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "user", Content: ComposePrompt(req.SystemPrompt, req.Message)},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.mu.RLock()
	key := c.apiKey
	c.mu.RUnlock()

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("upstream request failed",
			"model", req.Model,
			"error", err,
		)
		return nil, &UpstreamError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Warn("upstream returned error status",
			"model", req.Model,
			"status", resp.StatusCode,
		)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(errorBody),
		}
	}

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(responseBytes, &parsed); err != nil {
		return nil, &UpstreamError{Cause: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return nil, &UpstreamError{Cause: fmt.Errorf("upstream response contained no choices")}
	}

	c.logger.Debug("completion finished",
		"model", req.Model,
		"latency_ms", time.Since(start).Milliseconds(),
		"completion_tokens", parsed.Usage.CompletionTokens,
	)

	return &Completion{
		Content: parsed.Choices[0].Message.Content,
		Model:   parsed.Model,
		Usage:   parsed.Usage,
	}, nil
}

// Close releases idle upstream connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}
