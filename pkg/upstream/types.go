package upstream

import "context"

// Request carries one completion request built from the user message and
// the effective configuration.
type Request struct {
	// Message is the raw user message.
	Message string

	// SystemPrompt is prepended to the message per ComposePrompt. Empty
	// means no system prompt.
	SystemPrompt string

	// Model is the upstream model identifier, e.g. "openai/gpt-4o-mini".
	Model string

	// Temperature and MaxTokens are always sent explicitly; the effective
	// configuration has already resolved defaults.
	Temperature float64
	MaxTokens   int
}

// TokenUsage reports upstream token accounting when the provider
// returns it.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the assistant output for one request.
type Completion struct {
	// Content is the assistant message text.
	Content string

	// Model is the model the upstream reports having used.
	Model string

	// Usage is zero-valued when the upstream omits usage accounting.
	Usage TokenUsage
}

// Gateway is the completion transport contract.
type Gateway interface {
	// Complete sends one completion request and returns the assistant
	// output. Transport failures and non-2xx upstream responses yield an
	// *UpstreamError.
	Complete(ctx context.Context, req *Request) (*Completion, error)
}
