// Package types defines the request and response bodies of the HTTP
// surface, plus the shared JSON error envelope.
package types

// CreateConfigRequest is the body of POST /config. Optional fields are
// pointers: absent means "use the default", an explicit value is
// validated as given.
type CreateConfigRequest struct {
	Model        string   `json:"model"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
	SystemPrompt *string  `json:"system_prompt,omitempty"`
}

// ChatRequest is the body of POST /chat. Optional fields override the
// effective configuration per field; an absent field falls back, an
// explicit value is validated.
type ChatRequest struct {
	Message      string   `json:"message"`
	Model        *string  `json:"model,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
	SystemPrompt *string  `json:"system_prompt,omitempty"`
}

// ConfigUsed reports the configuration a completion actually ran with.
// SystemPrompt is echoed even when empty so callers can confirm no system
// prompt was applied.
type ConfigUsed struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system_prompt"`

	// Version is the active configuration version, or 0 when the
	// defaults were in effect.
	Version int `json:"version"`

	// IsActive is false when the defaults were in effect.
	IsActive bool `json:"is_active"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Response   string     `json:"response"`
	ConfigUsed ConfigUsed `json:"config_used"`
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	InputText string `json:"input_text"`
}

// EvaluateResponse is the body returned by POST /evaluate.
type EvaluateResponse struct {
	Feedback   string     `json:"feedback"`
	ConfigUsed ConfigUsed `json:"config_used"`
}

// ModelInfo describes one selectable upstream model.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// ModelsResponse is the body returned by GET /models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}
