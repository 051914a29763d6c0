package modelconfig

import (
	"context"
	"time"
)

// Field constraint bounds for configuration versions.
const (
	// MinTemperature and MaxTemperature bound the sampling temperature
	// (inclusive on both ends).
	MinTemperature = 0.0
	MaxTemperature = 1.0

	// MaxTokensLimit is the upper bound for max_tokens. The lower bound
	// is exclusive zero: a completion must be allowed at least one token.
	MaxTokensLimit = 32768
)

// Defaults applied when a field is absent from a create request, and used
// by the Service as the effective configuration when no version is active.
const (
	DefaultModel        = "openai/gpt-4o-mini"
	DefaultTemperature  = 0.7
	DefaultMaxTokens    = 1000
	DefaultSystemPrompt = ""
)

// ListLimit bounds for Store.List.
const (
	MinListLimit     = 1
	MaxListLimit     = 200
	DefaultListLimit = 20
)

// ConfigVersion is a single versioned configuration record.
//
// Every field except IsActive is immutable after creation. ID is storage
// identity (assigned by the store, monotonically increasing, never reused);
// Version is the human-facing sequence (previous maximum plus one).
type ConfigVersion struct {
	ID           int64     `json:"id"`
	Version      int       `json:"version"`
	Model        string    `json:"model"`
	Temperature  float64   `json:"temperature"`
	MaxTokens    int       `json:"max_tokens"`
	SystemPrompt string    `json:"system_prompt"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateInput carries the caller-supplied fields for a new configuration
// version. Optional fields use pointers so that "absent" (use the default)
// is distinguishable from an explicit zero value, which is validated as
// given.
type CreateInput struct {
	Model        string
	Temperature  *float64
	MaxTokens    *int
	SystemPrompt *string
}

// Params is a fully resolved, validated set of creation parameters.
type Params struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// Resolve validates in against the field constraints and fills absent
// fields with the documented defaults. It returns a ValidationError naming
// the offending field; values are never silently clamped.
func (in CreateInput) Resolve() (Params, error) {
	p := Params{
		Model:        in.Model,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
		SystemPrompt: DefaultSystemPrompt,
	}

	if err := ValidateModel(in.Model); err != nil {
		return Params{}, err
	}

	if in.Temperature != nil {
		if err := ValidateTemperature(*in.Temperature); err != nil {
			return Params{}, err
		}
		p.Temperature = *in.Temperature
	}

	if in.MaxTokens != nil {
		if err := ValidateMaxTokens(*in.MaxTokens); err != nil {
			return Params{}, err
		}
		p.MaxTokens = *in.MaxTokens
	}

	if in.SystemPrompt != nil {
		p.SystemPrompt = *in.SystemPrompt
	}

	return p, nil
}

// ValidateModel checks that a model identifier is non-empty.
func ValidateModel(model string) error {
	if model == "" {
		return &ValidationError{Field: "model", Message: "model is required"}
	}
	return nil
}

// ValidateTemperature checks the inclusive [0.0, 1.0] range.
func ValidateTemperature(t float64) error {
	if t < MinTemperature || t > MaxTemperature {
		return &ValidationError{
			Field:   "temperature",
			Message: "temperature must be between 0.0 and 1.0 inclusive",
		}
	}
	return nil
}

// ValidateMaxTokens checks the (0, 32768] range.
func ValidateMaxTokens(n int) error {
	if n <= 0 || n > MaxTokensLimit {
		return &ValidationError{
			Field:   "max_tokens",
			Message: "max_tokens must be greater than 0 and at most 32768",
		}
	}
	return nil
}

// Store is the persistence contract for configuration versions.
//
// Implementations must guarantee:
//   - Create assigns version = max(existing versions, 0) + 1 transactionally,
//     so concurrent creates never produce duplicate ids or version numbers.
//   - Publish flips is_active off everywhere and on for the target row as
//     one atomic unit; readers observe either the pre- or post-publish
//     state, never an intermediate one. A missing target changes nothing
//     and yields a NotFoundError.
//   - GetActive resolves the (bug-only) multiple-active case
//     deterministically by highest id and reports it as a consistency
//     anomaly rather than surfacing ambiguity.
type Store interface {
	// Create inserts a new, inactive configuration version.
	Create(ctx context.Context, in CreateInput) (*ConfigVersion, error)

	// GetActive returns the active version, or (nil, nil) when none is
	// active.
	GetActive(ctx context.Context) (*ConfigVersion, error)

	// Publish atomically activates the version with the given id and
	// deactivates all others, returning the newly active version.
	Publish(ctx context.Context, id int64) (*ConfigVersion, error)

	// List returns versions ordered by id descending (newest first).
	// The limit is clamped to [MinListLimit, MaxListLimit].
	List(ctx context.Context, limit int) ([]*ConfigVersion, error)

	// ActiveIDs returns the ids of all rows flagged active, newest first.
	// Used by consistency auditing; a healthy store returns zero or one id.
	ActiveIDs(ctx context.Context) ([]int64, error)

	// Close releases resources held by the store.
	Close() error
}
