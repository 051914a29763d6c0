package modelconfig

import (
	"context"
	"log/slog"
)

// EffectiveConfig is the configuration the chat path runs with. It is
// either the active version's parameters or the documented defaults when
// no version has ever been published.
type EffectiveConfig struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system_prompt"`

	// IsActive is false only when the defaults are in effect.
	IsActive bool `json:"is_active"`

	// Version is 0 when the defaults are in effect.
	Version int `json:"version"`
}

// PublishResult is the confirmation returned by PublishVersion.
type PublishResult struct {
	Status        string `json:"status"`
	ActiveID      int64  `json:"active_id"`
	ActiveVersion int    `json:"active_version"`
}

// Service applies configuration policy on top of a Store: default
// fallback for the chat path, list-limit clamping, and the publish
// confirmation shape.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{
		store:  store,
		logger: slog.Default().With("component", "modelconfig"),
	}
}

// ResolveEffective returns the configuration the chat path should use
// right now. When no version is active it returns the built-in defaults
// with IsActive=false; it never fails for the "nothing published yet"
// case.
func (s *Service) ResolveEffective(ctx context.Context) (*EffectiveConfig, error) {
	active, err := s.store.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return &EffectiveConfig{
			Model:        DefaultModel,
			Temperature:  DefaultTemperature,
			MaxTokens:    DefaultMaxTokens,
			SystemPrompt: DefaultSystemPrompt,
			IsActive:     false,
			Version:      0,
		}, nil
	}
	return &EffectiveConfig{
		Model:        active.Model,
		Temperature:  active.Temperature,
		MaxTokens:    active.MaxTokens,
		SystemPrompt: active.SystemPrompt,
		IsActive:     true,
		Version:      active.Version,
	}, nil
}

// CreateVersion validates and stores a new configuration version. The new
// version is never auto-activated.
func (s *Service) CreateVersion(ctx context.Context, in CreateInput) (*ConfigVersion, error) {
	cv, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("configuration version created",
		"id", cv.ID,
		"version", cv.Version,
		"model", cv.Model)
	return cv, nil
}

// PublishVersion atomically activates the version with the given id and
// returns a confirmation naming the now-active version.
func (s *Service) PublishVersion(ctx context.Context, id int64) (*PublishResult, error) {
	cv, err := s.store.Publish(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("configuration version published",
		"id", cv.ID,
		"version", cv.Version,
		"model", cv.Model)
	return &PublishResult{
		Status:        "ok",
		ActiveID:      cv.ID,
		ActiveVersion: cv.Version,
	}, nil
}

// ListVersions returns recent versions newest first. A non-positive limit
// selects the default; out-of-range limits are clamped, not rejected.
func (s *Service) ListVersions(ctx context.Context, limit int) ([]*ConfigVersion, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.store.List(ctx, limit)
}

// ActiveVersion returns the active version, or nil when none is active.
func (s *Service) ActiveVersion(ctx context.Context) (*ConfigVersion, error) {
	return s.store.GetActive(ctx)
}
