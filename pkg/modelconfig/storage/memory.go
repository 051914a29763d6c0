package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"metaweb/console/pkg/modelconfig"
)

// MemoryStore implements modelconfig.Store with an in-memory slice.
// It is intended for tests and local development; history is lost on
// restart. Semantics match SQLiteStore, including the highest-id
// resolution of the multiple-active anomaly.
type MemoryStore struct {
	mu      sync.RWMutex
	configs []*modelconfig.ConfigVersion
	nextID  int64
	logger  *slog.Logger
}

// NewMemoryStore creates a new in-memory config store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		logger: slog.Default().With("component", "modelconfig.storage.memory"),
	}
}

// Create inserts a new inactive configuration version.
func (s *MemoryStore) Create(ctx context.Context, in modelconfig.CreateInput) (*modelconfig.ConfigVersion, error) {
	params, err := in.Resolve()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maxVersion := 0
	for _, cv := range s.configs {
		if cv.Version > maxVersion {
			maxVersion = cv.Version
		}
	}

	cv := &modelconfig.ConfigVersion{
		ID:           s.nextID,
		Version:      maxVersion + 1,
		Model:        params.Model,
		Temperature:  params.Temperature,
		MaxTokens:    params.MaxTokens,
		SystemPrompt: params.SystemPrompt,
		IsActive:     false,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++
	s.configs = append(s.configs, cv)

	out := *cv
	return &out, nil
}

// GetActive returns the active version, or (nil, nil) when none is active.
func (s *MemoryStore) GetActive(ctx context.Context) (*modelconfig.ConfigVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active *modelconfig.ConfigVersion
	count := 0
	for _, cv := range s.configs {
		if cv.IsActive {
			count++
			if active == nil || cv.ID > active.ID {
				active = cv
			}
		}
	}
	if active == nil {
		return nil, nil
	}
	if count > 1 {
		s.logger.Error("multiple active configuration versions, resolving to highest id",
			"active_count", count,
			"resolved_id", active.ID)
	}

	out := *active
	return &out, nil
}

// Publish atomically activates the version with the given id. The whole
// operation runs under the write lock, so readers never observe an
// intermediate state.
func (s *MemoryStore) Publish(ctx context.Context, id int64) (*modelconfig.ConfigVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *modelconfig.ConfigVersion
	for _, cv := range s.configs {
		if cv.ID == id {
			target = cv
			break
		}
	}
	if target == nil {
		return nil, &modelconfig.NotFoundError{ID: id}
	}

	for _, cv := range s.configs {
		cv.IsActive = false
	}
	target.IsActive = true

	out := *target
	return &out, nil
}

// List returns versions ordered by id descending, up to the clamped limit.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*modelconfig.ConfigVersion, error) {
	if limit < modelconfig.MinListLimit {
		limit = modelconfig.MinListLimit
	}
	if limit > modelconfig.MaxListLimit {
		limit = modelconfig.MaxListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*modelconfig.ConfigVersion, 0, limit)
	for i := len(s.configs) - 1; i >= 0 && len(out) < limit; i-- {
		cv := *s.configs[i]
		out = append(out, &cv)
	}
	return out, nil
}

// ActiveIDs returns the ids of all versions flagged active, newest first.
func (s *MemoryStore) ActiveIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	for i := len(s.configs) - 1; i >= 0; i-- {
		if s.configs[i].IsActive {
			ids = append(ids, s.configs[i].ID)
		}
	}
	return ids, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
