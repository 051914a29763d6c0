package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"metaweb/console/pkg/modelconfig"
)

// TestMemoryStore_Lifecycle walks create, publish, switch, and list through
// the in-memory backend, which must match SQLite semantics.
func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()

	active, err := store.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive() failed: %v", err)
	}
	if active != nil {
		t.Fatalf("Expected no active version in a fresh store, got %+v", active)
	}

	first, err := store.Create(ctx, modelconfig.CreateInput{Model: "first"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if first.Version != 1 || first.IsActive {
		t.Errorf("Expected inactive version 1, got version=%d active=%v", first.Version, first.IsActive)
	}

	second, err := store.Create(ctx, modelconfig.CreateInput{Model: "second"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if second.Version != 2 {
		t.Errorf("Expected version 2, got %d", second.Version)
	}

	if _, err := store.Publish(ctx, first.ID); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if _, err := store.Publish(ctx, second.ID); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	ids, err := store.ActiveIDs(ctx)
	if err != nil {
		t.Fatalf("ActiveIDs() failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != second.ID {
		t.Errorf("Expected single active id %d, got %v", second.ID, ids)
	}

	configs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(configs) != 2 || configs[0].ID != second.ID {
		t.Errorf("Expected newest-first list of 2, got %+v", configs)
	}
}

// TestMemoryStore_PublishNotFound tests that a missing target changes no
// activation state.
func TestMemoryStore_PublishNotFound(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()

	cv, err := store.Create(ctx, modelconfig.CreateInput{Model: "m"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := store.Publish(ctx, cv.ID); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	_, err = store.Publish(ctx, 42)
	var nf *modelconfig.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}

	active, err := store.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive() failed: %v", err)
	}
	if active == nil || active.ID != cv.ID {
		t.Errorf("Failed publish must not disturb the active version, got %+v", active)
	}
}

// TestMemoryStore_ReturnsCopies tests that callers cannot mutate stored
// state through returned pointers.
func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()

	cv, err := store.Create(ctx, modelconfig.CreateInput{Model: "m"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	cv.Model = "mutated"

	configs, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if configs[0].Model != "m" {
		t.Errorf("Store state mutated through returned pointer: %q", configs[0].Model)
	}
}

// TestMemoryStore_ConcurrentAccess exercises the store under parallel
// creates and publishes; the race detector covers the locking.
func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cv, err := store.Create(ctx, modelconfig.CreateInput{Model: "m"})
			if err != nil {
				t.Errorf("Create() failed: %v", err)
				return
			}
			if _, err := store.Publish(ctx, cv.ID); err != nil {
				t.Errorf("Publish() failed: %v", err)
			}
			if _, err := store.GetActive(ctx); err != nil {
				t.Errorf("GetActive() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	ids, err := store.ActiveIDs(ctx)
	if err != nil {
		t.Fatalf("ActiveIDs() failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Expected exactly one active version, got %v", ids)
	}

	configs, err := store.List(ctx, modelconfig.MaxListLimit)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(configs) != n {
		t.Fatalf("Expected %d rows, got %d", n, len(configs))
	}
	seenVersion := make(map[int]bool, n)
	for _, cv := range configs {
		if seenVersion[cv.Version] {
			t.Errorf("Duplicate version %d", cv.Version)
		}
		seenVersion[cv.Version] = true
	}
}
