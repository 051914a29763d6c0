package audit

import (
	"context"
	"path/filepath"
	"testing"
)

// stubLister returns a fixed set of active ids.
type stubLister struct {
	ids []int64
}

func (s *stubLister) ActiveIDs(ctx context.Context) ([]int64, error) {
	return s.ids, nil
}

func newTestAuditor(t *testing.T, store ActiveLister) *Auditor {
	t.Helper()

	a, err := NewAuditor(store, nil, Config{
		LogPath: filepath.Join(t.TempDir(), "audit.db"),
	})
	if err != nil {
		t.Fatalf("Failed to create auditor: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// TestAuditor_HealthyStore tests that zero or one active version records
// nothing.
func TestAuditor_HealthyStore(t *testing.T) {
	ctx := context.Background()

	for _, ids := range [][]int64{nil, {3}} {
		a := newTestAuditor(t, &stubLister{ids: ids})
		if err := a.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce() failed: %v", err)
		}

		anomalies, err := a.Anomalies(ctx, 10)
		if err != nil {
			t.Fatalf("Anomalies() failed: %v", err)
		}
		if len(anomalies) != 0 {
			t.Errorf("Healthy store with ids %v recorded %d anomalies", ids, len(anomalies))
		}
	}
}

// TestAuditor_RecordsAnomaly tests that multiple active versions are
// recorded with the highest-id resolution.
func TestAuditor_RecordsAnomaly(t *testing.T) {
	ctx := context.Background()

	a := newTestAuditor(t, &stubLister{ids: []int64{9, 4, 2}})
	if err := a.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}

	anomalies, err := a.Anomalies(ctx, 10)
	if err != nil {
		t.Fatalf("Anomalies() failed: %v", err)
	}
	if len(anomalies) != 1 {
		t.Fatalf("Expected 1 anomaly, got %d", len(anomalies))
	}

	an := anomalies[0]
	if an.ActiveCount != 3 {
		t.Errorf("Expected active_count 3, got %d", an.ActiveCount)
	}
	if an.ResolvedID != 9 {
		t.Errorf("Expected resolution to highest id 9, got %d", an.ResolvedID)
	}
	if len(an.ActiveIDs) != 3 || an.ActiveIDs[0] != 9 {
		t.Errorf("Expected active ids [9 4 2], got %v", an.ActiveIDs)
	}
	if an.DetectedAt.IsZero() {
		t.Error("Expected detection timestamp to be set")
	}
}

// TestAuditor_StartInvalidSchedule tests schedule validation.
func TestAuditor_StartInvalidSchedule(t *testing.T) {
	a, err := NewAuditor(&stubLister{}, nil, Config{
		Schedule: "not a cron expression",
		LogPath:  filepath.Join(t.TempDir(), "audit.db"),
	})
	if err != nil {
		t.Fatalf("Failed to create auditor: %v", err)
	}
	defer a.Close()

	if err := a.Start(context.Background()); err == nil {
		t.Error("Expected error for invalid cron schedule")
	}
}
