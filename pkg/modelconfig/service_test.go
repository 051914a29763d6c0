package modelconfig_test

import (
	"context"
	"testing"

	"metaweb/console/pkg/modelconfig"
	"metaweb/console/pkg/modelconfig/storage"
)

// TestService_ResolveEffectiveDefaults tests that an empty store resolves
// to the built-in defaults rather than an error.
func TestService_ResolveEffectiveDefaults(t *testing.T) {
	svc := modelconfig.NewService(storage.NewMemoryStore())
	ctx := context.Background()

	eff, err := svc.ResolveEffective(ctx)
	if err != nil {
		t.Fatalf("ResolveEffective() failed: %v", err)
	}

	if eff.Model != modelconfig.DefaultModel {
		t.Errorf("Expected default model %q, got %q", modelconfig.DefaultModel, eff.Model)
	}
	if eff.Temperature != modelconfig.DefaultTemperature {
		t.Errorf("Expected default temperature %v, got %v", modelconfig.DefaultTemperature, eff.Temperature)
	}
	if eff.MaxTokens != modelconfig.DefaultMaxTokens {
		t.Errorf("Expected default max_tokens %d, got %d", modelconfig.DefaultMaxTokens, eff.MaxTokens)
	}
	if eff.SystemPrompt != "" {
		t.Errorf("Expected empty default system prompt, got %q", eff.SystemPrompt)
	}
	if eff.IsActive {
		t.Error("Defaults must report is_active=false")
	}
	if eff.Version != 0 {
		t.Errorf("Defaults must report version 0, got %d", eff.Version)
	}
}

// TestService_PublishFlow tests create, publish, and the effective config
// switching to the published version.
func TestService_PublishFlow(t *testing.T) {
	svc := modelconfig.NewService(storage.NewMemoryStore())
	ctx := context.Background()

	temp := 0.2
	cv, err := svc.CreateVersion(ctx, modelconfig.CreateInput{
		Model:       "anthropic/claude-sonnet-4",
		Temperature: &temp,
	})
	if err != nil {
		t.Fatalf("CreateVersion() failed: %v", err)
	}

	// Creation alone must not change the effective config.
	eff, err := svc.ResolveEffective(ctx)
	if err != nil {
		t.Fatalf("ResolveEffective() failed: %v", err)
	}
	if eff.IsActive {
		t.Error("Effective config must stay on defaults until a publish")
	}

	res, err := svc.PublishVersion(ctx, cv.ID)
	if err != nil {
		t.Fatalf("PublishVersion() failed: %v", err)
	}
	if res.Status != "ok" {
		t.Errorf("Expected status ok, got %q", res.Status)
	}
	if res.ActiveID != cv.ID || res.ActiveVersion != cv.Version {
		t.Errorf("Expected active id=%d version=%d, got id=%d version=%d",
			cv.ID, cv.Version, res.ActiveID, res.ActiveVersion)
	}

	eff, err = svc.ResolveEffective(ctx)
	if err != nil {
		t.Fatalf("ResolveEffective() failed: %v", err)
	}
	if !eff.IsActive || eff.Model != "anthropic/claude-sonnet-4" || eff.Temperature != 0.2 {
		t.Errorf("Effective config did not switch to the published version: %+v", eff)
	}
	if eff.Version != cv.Version {
		t.Errorf("Expected effective version %d, got %d", cv.Version, eff.Version)
	}
}

// TestService_ListVersionsDefaultLimit tests the default and clamped list
// limits.
func TestService_ListVersionsDefaultLimit(t *testing.T) {
	svc := modelconfig.NewService(storage.NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < modelconfig.DefaultListLimit+5; i++ {
		if _, err := svc.CreateVersion(ctx, modelconfig.CreateInput{Model: "m"}); err != nil {
			t.Fatalf("CreateVersion() failed: %v", err)
		}
	}

	configs, err := svc.ListVersions(ctx, 0)
	if err != nil {
		t.Fatalf("ListVersions() failed: %v", err)
	}
	if len(configs) != modelconfig.DefaultListLimit {
		t.Errorf("Expected default limit %d, got %d rows", modelconfig.DefaultListLimit, len(configs))
	}

	configs, err = svc.ListVersions(ctx, -3)
	if err != nil {
		t.Fatalf("ListVersions() failed: %v", err)
	}
	if len(configs) != modelconfig.DefaultListLimit {
		t.Errorf("Negative limit must use the default, got %d rows", len(configs))
	}
}
