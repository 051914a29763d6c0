package admin

import (
	"errors"
	"testing"
)

// TestAuthorizer_OpenMode tests that an empty configured token authorizes
// everything, including requests that present a token.
func TestAuthorizer_OpenMode(t *testing.T) {
	a := NewAuthorizer("")

	if a.Enforced() {
		t.Error("Empty token must not enforce")
	}
	if err := a.Authorize(""); err != nil {
		t.Errorf("Open mode rejected empty token: %v", err)
	}
	if err := a.Authorize("anything"); err != nil {
		t.Errorf("Open mode rejected non-empty token: %v", err)
	}
}

// TestAuthorizer_EnforcedMode tests exact, case-sensitive matching.
func TestAuthorizer_EnforcedMode(t *testing.T) {
	a := NewAuthorizer("s3cret")

	if !a.Enforced() {
		t.Error("Non-empty token must enforce")
	}

	tests := []struct {
		name      string
		presented string
		wantErr   bool
	}{
		{"exact match", "s3cret", false},
		{"empty", "", true},
		{"wrong case", "S3cret", true},
		{"prefix", "s3cre", true},
		{"suffix padding", "s3cret ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Authorize(tt.presented)
			if tt.wantErr && !errors.Is(err, ErrUnauthorized) {
				t.Errorf("Expected ErrUnauthorized, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected authorization, got %v", err)
			}
		})
	}
}

// TestAuthorizer_SetToken tests hot-swapping the secret.
func TestAuthorizer_SetToken(t *testing.T) {
	a := NewAuthorizer("old")

	a.SetToken("new")
	if err := a.Authorize("old"); !errors.Is(err, ErrUnauthorized) {
		t.Error("Old token must stop working after rotation")
	}
	if err := a.Authorize("new"); err != nil {
		t.Errorf("New token rejected: %v", err)
	}

	a.SetToken("")
	if a.Enforced() {
		t.Error("Clearing the token must switch to open mode")
	}
	if err := a.Authorize(""); err != nil {
		t.Errorf("Open mode rejected request: %v", err)
	}
}
