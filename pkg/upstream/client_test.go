package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient points a Client at a test server.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return NewClient(&ClientConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
}

// TestClient_Complete tests the happy path: wire format out, completion in.
func TestClient_Complete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"model": "openai/gpt-4o-mini",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "hi there"}},
			},
			"usage": map[string]int{
				"prompt_tokens":     12,
				"completion_tokens": 3,
				"total_tokens":      15,
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	defer client.Close()

	completion, err := client.Complete(context.Background(), &Request{
		Message:      "hello",
		SystemPrompt: "You are terse.",
		Model:        "openai/gpt-4o-mini",
		Temperature:  0.3,
		MaxTokens:    256,
	})
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	if gotPath != "/chat/completions" {
		t.Errorf("Expected path /chat/completions, got %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotBody.Model != "openai/gpt-4o-mini" {
		t.Errorf("Expected model in request, got %q", gotBody.Model)
	}
	if gotBody.Temperature != 0.3 || gotBody.MaxTokens != 256 {
		t.Errorf("Expected explicit temperature and max_tokens, got %v/%d",
			gotBody.Temperature, gotBody.MaxTokens)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Fatalf("Expected a single user message, got %+v", gotBody.Messages)
	}
	want := "System: You are terse.\n\nUser: hello"
	if gotBody.Messages[0].Content != want {
		t.Errorf("Expected composed prompt %q, got %q", want, gotBody.Messages[0].Content)
	}

	if completion.Content != "hi there" {
		t.Errorf("Expected content 'hi there', got %q", completion.Content)
	}
	if completion.Usage.CompletionTokens != 3 {
		t.Errorf("Expected 3 completion tokens, got %d", completion.Usage.CompletionTokens)
	}
}

// TestClient_SetAPIKey tests that a rotated key is used on the next
// request.
func TestClient_SetAPIKey(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	defer client.Close()

	client.SetAPIKey("rotated-key")

	_, err := client.Complete(context.Background(), &Request{
		Message: "hello", Model: "m", MaxTokens: 10,
	})
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	if gotAuth != "Bearer rotated-key" {
		t.Errorf("Expected rotated key on the wire, got %q", gotAuth)
	}
}

// TestClient_CompleteZeroTemperature tests that an explicit temperature of
// zero is sent on the wire rather than omitted.
func TestClient_CompleteZeroTemperature(t *testing.T) {
	var rawBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&rawBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	defer client.Close()

	_, err := client.Complete(context.Background(), &Request{
		Message:   "hello",
		Model:     "m",
		MaxTokens: 10,
	})
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	if _, ok := rawBody["temperature"]; !ok {
		t.Error("Expected temperature field on the wire even when zero")
	}
}

// TestClient_CompleteUpstreamError tests that non-2xx responses become
// UpstreamError carrying status and body.
func TestClient_CompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	defer client.Close()

	_, err := client.Complete(context.Background(), &Request{
		Message: "hello", Model: "m", MaxTokens: 10,
	})

	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if uerr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", uerr.StatusCode)
	}
	if uerr.Body != `{"error":"rate limited"}` {
		t.Errorf("Expected upstream body preserved, got %q", uerr.Body)
	}
}

// TestClient_CompleteTransportError tests that connection failures become
// UpstreamError with status 0.
func TestClient_CompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := newTestClient(t, srv)
	defer client.Close()

	_, err := client.Complete(context.Background(), &Request{
		Message: "hello", Model: "m", MaxTokens: 10,
	})

	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if uerr.StatusCode != 0 {
		t.Errorf("Expected status 0 for transport failure, got %d", uerr.StatusCode)
	}
	if uerr.Cause == nil {
		t.Error("Expected transport cause to be preserved")
	}
}

// TestClient_CompleteNoChoices tests rejection of a well-formed response
// with an empty choices list.
func TestClient_CompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	defer client.Close()

	_, err := client.Complete(context.Background(), &Request{
		Message: "hello", Model: "m", MaxTokens: 10,
	})

	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
}
