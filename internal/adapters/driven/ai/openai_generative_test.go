package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/custodia-labs/veridoc-core/internal/core/domain"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIGenerative_Analyze(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"complianceScore": 85}`}, "finish_reason": "stop"},
			},
		})
	})

	svc, err := NewOpenAIGenerative("test-key", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.Analyze(context.Background(), "score this document")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"complianceScore": 85}` {
		t.Errorf("unexpected output %q", out)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model %q", gotReq.Model)
	}
	if gotReq.Temperature != 0 {
		t.Errorf("expected temperature 0, got %v", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "score this document" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestOpenAIGenerative_APIError(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit", "code": "429"}}`))
	})

	svc, err := NewOpenAIGenerative("test-key", "", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Analyze(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, domain.ErrGenerativeUnavailable) {
		t.Errorf("expected ErrGenerativeUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("expected API error message, got %v", err)
	}
}

func TestOpenAIGenerative_TransportErrorIsGenerativeUnavailable(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {})

	svc, err := NewOpenAIGenerative("test-key", "", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	server.Close()

	_, err = svc.Analyze(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrGenerativeUnavailable) {
		t.Errorf("expected ErrGenerativeUnavailable, got %v", err)
	}
}

func TestOpenAIGenerative_EmptyChoices(t *testing.T) {
	server := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	svc, err := NewOpenAIGenerative("test-key", "", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Analyze(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected an error for empty choices")
	}
	if !errors.Is(err, domain.ErrGenerativeUnavailable) {
		t.Errorf("expected ErrGenerativeUnavailable, got %v", err)
	}
}

func TestOpenAIGenerative_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIGenerative("", "model", ""); err == nil {
		t.Fatal("expected an error for missing API key")
	}
}
