package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"SEOScanner/internal/config"
)

func newTestClient(endpoint string) *OpenAIClient {
	return NewOpenAIClient(config.LLMConfig{
		Endpoint:          endpoint,
		Model:             "gpt-4o-mini",
		APIKey:            "key",
		RequestsPerMinute: 6000,
	})
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("unexpected authorization header: %s", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		messages, _ := req["messages"].([]any)
		if len(messages) != 2 {
			t.Errorf("expected system+user messages, got %v", req["messages"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"recommendations": ["Fix titles"]}`}},
			},
		})
	}))
	defer server.Close()

	content, err := newTestClient(server.URL).Complete(context.Background(), "analyze")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != `{"recommendations": ["Fix titles"]}` {
		t.Fatalf("unexpected content: %s", content)
	}
}

func TestCompleteEmptyChoicesIsNotAnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	content, err := newTestClient(server.URL).Complete(context.Background(), "analyze")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != "" {
		t.Fatalf("expected empty content, got %q", content)
	}
}

func TestCompleteServerErrorDoesNotRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Complete(context.Background(), "analyze"); err == nil {
		t.Fatal("expected error from 400 response")
	}
	if calls != 1 {
		t.Fatalf("400 must not be retried, got %d calls", calls)
	}
}

func TestCompleteMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewOpenAIClient(config.LLMConfig{Endpoint: "http://localhost", Model: "m"})
	if _, err := client.Complete(context.Background(), "analyze"); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}

func TestSafePromptDefault(t *testing.T) {
	t.Parallel()

	if got := safePrompt("  "); got == "" {
		t.Fatal("expected a default system prompt")
	}
	if got := safePrompt("custom"); got != "custom" {
		t.Fatalf("custom prompt must pass through, got %q", got)
	}
}
