package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm"
)

func TestChatSendsHistoryAndOptions(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"Syarat NIB adalah ..."}}]}`))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider("test-key", server.URL, "mistralai/mistral-small")
	answer, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "Anda adalah asisten DPMPTSP."},
		{Role: "user", Content: "Apa syarat NIB?"},
	}, llm.WithTemperature(0.3), llm.WithMaxTokens(700))
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if answer != "Syarat NIB adalah ..." {
		t.Errorf("unexpected answer %q", answer)
	}
	if captured.Model != "mistralai/mistral-small" {
		t.Errorf("model not forwarded, got %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("history not forwarded: %+v", captured.Messages)
	}
	if captured.MaxTokens != 700 || captured.Temperature != 0.3 {
		t.Errorf("options not forwarded: max_tokens=%d temperature=%f", captured.MaxTokens, captured.Temperature)
	}
}

func TestChatModelOverride(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider("k", server.URL, "default-model")
	_, err := provider.Generate(context.Background(), "halo", llm.WithModel("override-model"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if captured.Model != "override-model" {
		t.Errorf("expected model override, got %q", captured.Model)
	}
}

func TestChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider("k", server.URL, "m")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	provider := NewOpenRouterProvider("k", server.URL, "m")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error on empty choices")
	}
}
