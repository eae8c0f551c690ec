package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func chatSuccessHandler(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Authorization = %s, want Bearer test-key", r.Header.Get("Authorization"))
		}
		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index:        0,
					Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 42},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func chatErrorHandler(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": message, "type": "invalid_request_error"},
		})
	}
}

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(chatSuccessHandler(t, `{"overall_risk_score": 40}`))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System:    "analyst system prompt",
		Prompt:    "analyze this",
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Text != `{"overall_risk_score": 40}` {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("tokens = %d, want 42", resp.TokensUsed)
	}
}

func TestOpenAICompleteServerErrorIsTransport(t *testing.T) {
	server := httptest.NewServer(chatErrorHandler(http.StatusInternalServerError, "boom"))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if !IsTransport(err) {
		t.Errorf("err = %v, want transport", err)
	}
}

func TestOpenAICompleteRateLimitIsTransport(t *testing.T) {
	server := httptest.NewServer(chatErrorHandler(http.StatusTooManyRequests, "slow down"))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if !IsTransport(err) {
		t.Errorf("err = %v, want transport (retryable)", err)
	}
}

func TestOpenAICompleteBadRequestIsUpstream(t *testing.T) {
	server := httptest.NewServer(chatErrorHandler(http.StatusBadRequest, "model not found"))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if !IsUpstream(err) {
		t.Errorf("err = %v, want upstream (not retryable)", err)
	}
}

func TestOpenAIRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("missing API key accepted")
	}
}
