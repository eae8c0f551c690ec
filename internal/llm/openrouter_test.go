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

func TestOpenRouterAttributionHeaders(t *testing.T) {
	var gotReferer, gotTitle, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")

		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "ok"}},
			},
		})
	}))
	defer server.Close()

	provider, err := NewOpenRouterProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if gotReferer == "" || gotTitle == "" {
		t.Errorf("attribution headers missing: referer=%q title=%q", gotReferer, gotTitle)
	}
	if gotModel != "anthropic/claude-sonnet-4" {
		t.Errorf("model = %q, want the default anthropic/claude-sonnet-4", gotModel)
	}
}

func TestOpenRouterName(t *testing.T) {
	provider, _ := NewOpenRouterProvider(Config{APIKey: "k", Timeout: time.Second})
	if provider.Name() != "openrouter" {
		t.Errorf("name = %s", provider.Name())
	}
}
