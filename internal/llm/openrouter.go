package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider implements the Provider interface for OpenRouter,
// which speaks the OpenAI chat-completions dialect and multiplexes many
// underlying models behind one endpoint.
type OpenRouterProvider struct {
	client *openai.Client
	config Config
}

// attributionTransport injects the app-attribution headers OpenRouter
// uses for ranking and abuse tracking
type attributionTransport struct {
	base http.RoundTripper
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("HTTP-Referer", "https://github.com/akozyrev/redflag")
	clone.Header.Set("X-Title", "redflag")
	return t.base.RoundTrip(clone)
}

// NewOpenRouterProvider creates a new OpenRouter provider
func NewOpenRouterProvider(config Config) (*OpenRouterProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = openRouterBaseURL
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   config.Timeout,
		Transport: &attributionTransport{base: http.DefaultTransport},
	}

	return &OpenRouterProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

// Complete runs one chat completion through OpenRouter
func (p *OpenRouterProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := p.config.Model
	if model == "" {
		model = "anthropic/claude-sonnet-4"
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatRequest(model, req))
	if err != nil {
		return nil, classifyOpenAIError(p.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return nil, &UpstreamError{Provider: p.Name(), StatusCode: http.StatusOK, Message: "no choices in response"}
	}

	return &CompletionResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
