package llm

import (
	"context"
	"os"
	"time"

	"github.com/akozyrev/redflag/internal/model"
)

// Provider defines the capability interface for an upstream
// text-generation backend. Implementations are stateless aside from
// configuration; one concrete type exists per backend.
type Provider interface {
	// Name returns the provider name ("openrouter", "openai", "anthropic")
	Name() string

	// Complete runs a single completion call with a bounded timeout.
	// Failures are *TransportError or *UpstreamError.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest is the provider-agnostic input for one call
type CompletionRequest struct {
	// System is the system prompt; may be empty
	System string

	// Prompt is the user message
	Prompt string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature; zero means the provider default
	Temperature float32
}

// CompletionResponse carries the raw model output
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds one provider's runtime configuration
type Config struct {
	Name       string
	Model      string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// ConfigFrom converts a model.ProviderConfig, resolving the API key
// from the provider's conventional environment variable when unset
func ConfigFrom(pc model.ProviderConfig) Config {
	cfg := Config{
		Name:       pc.Name,
		Model:      pc.Model,
		APIKey:     pc.APIKey,
		BaseURL:    pc.BaseURL,
		Timeout:    time.Duration(pc.Timeout) * time.Second,
		MaxRetries: pc.MaxRetries,
	}
	if cfg.APIKey == "" {
		switch pc.Name {
		case "openrouter":
			cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return cfg
}
