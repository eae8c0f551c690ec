package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/akozyrev/redflag/internal/model"
)

// NewProvider creates a provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Name) {
	case "openrouter":
		return NewOpenRouterProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openrouter, openai, anthropic)", config.Name)
	}
}

// NewChain builds the priority-ordered client chain from configuration.
// Misconfigured providers (missing key, unknown name) are skipped with a
// warning so one bad entry cannot take the whole chain down; the
// deterministic fallback covers an empty chain.
func NewChain(configs []model.ProviderConfig) []*Client {
	var chain []*Client
	for _, pc := range configs {
		cfg := ConfigFrom(pc)
		provider, err := NewProvider(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping provider %q: %v\n", pc.Name, err)
			continue
		}
		client := NewClient(provider, cfg.MaxRetries)
		client.Timeout = cfg.Timeout
		chain = append(chain, client)
	}
	return chain
}
