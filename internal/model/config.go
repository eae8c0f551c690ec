package model

import "time"

// Config holds the full configuration surface. Values come from
// ~/.redflag/config.yaml, REDFLAG_* environment variables, and CLI
// flags, in increasing priority.
type Config struct {
	Providers  []ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Limits     LimitsConfig     `yaml:"limits" mapstructure:"limits"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Operations OperationsConfig `yaml:"operations" mapstructure:"operations"`
}

// ProviderConfig configures one upstream backend. Order in the
// Providers slice is priority order: first is primary.
type ProviderConfig struct {
	// Name: "openrouter", "openai", "anthropic"
	Name string `yaml:"name" mapstructure:"name"`

	// Model is the provider-specific model identifier
	Model string `yaml:"model" mapstructure:"model"`

	// APIKey; empty means read the provider's conventional env var
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the default endpoint
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Timeout per call, seconds
	Timeout int `yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries bounds the transport-error retry loop
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
}

// LimitsConfig bounds cost and concurrency
type LimitsConfig struct {
	// MinInterval is the per-user minimum spacing between analyses
	MinInterval time.Duration `yaml:"min_interval" mapstructure:"min_interval"`

	// MaxConcurrentCalls caps in-flight provider calls across all requests
	MaxConcurrentCalls int `yaml:"max_concurrent_calls" mapstructure:"max_concurrent_calls"`
}

// CacheConfig selects and tunes the result store
type CacheConfig struct {
	// Backend: "memory" or "redis"
	Backend string `yaml:"backend" mapstructure:"backend"`

	RedisAddr     string `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisDB       int    `yaml:"redis_db,omitempty" mapstructure:"redis_db"`
	RedisPassword string `yaml:"redis_password,omitempty" mapstructure:"redis_password"`

	// StoreDegraded also caches deterministic results. Off by default so
	// a cheap fallback result does not mask a later successful AI pass.
	StoreDegraded bool `yaml:"store_degraded" mapstructure:"store_degraded"`
}

// OperationConfig tunes a single entry point
type OperationConfig struct {
	// MaxTokens caps provider output size
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// CacheTTL for results of this operation
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// QualityThreshold is the rubric pass mark (0-100)
	QualityThreshold int `yaml:"quality_threshold" mapstructure:"quality_threshold"`

	// MinNarrative is the minimum accepted narrative length, runes
	MinNarrative int `yaml:"min_narrative" mapstructure:"min_narrative"`
}

// OperationsConfig holds per-operation tuning
type OperationsConfig struct {
	TextScan       OperationConfig `yaml:"text_scan" mapstructure:"text_scan"`
	PartnerProfile OperationConfig `yaml:"partner_profile" mapstructure:"partner_profile"`
	Compatibility  OperationConfig `yaml:"compatibility" mapstructure:"compatibility"`
}

// ForOperation returns the tuning block for op
func (c *Config) ForOperation(op Operation) OperationConfig {
	switch op {
	case OpPartnerProfile:
		return c.Operations.PartnerProfile
	case OpCompatibility:
		return c.Operations.Compatibility
	default:
		return c.Operations.TextScan
	}
}

// DefaultConfig returns sensible defaults. The scoring thresholds here
// are empirically chosen starting points, expected to be tuned.
func DefaultConfig() *Config {
	return &Config{
		Providers: []ProviderConfig{
			{Name: "openrouter", Model: "anthropic/claude-sonnet-4", Timeout: 60, MaxRetries: 3},
			{Name: "openai", Model: "gpt-4o-mini", Timeout: 30, MaxRetries: 3},
			{Name: "anthropic", Model: "claude-3-5-sonnet-20241022", Timeout: 30, MaxRetries: 3},
		},
		Limits: LimitsConfig{
			MinInterval:        30 * time.Second,
			MaxConcurrentCalls: 4,
		},
		Cache: CacheConfig{
			Backend:       "memory",
			StoreDegraded: false,
		},
		Operations: OperationsConfig{
			TextScan: OperationConfig{
				MaxTokens:        3000,
				CacheTTL:         time.Hour,
				QualityThreshold: 70,
				MinNarrative:     120,
			},
			PartnerProfile: OperationConfig{
				MaxTokens:        8000,
				CacheTTL:         30 * time.Minute,
				QualityThreshold: 65,
				MinNarrative:     400,
			},
			Compatibility: OperationConfig{
				MaxTokens:        3000,
				CacheTTL:         30 * time.Minute,
				QualityThreshold: 60,
				MinNarrative:     120,
			},
		},
	}
}
