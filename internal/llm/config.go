package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the anthropic provider with cheap default models.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// envBindings maps CODEQUIZ_* variables onto Config fields.
func envBindings(c *Config) map[string]*string {
	return map[string]*string{
		"CODEQUIZ_LLM_PROVIDER":       &c.Provider,
		"CODEQUIZ_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"CODEQUIZ_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"CODEQUIZ_ANTHROPIC_BASE_URL": &c.Anthropic.BaseURL,
		"CODEQUIZ_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"CODEQUIZ_OPENAI_MODEL":       &c.OpenAI.Model,
		"CODEQUIZ_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"CODEQUIZ_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"CODEQUIZ_GEMINI_MODEL":       &c.Gemini.Model,
		"CODEQUIZ_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"CODEQUIZ_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	}
}

// ConfigFromEnv overlays CODEQUIZ_* variables on DefaultConfig. When no
// provider is named and the default has no key, it falls back to the
// conventional vendor variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, field := range envBindings(&cfg) {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	if os.Getenv("CODEQUIZ_LLM_PROVIDER") == "" && cfg.Validate() != nil {
		if found, ok := discover(cfg); ok {
			return found
		}
	}
	return cfg
}

// DiscoverConfig picks the first provider whose conventional API key
// variable is set.
func DiscoverConfig() (Config, bool) {
	return discover(DefaultConfig())
}

func discover(cfg Config) (Config, bool) {
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			*p.key = k
			cfg.Provider = p.provider
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("an API key is required for the %s provider (set CODEQUIZ_%s_API_KEY)",
			c.Provider, envName(c.Provider))
	}
	return nil
}

func envName(provider string) string { return strings.ToUpper(provider) }
