package llm

import (
	"fmt"
	"os"
	"strconv"
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

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries. Zero disables it.
	Timeout time.Duration
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIConfig configures the OpenAI provider. BaseURL targets any
// OpenAI-compatible API.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenRouterConfig configures the OpenRouter provider.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retries of transient failures. MaxAttempts of 1
// or less means a single attempt.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults: Gemini Flash, one attempt, 30s.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv overlays MATHQUEST_* variables on DefaultConfig. The
// second result reports whether MATHQUEST_LLM_PROVIDER was set.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()

	provider := os.Getenv("MATHQUEST_LLM_PROVIDER")
	if provider != "" {
		cfg.Provider = provider
	}

	setStr(&cfg.Anthropic.APIKey, "MATHQUEST_ANTHROPIC_API_KEY")
	setStr(&cfg.Anthropic.Model, "MATHQUEST_ANTHROPIC_MODEL")
	setStr(&cfg.Anthropic.BaseURL, "MATHQUEST_ANTHROPIC_BASE_URL")

	setStr(&cfg.OpenAI.APIKey, "MATHQUEST_OPENAI_API_KEY")
	setStr(&cfg.OpenAI.Model, "MATHQUEST_OPENAI_MODEL")
	setStr(&cfg.OpenAI.BaseURL, "MATHQUEST_OPENAI_BASE_URL")

	setStr(&cfg.Gemini.APIKey, "MATHQUEST_GEMINI_API_KEY")
	setStr(&cfg.Gemini.Model, "MATHQUEST_GEMINI_MODEL")
	setStr(&cfg.Gemini.BaseURL, "MATHQUEST_GEMINI_BASE_URL")

	setStr(&cfg.OpenRouter.APIKey, "MATHQUEST_OPENROUTER_API_KEY")
	setStr(&cfg.OpenRouter.Model, "MATHQUEST_OPENROUTER_MODEL")
	setStr(&cfg.OpenRouter.BaseURL, "MATHQUEST_OPENROUTER_BASE_URL")

	if v, err := strconv.Atoi(os.Getenv("MATHQUEST_LLM_MAX_ATTEMPTS")); err == nil && v > 0 {
		cfg.Retry.MaxAttempts = v
	}
	if d, err := time.ParseDuration(os.Getenv("MATHQUEST_LLM_TIMEOUT")); err == nil {
		cfg.Timeout = d
	}

	return cfg, provider != ""
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig checks the vendors' standard API key variables in
// priority order (Gemini, OpenAI, Anthropic, OpenRouter) and returns a
// Config for the first one found.
func DiscoverConfig() (Config, bool) {
	cfg, _ := ConfigFromEnv()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}
	return Config{}, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "MATHQUEST_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "MATHQUEST_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "MATHQUEST_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "MATHQUEST_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
