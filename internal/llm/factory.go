package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNotConfigured is returned by NewProviderFromEnv when no provider is
// selected and no vendor API key is present.
var ErrNotConfigured = errors.New("no LLM provider configured")

// NewProvider builds the configured provider wrapped as
// timeout → retry → logging → vendor. rec may be nil.
func NewProvider(ctx context.Context, cfg Config, rec EventRecorder, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, rec, logger)
	if cfg.Retry.MaxAttempts > 1 {
		p = WithRetry(p, cfg.Retry)
	}
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

// NewProviderFromEnv resolves a Config from MATHQUEST_* variables, falling
// back to vendor API key variables when no provider is usable, and builds
// the provider.
func NewProviderFromEnv(ctx context.Context, rec EventRecorder, logger *slog.Logger) (Provider, error) {
	cfg, explicit := ConfigFromEnv()
	if !explicit && cfg.Validate() != nil {
		var ok bool
		cfg, ok = DiscoverConfig()
		if !ok {
			return nil, ErrNotConfigured
		}
	}
	return NewProvider(ctx, cfg, rec, logger)
}

// TimeoutProvider bounds each Generate call.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so every call is cancelled after d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
