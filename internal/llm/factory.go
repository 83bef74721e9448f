package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/bunpou/internal/logger"
)

// NewProvider creates a Provider from configuration. The client is built
// once here and shared by every request for the life of the process.
// It returns the provider wrapped with logging and, when enabled, retry
// middleware.
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry (optional) → logging → base
	var p Provider = WithLogging(base, log)
	if cfg.Retry.Enabled() {
		p = WithRetry(p, cfg.Retry, log)
	}
	return p, nil
}
