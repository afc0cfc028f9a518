package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// mockExplanation answers every request when the mock provider is selected
// from configuration, so the bot can run without an API key.
var mockExplanation = TextResponse("Це тестове пояснення. Підключіть справжню мовну модель, щоб отримувати змістовні відповіді.")

// NewProvider builds the configured vendor behind the breaker, retry and
// event-logging decorators. It returns a nil Provider and
// no error when cfg.Provider is "none".
func NewProvider(ctx context.Context, cfg Config, recorder EventRecorder, logger *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		m := NewMockProvider()
		fallback := mockExplanation
		m.Fallback = &fallback
		base = m
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → breaker → retry → logging → base
	logged := WithLogging(base, recorder, logger)
	retried := WithRetry(logged, cfg.Retry)
	return WithResilience(retried, cfg.Breaker, recorder, logger), nil
}
