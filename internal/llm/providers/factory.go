package providers

import (
	"fmt"

	"prassi/internal/config"
)

// NewClient creates the appropriate LLM client based on configuration.
// The returned client retries throttled requests until they succeed.
func NewClient(cfg *config.Config) (LLMClient, error) {
	client, err := newProviderClient(cfg)
	if err != nil {
		return nil, err
	}
	return WithRateLimitBackoff(client), nil
}

func newProviderClient(cfg *config.Config) (LLMClient, error) {
	switch cfg.ModelProvider {
	case "openai":
		return NewOpenAI(cfg), nil

	case "claude":
		return NewClaude(cfg), nil

	case "gemini":
		return NewGemini(cfg), nil

	case "llama":
		return NewLlama(cfg), nil

	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.ModelProvider)
	}
}
