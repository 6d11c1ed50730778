package providers

import "prassi/internal/config"

// GeminiClient talks to Gemini through its OpenAI-compatible endpoint
type GeminiClient struct {
	chatCompletionsClient
}

func NewGemini(cfg *config.Config) LLMClient {
	return &GeminiClient{chatCompletionsClient{config: cfg, httpClient: newModelHTTPClient(cfg), provider: "Gemini"}}
}
