package providers

import "prassi/internal/config"

// LlamaClient talks to a self-hosted Llama server (Ollama, vLLM, llama.cpp) speaking the OpenAI API.
// The API key is optional.
type LlamaClient struct {
	chatCompletionsClient
}

func NewLlama(cfg *config.Config) LLMClient {
	return &LlamaClient{chatCompletionsClient{config: cfg, httpClient: newModelHTTPClient(cfg), provider: "Llama"}}
}
