package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"prassi/internal/config"
)

// ChatCompletionRequest is the OpenAI chat-completions payload, also spoken by Gemini and Llama servers
type ChatCompletionRequest struct {
	MaxTokens int           `json:"max_tokens,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	Model     string        `json:"model"`
}

type ChatMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type ChatCompletionResponse struct {
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

type ChatChoice struct {
	FinishReason string      `json:"finish_reason"`
	Message      ChatMessage `json:"message"`
}

type ChatUsage struct {
	CompletionTokens int `json:"completion_tokens"`
	PromptTokens     int `json:"prompt_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ModelListResponse struct {
	Data []ModelEntry `json:"data"`
}

type ModelEntry struct {
	ID string `json:"id"`
}

// chatCompletionsClient implements LLMClient against any OpenAI-compatible endpoint
type chatCompletionsClient struct {
	config     *config.Config
	httpClient *http.Client
	provider   string
}

func (c *chatCompletionsClient) Name() string {
	return c.provider
}

func (c *chatCompletionsClient) headers() map[string]string {
	headers := map[string]string{}
	if c.config.ModelUserKey != "" {
		headers["Authorization"] = "Bearer " + c.config.ModelUserKey
	}
	return headers
}

func (c *chatCompletionsClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyMessages
	}
	cfg := c.config
	if cfg.ModelID == "" {
		return "", fmt.Errorf("%s model id is not set", c.provider)
	}

	req := ChatCompletionRequest{
		Model:     cfg.ModelID,
		MaxTokens: cfg.ModelMaxResponseTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	slog.Debug("Sending completion request to LLM", "provider", c.provider, "model", cfg.ModelID, "messages", len(messages))

	body, err := doJSON(ctx, c.httpClient, c.provider, http.MethodPost, cfg.ModelAPI+"/chat/completions", c.headers(), req)
	if err != nil {
		return "", err
	}

	var response ChatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	slog.Debug("Model API token usage",
		"provider", c.provider,
		"prompt_tokens", response.Usage.PromptTokens,
		"completion_tokens", response.Usage.CompletionTokens,
		"total_tokens", response.Usage.TotalTokens)

	return response.Choices[0].Message.Content, nil
}

func (c *chatCompletionsClient) ListModels(ctx context.Context) ([]string, error) {
	body, err := doJSON(ctx, c.httpClient, c.provider, http.MethodGet, c.config.ModelAPI+"/models", c.headers(), nil)
	if err != nil {
		return nil, err
	}

	var response ModelListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("unmarshal model list: %w", err)
	}

	models := make([]string, 0, len(response.Data))
	for _, m := range response.Data {
		// Gemini's compatibility layer reports "models/<id>"
		models = append(models, strings.TrimPrefix(m.ID, "models/"))
	}
	return models, nil
}

type OpenAIClient struct {
	chatCompletionsClient
}

func NewOpenAI(cfg *config.Config) LLMClient {
	return &OpenAIClient{chatCompletionsClient{config: cfg, httpClient: newModelHTTPClient(cfg), provider: "OpenAI"}}
}
