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

const anthropicVersion = "2023-06-01"

type ClaudeClient struct {
	config     *config.Config
	httpClient *http.Client
}

type ClaudeRequest struct {
	MaxTokens int             `json:"max_tokens"`
	Messages  []ClaudeMessage `json:"messages"`
	Model     string          `json:"model"`
	System    string          `json:"system,omitempty"`
}

type ClaudeMessage struct {
	Content []ClaudeContent `json:"content"`
	Role    string          `json:"role"`
}

type ClaudeResponse struct {
	Content []ClaudeContent `json:"content"`
	Usage   ClaudeUsage     `json:"usage"`
}

type ClaudeContent struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type ClaudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type ClaudeModelList struct {
	Data []ModelEntry `json:"data"`
}

func NewClaude(cfg *config.Config) LLMClient {
	return &ClaudeClient{config: cfg, httpClient: newModelHTTPClient(cfg)}
}

func (c *ClaudeClient) Name() string {
	return "Claude"
}

func (c *ClaudeClient) headers() map[string]string {
	return map[string]string{
		"x-api-key":         c.config.ModelUserKey,
		"anthropic-version": anthropicVersion,
	}
}

func (c *ClaudeClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyMessages
	}
	cfg := c.config
	if cfg.ModelID == "" {
		return "", fmt.Errorf("Claude model id is not set")
	}

	system, conversation := SplitSystem(messages)
	req := ClaudeRequest{
		Model:     cfg.ModelID,
		System:    system,
		MaxTokens: cfg.ModelMaxResponseTokens,
	}
	for _, m := range conversation {
		req.Messages = append(req.Messages, ClaudeMessage{
			Role:    string(m.Role),
			Content: []ClaudeContent{{Type: "text", Text: m.Content}},
		})
	}
	if len(req.Messages) == 0 {
		return "", ErrEmptyMessages
	}

	slog.Debug("Sending completion request to LLM", "provider", "Claude", "model", cfg.ModelID, "messages", len(messages))

	body, err := doJSON(ctx, c.httpClient, "Claude", http.MethodPost, cfg.ModelAPI+"/messages", c.headers(), req)
	if err != nil {
		return "", err
	}

	var response ClaudeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	slog.Debug("Claude API token usage",
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens,
		"total_tokens", response.Usage.InputTokens+response.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func (c *ClaudeClient) ListModels(ctx context.Context) ([]string, error) {
	body, err := doJSON(ctx, c.httpClient, "Claude", http.MethodGet, c.config.ModelAPI+"/models?limit=1000", c.headers(), nil)
	if err != nil {
		return nil, err
	}

	var response ClaudeModelList
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("unmarshal model list: %w", err)
	}

	models := make([]string, 0, len(response.Data))
	for _, m := range response.Data {
		models = append(models, m.ID)
	}
	return models, nil
}
