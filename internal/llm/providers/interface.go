package providers

import (
	"context"
	"errors"
)

// Role is the author of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat-completion request
type Message struct {
	Role    Role
	Content string
}

// ErrEmptyMessages is returned when a completion is requested without any message
var ErrEmptyMessages = errors.New("completion request has no messages")

// LLMClient interface for all LLM providers
type LLMClient interface {
	// Complete sends an ordered message list and returns the model's reply text
	Complete(ctx context.Context, messages []Message) (string, error)
	// ListModels returns the model ids available to the configured credentials
	ListModels(ctx context.Context) ([]string, error)
	// Name is the provider's display name used in logs and errors
	Name() string
}

// SplitSystem separates the leading system message from the conversation
func SplitSystem(messages []Message) (system string, rest []Message) {
	if len(messages) > 0 && messages[0].Role == RoleSystem {
		return messages[0].Content, messages[1:]
	}
	return "", messages
}
