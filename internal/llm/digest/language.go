package digest

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"prassi/internal/llm/providers"
	"prassi/internal/llm/truncation"
)

// DefaultLanguage is the answer language when nothing indicates another
const DefaultLanguage = "English"

const languageSystemPrompt = "You identify the natural language a text is written in."

// DetectLanguage asks the model for the natural language of body as a single English word
func DetectLanguage(ctx context.Context, client providers.LLMClient, body string, shrink truncation.ShrinkPolicy) (string, error) {
	if shrink.MaxAttempts <= 0 {
		shrink = truncation.DefaultShrinkPolicy()
	}

	answer, err := shrink.RetryWithShrink(ctx, body, func(ctx context.Context, body string) (string, error) {
		return client.Complete(ctx, []providers.Message{
			{Role: providers.RoleSystem, Content: languageSystemPrompt},
			{Role: providers.RoleUser, Content: "Name the natural language used in the text below in one English word. Answer with that word only.\n\n" + body},
		})
	})
	if err != nil {
		return "", fmt.Errorf("detect language: %w", err)
	}

	return normalizeLanguage(answer), nil
}

// normalizeLanguage reduces a model answer such as " japanese.\n" to "Japanese"
func normalizeLanguage(answer string) string {
	word := strings.TrimFunc(answer, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if fields := strings.Fields(word); len(fields) > 0 {
		word = strings.TrimFunc(fields[0], unicode.IsPunct)
	}
	if word == "" {
		return DefaultLanguage
	}

	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
