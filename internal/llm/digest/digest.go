// Package digest condenses bodies of text with the language model: one-line summaries of
// diffs and READMEs, and detection of the natural language a README is written in.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"prassi/internal/llm/providers"
	"prassi/internal/llm/truncation"
)

const (
	DefaultTarget    = "content"
	DefaultMaxLength = 200
)

// Options tunes a single summarization
type Options struct {
	// Target names what is summarized, e.g. "content" or "changes"
	Target string
	// MaxLength is the longest acceptable summary in characters
	MaxLength int
	// Shrink bounds the truncate-and-retry loop on context overflow
	Shrink truncation.ShrinkPolicy
}

func (o Options) withDefaults() Options {
	if o.Target == "" {
		o.Target = DefaultTarget
	}
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	if o.Shrink.MaxAttempts <= 0 {
		o.Shrink = truncation.DefaultShrinkPolicy()
	}
	return o
}

// Summarize asks the model for a one-line summary of body, described as the content of description.
// Oversized bodies are truncated and resent until they fit.
func Summarize(ctx context.Context, client providers.LLMClient, description, body string, opts Options) (string, error) {
	opts = opts.withDefaults()

	system := fmt.Sprintf("You accurately summarize the %s in a %s.", opts.Target, description)

	summary, err := opts.Shrink.RetryWithShrink(ctx, body, func(ctx context.Context, body string) (string, error) {
		return client.Complete(ctx, []providers.Message{
			{Role: providers.RoleSystem, Content: system},
			{Role: providers.RoleUser, Content: summaryRequest(opts, body)},
		})
	})
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", description, err)
	}

	summary = strings.TrimSpace(summary)
	if n := utf8.RuneCountInString(summary); n > opts.MaxLength {
		slog.Debug("Summary longer than requested", "description", description, "length", n, "max_length", opts.MaxLength)
	}
	return summary, nil
}

func summaryRequest(opts Options, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the %s below in a single line of at most %d characters. Answer with the summary only.\n\n", opts.Target, opts.MaxLength)
	b.WriteString(body)
	return b.String()
}
