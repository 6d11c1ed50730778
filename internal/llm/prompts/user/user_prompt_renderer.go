package user

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"prassi/internal/llm/digest"
	"prassi/internal/llm/formatting"
)

//go:embed user_prompt.md
var userPromptSource string

var userPromptTemplate *template.Template

func init() {
	userPromptTemplate = template.Must(
		template.New("user_prompt").Parse(userPromptSource),
	)
}

// PromptData holds the data for the user prompt template
type PromptData struct {
	CommitLog string
	Diff      string // Raw diff; empty in digest_all mode
	Digests   string // Rendered "path: summary" lines
	Fence     string // Backtick fence longer than any run inside Diff
	Language  string
}

// RenderUserPrompt formats the user prompt: language instruction, diff, digests, commit log, then the PR instructions
func RenderUserPrompt(language, diff string, digests digest.Map, commitLog string) (string, error) {
	diff = strings.TrimRight(diff, "\n")
	data := PromptData{
		CommitLog: formatting.FormatCommitLog(commitLog),
		Diff:      diff,
		Digests:   formatting.FormatDigests(digests),
		Fence:     formatting.CodeFence(diff),
		Language:  language,
	}

	var buf bytes.Buffer
	if err := userPromptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute user prompt template: %w", err)
	}

	return buf.String(), nil
}
