package system

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed system_prompt.md
var systemPromptSource string

var systemPromptTemplate *template.Template

func init() {
	systemPromptTemplate = template.Must(
		template.New("system_prompt").Parse(systemPromptSource),
	)
}

// PromptData holds the data for the system prompt template
type PromptData struct {
	Language      string
	ReadmeSummary string // Optional; omitted from the prompt when empty
}

// RenderSystemPrompt formats the committer persona, answer language and optional README summary
func RenderSystemPrompt(language, readmeSummary string) (string, error) {
	data := PromptData{
		Language:      language,
		ReadmeSummary: strings.TrimSpace(readmeSummary),
	}

	var buf bytes.Buffer
	if err := systemPromptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute system prompt template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
