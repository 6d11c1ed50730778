package providers

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// modelPreference is the top-tier model and the always-available default of a provider
type modelPreference struct {
	Preferred string
	Fallback  string
}

var modelPreferences = map[string]modelPreference{
	"openai": {Preferred: "gpt-4", Fallback: "gpt-3.5-turbo"},
	"claude": {Preferred: "claude-opus-4-1", Fallback: "claude-sonnet-4-5"},
	"gemini": {Preferred: "gemini-2.5-pro", Fallback: "gemini-2.5-flash"},
	"llama":  {Preferred: "llama3.3", Fallback: "llama3.1"},
}

// DetectModel picks the provider's preferred model when the credentials can use it,
// otherwise its fallback model
func DetectModel(ctx context.Context, client LLMClient, provider string) (string, error) {
	pref, ok := modelPreferences[provider]
	if !ok {
		return "", fmt.Errorf("unsupported model provider: %s", provider)
	}

	available, err := client.ListModels(ctx)
	if err != nil {
		return "", fmt.Errorf("list %s models: %w", client.Name(), err)
	}

	model := pref.Fallback
	if slices.Contains(available, pref.Preferred) {
		model = pref.Preferred
	}

	slog.Info("Selected model", "provider", client.Name(), "model", model, "available", len(available))
	return model, nil
}
