package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"prassi/internal/llm/providers"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available to the configured provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := setup()
		if err != nil {
			return err
		}
		return listModels(cmd.Context(), client, cmd.OutOrStdout())
	},
}

func listModels(ctx context.Context, client providers.LLMClient, w io.Writer) error {
	models, err := client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list %s models: %w", client.Name(), err)
	}

	slices.Sort(models)
	for _, m := range models {
		fmt.Fprintln(w, m)
	}
	return nil
}
