package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"prassi/internal"
	"prassi/internal/config"
	"prassi/internal/git"
	"prassi/internal/git/local"
	"prassi/internal/git/remote"
	"prassi/internal/llm/providers"
	"prassi/internal/llm/truncation"
	"prassi/internal/logger"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// publicCheckTimeout bounds the anonymous visibility probe
const publicCheckTimeout = 30 * time.Second

var (
	flagBase       string
	flagModel      string
	flagProvider   string
	flagSafe       bool
	flagDigestMode string
	flagReadme     string
	flagPublish    bool
)

var rootCmd = &cobra.Command{
	Use:   "prassi",
	Short: "Draft pull request descriptions with a language model",
	Long: `prassi reads the commit log and diff of the current branch against a base and asks a
language model to write the pull request description. When the diff does not fit the model's
context window, test files and then all files are replaced by one-line summaries.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDescribe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "Model provider: openai, claude, gemini or llama (overrides PRASSI_MODEL_PROVIDER)")

	flags := rootCmd.Flags()
	flags.StringVar(&flagBase, "base", "origin/HEAD", "Base ref to compare the current branch against")
	flags.StringVar(&flagModel, "model", "", "Model id (default: PRASSI_<PROVIDER>_MODEL_ID, else auto-detected)")
	flags.BoolVar(&flagSafe, "safe", true, "Refuse to send code of repositories that are not publicly readable")
	flags.BoolVar(&flagSafe, "check-public", true, "Alias of --safe")
	flags.StringVar(&flagDigestMode, "digest-mode", string(truncation.ModeOrigin), "Initial digest mode: origin, digest_test or digest_all")
	flags.StringVar(&flagReadme, "readme", "README.md", "README used for the answer language and project context")
	flags.BoolVar(&flagPublish, "publish", false, "Create or update the pull request of the current branch with the description")

	rootCmd.AddCommand(modelsCmd)
}

// Run executes the root command and returns the process exit code
func Run(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("prassi failed", "error", err)
		return ExitFailure
	}
	return ExitSuccess
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mode, err := truncation.ParseMode(flagDigestMode)
	if err != nil {
		return err
	}

	cfg, client, err := setup()
	if err != nil {
		return err
	}

	repo := local.New(".")

	remoteURL, err := preflight(ctx, cfg, client, repo, remote.NewChecker(publicCheckTimeout), flagModel)
	if err != nil {
		return err
	}

	readme, err := readReadme(flagReadme)
	if err != nil {
		return err
	}

	describer := internal.New(cfg, repo, client)
	desc, err := describer.Describe(ctx, internal.DescribeOptions{
		Base:   flagBase,
		Mode:   mode,
		Readme: readme,
	})
	if err != nil {
		return err
	}

	if err := printDescription(cmd.OutOrStdout(), desc); err != nil {
		return err
	}

	if !flagPublish {
		return nil
	}

	info, err := remote.Parse(remoteURL)
	if err != nil {
		return err
	}
	publisher, err := git.NewPublisher(cfg, info)
	if err != nil {
		return err
	}
	pr, err := describer.Publish(ctx, publisher, info, flagBase, desc)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Pull request description published: %s\n", pr.URL)
	return nil
}

type remoteReader interface {
	RemoteURL(ctx context.Context) (string, error)
}

type publicChecker interface {
	CheckPublic(ctx context.Context, remoteURL string) error
}

// preflight confirms the repository is public when --safe is set, then resolves the model.
// Nothing reaches the model provider until the check has passed.
// The remote URL is returned when --safe or --publish needed it.
func preflight(ctx context.Context, cfg *config.Config, client providers.LLMClient, repo remoteReader, checker publicChecker, model string) (string, error) {
	var remoteURL string
	if flagSafe || flagPublish {
		var err error
		remoteURL, err = repo.RemoteURL(ctx)
		if err != nil {
			return "", err
		}
	}

	if flagSafe {
		if err := checker.CheckPublic(ctx, remoteURL); err != nil {
			return "", err
		}
	}

	if err := resolveModel(ctx, cfg, client, model); err != nil {
		return "", err
	}
	return remoteURL, nil
}

// setup loads the configuration, installs the logger and creates the model client
func setup() (*config.Config, providers.LLMClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if flagProvider != "" {
		if err := cfg.SetProvider(flagProvider); err != nil {
			return nil, nil, err
		}
	}

	logger.Setup(cfg)

	client, err := providers.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// resolveModel sets cfg.ModelID from the flag, then the environment, then model auto-detection
func resolveModel(ctx context.Context, cfg *config.Config, client providers.LLMClient, model string) error {
	if model != "" {
		cfg.ModelID = model
		return nil
	}
	if cfg.ModelID != "" {
		return nil
	}

	detected, err := providers.DetectModel(ctx, client, cfg.ModelProvider)
	if err != nil {
		return fmt.Errorf("failed to detect model, set --model: %w", err)
	}
	cfg.ModelID = detected
	return nil
}

// readReadme returns the README text; a missing file yields an empty string
func readReadme(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("README not found", "path", path)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read README: %w", err)
	}
	return string(data), nil
}

func printDescription(w io.Writer, desc *internal.Description) error {
	_, err := fmt.Fprintln(w, strings.TrimSpace(desc.Body))
	return err
}
