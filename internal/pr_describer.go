package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"prassi/internal/config"
	"prassi/internal/git/types"
	"prassi/internal/llm/digest"
	llmerrors "prassi/internal/llm/errors"
	"prassi/internal/llm/prompts/system"
	"prassi/internal/llm/prompts/user"
	"prassi/internal/llm/providers"
	"prassi/internal/llm/truncation"
)

// ErrNoDiffs is returned when the branch has no changes against the base
var ErrNoDiffs = errors.New("no differences found against base")

// EmptyDiffDigest stands in for files whose diff has no text, such as binaries and pure renames
const EmptyDiffDigest = "no textual changes"

const readmeDescription = "README of a git repository"

type PRDescriber struct {
	repo      types.Repository
	llmClient providers.LLMClient
	config    *config.Config
}

func New(cfg *config.Config, repo types.Repository, llmClient providers.LLMClient) *PRDescriber {
	return &PRDescriber{
		repo:      repo,
		llmClient: llmClient,
		config:    cfg,
	}
}

// DescribeOptions selects what Describe compares and how it starts
type DescribeOptions struct {
	Base   string          // Base ref, e.g. "origin/HEAD"
	Mode   truncation.Mode // Initial degradation level
	Readme string          // README text; empty means no README
}

// Description is a generated pull request description
type Description struct {
	Body      string          // Model response, verbatim
	Mode      truncation.Mode // Mode the description was produced in
	Language  string
	Digests   digest.Map
	CommitLog string
}

// Describe drafts a pull request description for the changes since opts.Base.
// When the prompt overflows the model's context window it escalates through the digest modes
// origin, digest_test and digest_all; an overflow in digest_all is fatal.
func (d *PRDescriber) Describe(ctx context.Context, opts DescribeOptions) (*Description, error) {
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", truncation.ErrUnknownMode, opts.Mode)
	}

	slog.Debug("Collecting changes", "base", opts.Base)

	g, gCtx := errgroup.WithContext(ctx)

	var commitLog string
	var files []string

	g.Go(func() error {
		var err error
		commitLog, err = d.repo.Log(gCtx, opts.Base)
		if err != nil {
			return fmt.Errorf("failed to read commit log: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		files, err = d.repo.DiffFiles(gCtx, opts.Base)
		if err != nil {
			return fmt.Errorf("failed to list changed files: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoDiffs, opts.Base)
	}

	slog.Info("Collected changes", "base", opts.Base, "files", len(files))

	language, readmeSummary, err := d.readmeContext(ctx, opts.Readme)
	if err != nil {
		return nil, err
	}

	systemPrompt, err := system.RenderSystemPrompt(language, readmeSummary)
	if err != nil {
		return nil, err
	}

	digests := digest.Map{}
	mode := opts.Mode

	for {
		diff, err := d.buildDiff(ctx, opts.Base, mode, files, digests)
		if err != nil {
			return nil, err
		}

		userPrompt, err := user.RenderUserPrompt(language, diff, digests, commitLog)
		if err != nil {
			return nil, err
		}

		slog.Info("Requesting description", "mode", mode, "diff_bytes", len(diff), "digests", len(digests))

		response, err := d.llmClient.Complete(ctx, []providers.Message{
			{Role: providers.RoleSystem, Content: systemPrompt},
			{Role: providers.RoleUser, Content: userPrompt},
		})
		if err == nil {
			return &Description{
				Body:      response,
				Mode:      mode,
				Language:  language,
				Digests:   digests,
				CommitLog: commitLog,
			}, nil
		}

		var contextErr *llmerrors.ContextWindowError
		if !errors.As(err, &contextErr) {
			return nil, fmt.Errorf("failed to generate description in %s mode: %w", mode, err)
		}

		next, ok := mode.Next()
		if !ok {
			return nil, fmt.Errorf("prompt does not fit the context window even in %s mode: %w", mode, err)
		}

		slog.Warn("Context window exceeded, escalating digest mode",
			"provider", contextErr.Provider,
			"limit", contextErr.Limit,
			"actual", contextErr.Actual,
			"from", mode,
			"to", next)

		mode = next
	}
}

// readmeContext returns the answer language and README summary; English and no summary without a README
func (d *PRDescriber) readmeContext(ctx context.Context, readme string) (language, summary string, err error) {
	if strings.TrimSpace(readme) == "" {
		slog.Debug("No README, answering in the default language", "language", digest.DefaultLanguage)
		return digest.DefaultLanguage, "", nil
	}

	language, err = digest.DetectLanguage(ctx, d.llmClient, readme, d.shrinkPolicy())
	if err != nil {
		return "", "", err
	}

	summary, err = digest.Summarize(ctx, d.llmClient, readmeDescription, readme, digest.Options{
		MaxLength: d.config.DigestLength,
		Shrink:    d.shrinkPolicy(),
	})
	if err != nil {
		return "", "", err
	}

	slog.Info("Summarized README", "language", language)
	return language, summary, nil
}

// buildDiff returns the raw diff to send in mode, first adding any digests the mode needs to digests
func (d *PRDescriber) buildDiff(ctx context.Context, base string, mode truncation.Mode, files []string, digests digest.Map) (string, error) {
	switch mode {
	case truncation.ModeOrigin:
		diff, err := d.repo.Diff(ctx, base)
		if err != nil {
			return "", fmt.Errorf("failed to read diff: %w", err)
		}
		return diff, nil

	case truncation.ModeDigestTest:
		sources, tests := truncation.PartitionTests(files)
		if err := d.summarizeFiles(ctx, base, digests.Missing(tests), digests); err != nil {
			return "", err
		}
		if len(sources) == 0 {
			return "", nil
		}
		diff, err := d.repo.Diff(ctx, base, sources...)
		if err != nil {
			return "", fmt.Errorf("failed to read source diff: %w", err)
		}
		return diff, nil

	case truncation.ModeDigestAll:
		if err := d.summarizeFiles(ctx, base, digests.Missing(files), digests); err != nil {
			return "", err
		}
		return "", nil

	default:
		return "", fmt.Errorf("%w: %q", truncation.ErrUnknownMode, mode)
	}
}

// summarizeFiles adds a digest for every path, one model call at a time
func (d *PRDescriber) summarizeFiles(ctx context.Context, base string, paths []string, digests digest.Map) error {
	for _, path := range paths {
		fileDiff, err := d.repo.Diff(ctx, base, path)
		if err != nil {
			return fmt.Errorf("failed to read diff of %s: %w", path, err)
		}

		if strings.TrimSpace(fileDiff) == "" {
			digests[path] = EmptyDiffDigest
			continue
		}

		slog.Debug("Summarizing file diff", "path", path, "bytes", len(fileDiff))

		summary, err := digest.Summarize(ctx, d.llmClient, "git diff of "+path, fileDiff, digest.Options{
			Target:    "changes",
			MaxLength: d.config.DigestLength,
			Shrink:    d.shrinkPolicy(),
		})
		if err != nil {
			return err
		}
		digests[path] = summary
	}
	return nil
}

func (d *PRDescriber) shrinkPolicy() truncation.ShrinkPolicy {
	policy := truncation.DefaultShrinkPolicy()
	if d.config.ShrinkMaxAttempts > 0 {
		policy.MaxAttempts = d.config.ShrinkMaxAttempts
	}
	return policy
}
