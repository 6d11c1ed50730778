// Package local reads the working copy by running the git binary.
package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Repository runs git in Dir (the process working directory when empty)
type Repository struct {
	Dir string
}

// New returns a Repository rooted at dir
func New(dir string) *Repository {
	return &Repository{Dir: dir}
}

func (r *Repository) Log(ctx context.Context, base string) (string, error) {
	return r.git(ctx, "log", "--oneline", "--no-decorate", base+"..HEAD")
}

func (r *Repository) DiffFiles(ctx context.Context, base string) ([]string, error) {
	// -z keeps paths verbatim; without it git quotes non-ASCII and special characters
	out, err := r.git(ctx, "diff", "--merge-base", "--name-only", "-z", base)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, path := range strings.Split(out, "\x00") {
		if path != "" {
			files = append(files, path)
		}
	}
	return files, nil
}

func (r *Repository) Diff(ctx context.Context, base string, paths ...string) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff", "--merge-base", base}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	return r.git(ctx, args...)
}

func (r *Repository) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return "", fmt.Errorf("read origin remote: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// git runs a git subcommand and returns its stdout; stderr is folded into the error.
// Pathspecs are literal so file names are never read as glob patterns.
func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	slog.Debug("Running git", "args", args)

	cmd := exec.CommandContext(ctx, "git", append([]string{"--literal-pathspecs", "-c", "core.quotePath=false"}, args...)...)
	cmd.Dir = r.Dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}
