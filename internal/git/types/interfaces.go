package types

import (
	"context"
)

// Repository is the local working copy the description is generated from
type Repository interface {
	// Log returns the one-line commit log of the current branch since base
	Log(ctx context.Context, base string) (string, error)

	// DiffFiles returns the paths changed since the merge base with base, in git's order
	DiffFiles(ctx context.Context, base string) ([]string, error)

	// Diff returns the diff since the merge base with base, limited to paths when given
	Diff(ctx context.Context, base string, paths ...string) (string, error)

	// RemoteURL returns the URL of the origin remote
	RemoteURL(ctx context.Context) (string, error)

	// CurrentBranch returns the name of the checked-out branch
	CurrentBranch(ctx context.Context) (string, error)
}

// Publisher creates or updates the pull request of a branch on a hosting platform
type Publisher interface {
	// Publish sets the description of the open pull request for the head branch, creating one when none exists
	Publish(ctx context.Context, req PublishRequest) (*PullRequest, error)

	// Name returns the platform name (e.g., "GitHub", "GitLab")
	Name() string
}
