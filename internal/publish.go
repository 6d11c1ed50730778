package internal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"prassi/internal/git/types"
)

// PublishRequest builds the request that opens or updates the pull request for head.
// base is the ref the description was generated against; a leading "origin/" is dropped.
func PublishRequest(remote types.RemoteInfo, head, base string, desc *Description) types.PublishRequest {
	return types.PublishRequest{
		Remote:     remote,
		HeadBranch: head,
		BaseBranch: strings.TrimPrefix(base, "origin/"),
		Title:      Title(desc.Body, desc.CommitLog),
		Body:       strings.TrimSpace(desc.Body),
	}
}

// Title returns the first non-empty line of body without Markdown heading marks,
// or the subject of the first commit in commitLog when body has none
func Title(body, commitLog string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}

	for _, line := range strings.Split(commitLog, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// --oneline entries are "<hash> <subject>"
		if _, subject, ok := strings.Cut(line, " "); ok {
			return strings.TrimSpace(subject)
		}
		return line
	}
	return ""
}

// Publish sends desc to the hosting platform as the description of the current branch's pull request
func (d *PRDescriber) Publish(ctx context.Context, publisher types.Publisher, remote types.RemoteInfo, base string, desc *Description) (*types.PullRequest, error) {
	head, err := d.repo.CurrentBranch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine current branch: %w", err)
	}
	if head == "HEAD" {
		return nil, fmt.Errorf("cannot publish from a detached HEAD")
	}

	req := PublishRequest(remote, head, base, desc)
	if req.Title == "" {
		return nil, fmt.Errorf("cannot publish a pull request without a title")
	}

	pr, err := publisher.Publish(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to publish to %s: %w", publisher.Name(), err)
	}

	slog.Info("Published pull request description",
		"platform", publisher.Name(),
		"number", pr.Number,
		"url", pr.URL,
		"created", pr.Created)
	return pr, nil
}
