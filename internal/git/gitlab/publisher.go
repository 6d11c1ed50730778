package gitlab

import (
	"context"
	"fmt"
	"log/slog"

	"gitlab.com/gitlab-org/api/client-go"

	"prassi/internal/config"
	"prassi/internal/git/types"
)

// Publisher implements types.Publisher for GitLab merge requests
type Publisher struct {
	client *gitlab.Client
}

// NewPublisher creates a GitLab publisher for the instance hosting remote
func NewPublisher(cfg *config.Config, remote types.RemoteInfo) (*Publisher, error) {
	if cfg.GitLabToken == "" {
		return nil, fmt.Errorf("PRASSI_GITLAB_TOKEN environment variable is required to publish to GitLab")
	}

	client, err := NewClient(cfg, BaseURL(cfg, remote))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &Publisher{client: client}, nil
}

// NewPublisherWithClient creates a publisher from a prebuilt client
func NewPublisherWithClient(client *gitlab.Client) *Publisher {
	return &Publisher{client: client}
}

// Name returns the platform name
func (p *Publisher) Name() string {
	return "GitLab"
}

// Publish updates the description of the opened merge request for req.HeadBranch or opens a new one
func (p *Publisher) Publish(ctx context.Context, req types.PublishRequest) (*types.PullRequest, error) {
	projectPath := req.Remote.Path

	mrs, _, err := p.client.MergeRequests.ListProjectMergeRequests(projectPath, &gitlab.ListProjectMergeRequestsOptions{
		State:        gitlab.Ptr("opened"),
		SourceBranch: gitlab.Ptr(req.HeadBranch),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list merge requests for %s: %w", req.HeadBranch, err)
	}

	if len(mrs) > 0 {
		slog.Info("Updating existing merge request", "project", projectPath, "iid", mrs[0].IID)
		mr, _, err := p.client.MergeRequests.UpdateMergeRequest(projectPath, mrs[0].IID, &gitlab.UpdateMergeRequestOptions{
			Description: gitlab.Ptr(req.Body),
		}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to update merge request !%d: %w", mrs[0].IID, err)
		}
		return &types.PullRequest{Number: int64(mr.IID), URL: mr.WebURL}, nil
	}

	target := req.BaseBranch
	if target == "" || target == "HEAD" {
		project, _, err := p.client.Projects.GetProject(projectPath, &gitlab.GetProjectOptions{}, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to get project %s: %w", projectPath, err)
		}
		target = project.DefaultBranch
	}

	slog.Info("Creating merge request", "project", projectPath, "source", req.HeadBranch, "target", target)
	mr, _, err := p.client.MergeRequests.CreateMergeRequest(projectPath, &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(req.Title),
		Description:  gitlab.Ptr(req.Body),
		SourceBranch: gitlab.Ptr(req.HeadBranch),
		TargetBranch: gitlab.Ptr(target),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request: %w", err)
	}
	return &types.PullRequest{Number: int64(mr.IID), URL: mr.WebURL, Created: true}, nil
}
