package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v80/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/sync/errgroup"

	"prassi/internal/config"
	"prassi/internal/git/types"
)

// Publisher implements types.Publisher for GitHub pull requests.
// Open pull requests are looked up over GraphQL when a GraphQL client is set, otherwise over REST.
type Publisher struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
}

// NewPublisher creates a GitHub publisher from configuration
func NewPublisher(cfg *config.Config) (*Publisher, error) {
	if cfg.GitHubToken == "" {
		return nil, fmt.Errorf("PRASSI_GITHUB_TOKEN environment variable is required to publish to GitHub")
	}

	p := &Publisher{restClient: NewRESTClient(cfg.GitHubToken)}
	if cfg.GitHubUseGraphQL {
		p.graphqlClient = NewGraphQLClient(cfg.GitHubToken)
	}
	return p, nil
}

// NewPublisherWithClients creates a publisher from prebuilt clients; graphqlClient may be nil
func NewPublisherWithClients(restClient *github.Client, graphqlClient *githubv4.Client) *Publisher {
	return &Publisher{restClient: restClient, graphqlClient: graphqlClient}
}

// Name returns the platform name
func (p *Publisher) Name() string {
	return "GitHub"
}

// Publish edits the body of the open pull request for req.HeadBranch or opens a new one
func (p *Publisher) Publish(ctx context.Context, req types.PublishRequest) (*types.PullRequest, error) {
	owner, repo := req.Remote.Owner, req.Remote.Name
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("cannot determine GitHub repository from %q", req.Remote.Path)
	}

	g, gCtx := errgroup.WithContext(ctx)

	var existing *types.PullRequest
	g.Go(func() error {
		var err error
		existing, err = p.findOpenPullRequest(gCtx, owner, repo, req.HeadBranch)
		return err
	})

	base := req.BaseBranch
	if base == "" || base == "HEAD" {
		g.Go(func() error {
			repository, _, err := p.restClient.Repositories.Get(gCtx, owner, repo)
			if err != nil {
				return fmt.Errorf("failed to get repository %s/%s: %w", owner, repo, err)
			}
			base = repository.GetDefaultBranch()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if existing != nil {
		slog.Info("Updating existing pull request", "repo", owner+"/"+repo, "number", existing.Number)
		pr, _, err := p.restClient.PullRequests.Edit(ctx, owner, repo, int(existing.Number), &github.PullRequest{
			Body: github.Ptr(req.Body),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update pull request #%d: %w", existing.Number, err)
		}
		return &types.PullRequest{Number: int64(pr.GetNumber()), URL: pr.GetHTMLURL()}, nil
	}

	slog.Info("Creating pull request", "repo", owner+"/"+repo, "head", req.HeadBranch, "base", base)
	pr, _, err := p.restClient.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(req.Title),
		Head:  github.Ptr(req.HeadBranch),
		Base:  github.Ptr(base),
		Body:  github.Ptr(req.Body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}
	return &types.PullRequest{Number: int64(pr.GetNumber()), URL: pr.GetHTMLURL(), Created: true}, nil
}

func (p *Publisher) findOpenPullRequest(ctx context.Context, owner, repo, head string) (*types.PullRequest, error) {
	if p.graphqlClient != nil {
		return p.findOpenPullRequestGraphQL(ctx, owner, repo, head)
	}

	prs, _, err := p.restClient.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State: "open",
		Head:  owner + ":" + head,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s: %w", head, err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return &types.PullRequest{Number: int64(prs[0].GetNumber()), URL: prs[0].GetHTMLURL()}, nil
}

func (p *Publisher) findOpenPullRequestGraphQL(ctx context.Context, owner, repo, head string) (*types.PullRequest, error) {
	var query struct {
		Repository struct {
			PullRequests struct {
				Nodes []struct {
					Number githubv4.Int
					URL    string
				}
			} `graphql:"pullRequests(headRefName: $head, states: OPEN, first: 1)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner": githubv4.String(owner),
		"repo":  githubv4.String(repo),
		"head":  githubv4.String(head),
	}

	if err := p.graphqlClient.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to query pull requests for %s: %w", head, err)
	}

	nodes := query.Repository.PullRequests.Nodes
	if len(nodes) == 0 {
		return nil, nil
	}
	return &types.PullRequest{Number: int64(nodes[0].Number), URL: nodes[0].URL}, nil
}
