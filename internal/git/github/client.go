package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v80/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// newTokenHTTPClient returns an HTTP client that authenticates every request with token
func newTokenHTTPClient(token string) *http.Client {
	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return oauth2.NewClient(context.Background(), src)
}

// NewRESTClient creates a GitHub REST client authenticated with token
func NewRESTClient(token string) *github.Client {
	return github.NewClient(newTokenHTTPClient(token))
}

// NewGraphQLClient creates a GitHub GraphQL client authenticated with token
func NewGraphQLClient(token string) *githubv4.Client {
	return githubv4.NewClient(newTokenHTTPClient(token))
}
