package internal

import (
	"context"
	"errors"
	"testing"

	"prassi/internal/config"
	"prassi/internal/git/types"
)

type mockPublisher struct {
	requests []types.PublishRequest
	err      error
}

func (m *mockPublisher) Publish(ctx context.Context, req types.PublishRequest) (*types.PullRequest, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &types.PullRequest{Number: 7, URL: "https://github.com/org/repo/pull/7", Created: true}, nil
}

func (m *mockPublisher) Name() string {
	return "Mock"
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		commitLog string
		want      string
	}{
		{"heading", "## Add retry loop\n\nDetails", "", "Add retry loop"},
		{"leading blank lines", "\n\n  Plain title  \nmore", "", "Plain title"},
		{"falls back to commit subject", "  \n", "abc1234 Add retry loop\ndef5678 Older", "Add retry loop"},
		{"commit without hash", "", "Subject", "Subject"},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.body, tt.commitLog); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublishRequest(t *testing.T) {
	remote := types.RemoteInfo{Host: "github.com", Owner: "org", Name: "repo", Path: "org/repo"}
	desc := &Description{Body: "# Overview\nAdds a retry loop.\n", CommitLog: "abc1234 Add retry"}

	req := PublishRequest(remote, "feature", "origin/main", desc)

	if req.BaseBranch != "main" || req.HeadBranch != "feature" {
		t.Errorf("branches = %q <- %q", req.BaseBranch, req.HeadBranch)
	}
	if req.Title != "Overview" {
		t.Errorf("Title = %q", req.Title)
	}
	if req.Body != "# Overview\nAdds a retry loop." {
		t.Errorf("Body = %q", req.Body)
	}
	if got := PublishRequest(remote, "feature", "origin/HEAD", desc).BaseBranch; got != "HEAD" {
		t.Errorf("BaseBranch = %q, want HEAD", got)
	}
}

func TestPublish(t *testing.T) {
	describer := New(&config.Config{}, newTestRepository(), &mockLLMClient{})
	publisher := &mockPublisher{}
	desc := &Description{Body: "## Overview", CommitLog: "abc1234 Add retry"}

	pr, err := describer.Publish(context.Background(), publisher, types.RemoteInfo{Host: "github.com"}, "origin/main", desc)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if pr.Number != 7 {
		t.Errorf("Publish() = %+v", pr)
	}
	if len(publisher.requests) != 1 || publisher.requests[0].HeadBranch != "feature" {
		t.Errorf("requests = %+v", publisher.requests)
	}
}

func TestPublish_Errors(t *testing.T) {
	desc := &Description{Body: "## Overview"}

	failing := &mockPublisher{err: errors.New("forbidden")}
	describer := New(&config.Config{}, newTestRepository(), &mockLLMClient{})
	if _, err := describer.Publish(context.Background(), failing, types.RemoteInfo{}, "main", desc); err == nil {
		t.Error("expected publisher error to propagate")
	}

	if _, err := describer.Publish(context.Background(), &mockPublisher{}, types.RemoteInfo{}, "main", &Description{}); err == nil {
		t.Error("expected error for an empty title")
	}
}
