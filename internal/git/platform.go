package git

import (
	"fmt"
	"net/url"
	"strings"

	"prassi/internal/config"
	"prassi/internal/git/github"
	"prassi/internal/git/gitlab"
	"prassi/internal/git/types"
)

// Platform identifies a hosting service
type Platform string

const (
	PlatformGitHub  Platform = "github"
	PlatformGitLab  Platform = "gitlab"
	PlatformUnknown Platform = ""
)

// DetectPlatform infers the hosting service from the remote host
func DetectPlatform(cfg *config.Config, remote types.RemoteInfo) Platform {
	host := strings.ToLower(hostname(remote.Host))

	switch {
	case host == "github.com" || strings.HasSuffix(host, ".github.com"):
		return PlatformGitHub
	case host == "gitlab.com" || strings.HasPrefix(host, "gitlab."):
		return PlatformGitLab
	}

	if cfg.GitLabBaseURL != "" {
		if u, err := url.Parse(cfg.GitLabBaseURL); err == nil && strings.EqualFold(u.Hostname(), host) {
			return PlatformGitLab
		}
	}
	return PlatformUnknown
}

// NewPublisher returns the publisher for the platform hosting remote
func NewPublisher(cfg *config.Config, remote types.RemoteInfo) (types.Publisher, error) {
	switch DetectPlatform(cfg, remote) {
	case PlatformGitHub:
		return github.NewPublisher(cfg)
	case PlatformGitLab:
		return gitlab.NewPublisher(cfg, remote)
	default:
		return nil, fmt.Errorf("unsupported hosting platform for %s (set PRASSI_GITLAB_BASE_URL for self-hosted GitLab)", remote.Host)
	}
}

func hostname(host string) string {
	if i := strings.LastIndex(host, ":"); i >= 0 {
		return host[:i]
	}
	return host
}
