package gitlab

import (
	"gitlab.com/gitlab-org/api/client-go"

	"prassi/internal/config"
	"prassi/internal/git/types"
	httputil "prassi/internal/http"
)

// BaseURL returns the GitLab instance URL: PRASSI_GITLAB_BASE_URL when set, else the remote's host
func BaseURL(cfg *config.Config, remote types.RemoteInfo) string {
	if cfg.GitLabBaseURL != "" {
		return cfg.GitLabBaseURL
	}
	return "https://" + remote.Host
}

func NewClient(cfg *config.Config, baseURL string) (*gitlab.Client, error) {
	if cfg.GitLabSkipSSLVerify {
		httpClient := httputil.NewHTTPClient(httputil.HTTPClientOptions{
			SkipSSLVerify: true,
			UserAgent:     httputil.DefaultUserAgent,
		})
		return gitlab.NewClient(cfg.GitLabToken, gitlab.WithBaseURL(baseURL), gitlab.WithHTTPClient(httpClient))
	}

	return gitlab.NewClient(cfg.GitLabToken, gitlab.WithBaseURL(baseURL))
}
