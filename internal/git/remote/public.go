package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httputil "prassi/internal/http"
)

// ErrRepoNotPublic is returned when a repository cannot be read anonymously
var ErrRepoNotPublic = errors.New("git repository is not public")

// Checker probes repositories over the git smart HTTP protocol without credentials
type Checker struct {
	httpClient *http.Client
}

// NewChecker returns a Checker whose requests time out after timeout
func NewChecker(timeout time.Duration) *Checker {
	return &Checker{httpClient: httputil.NewHTTPClient(httputil.HTTPClientOptions{
		Timeout:   timeout,
		UserAgent: "git/2.0 (" + httputil.DefaultUserAgent + ")",
	})}
}

// NewCheckerWithClient returns a Checker using httpClient
func NewCheckerWithClient(httpClient *http.Client) *Checker {
	return &Checker{httpClient: httpClient}
}

// CheckPublic succeeds only if the repository advertises its refs to an anonymous client
func (c *Checker) CheckPublic(ctx context.Context, remoteURL string) error {
	repoURL, err := HTTPSURL(remoteURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepoNotPublic, err)
	}
	return c.checkURL(ctx, repoURL)
}

func (c *Checker) checkURL(ctx context.Context, repoURL string) error {
	probe := repoURL + "/info/refs?service=git-upload-pack"
	slog.Info("Checking repository visibility", "url", repoURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probe, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepoNotPublic, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepoNotPublic, err)
	}
	defer resp.Body.Close()

	slog.Debug("Repository visibility probe", "url", repoURL, "status_code", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s answered %d", ErrRepoNotPublic, repoURL, resp.StatusCode)
	}
	return nil
}
