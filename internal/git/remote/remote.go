// Package remote interprets origin URLs and checks whether a repository is publicly readable.
package remote

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"prassi/internal/git/types"
)

// scpLikePattern matches "git@host:org/repo.git"
var scpLikePattern = regexp.MustCompile(`^(?:[^@/]+@)?([^:/]+):(.+)$`)

// Parse converts a git remote URL (scp-like SSH, ssh://, git://, http(s)://) into RemoteInfo.
// SSH and git remotes are rewritten to HTTPS; credentials are always dropped.
func Parse(remoteURL string) (types.RemoteInfo, error) {
	raw := strings.TrimSpace(remoteURL)
	if raw == "" {
		return types.RemoteInfo{}, fmt.Errorf("empty remote URL")
	}

	scheme := "https"
	var host, path string
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return types.RemoteInfo{}, fmt.Errorf("invalid remote URL %q: %w", raw, err)
		}
		switch u.Scheme {
		case "ssh", "git", "git+ssh", "http", "https":
		default:
			return types.RemoteInfo{}, fmt.Errorf("unsupported remote URL scheme %q", u.Scheme)
		}
		host = u.Hostname()
		// SSH ports never serve HTTPS; only keep ports of http(s) remotes
		if u.Scheme == "http" || u.Scheme == "https" {
			scheme = u.Scheme
			if u.Port() != "" {
				host = u.Host
			}
		}
		path = u.Path
	} else if m := scpLikePattern.FindStringSubmatch(raw); m != nil {
		host, path = m[1], m[2]
	} else {
		return types.RemoteInfo{}, fmt.Errorf("unrecognized remote URL %q", raw)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if host == "" || path == "" {
		return types.RemoteInfo{}, fmt.Errorf("remote URL %q has no host or path", raw)
	}

	info := types.RemoteInfo{
		Host: host,
		Path: path,
		Name: path,
		URL:  scheme + "://" + host + "/" + path,
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		info.Owner, info.Name = path[:i], path[i+1:]
	}
	return info, nil
}

// HTTPSURL rewrites a git remote URL into its anonymous HTTPS form,
// e.g. "git@host.com:org/repo.git" becomes "https://host.com/org/repo"
func HTTPSURL(remoteURL string) (string, error) {
	info, err := Parse(remoteURL)
	if err != nil {
		return "", err
	}
	return info.URL, nil
}
