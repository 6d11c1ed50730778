package types

// RemoteInfo describes the hosting location of a repository, derived from its origin URL
type RemoteInfo struct {
	Host  string // e.g. "github.com"
	Path  string // e.g. "org/group/repo", without ".git"
	Owner string // everything before the last path segment
	Name  string // last path segment
	URL   string // anonymous HTTPS URL, e.g. "https://github.com/org/repo"
}

// PublishRequest is a generated description to attach to the pull request of a branch
type PublishRequest struct {
	Remote     RemoteInfo
	HeadBranch string
	BaseBranch string // empty or "HEAD" means the repository default branch
	Title      string
	Body       string
}

// PullRequest identifies a pull request (GitHub) or merge request (GitLab)
type PullRequest struct {
	Number  int64
	URL     string
	Created bool // false when an existing request was updated
}
