package formatting

import (
	"strings"

	"prassi/internal/llm/digest"
)

// FormatDigests renders one "path: summary" line per digest, sorted by path
func FormatDigests(digests digest.Map) string {
	if len(digests) == 0 {
		return ""
	}

	var result strings.Builder
	for _, path := range digests.Paths() {
		// a summary is one line; keep it that way even if the model wrapped it
		summary := strings.Join(strings.Fields(digests[path]), " ")
		result.WriteString(path + ": " + summary + "\n")
	}
	return strings.TrimRight(result.String(), "\n")
}

// FormatCommitLog normalizes `git log --oneline` output: trailing whitespace and blank lines are dropped
func FormatCommitLog(log string) string {
	var lines []string
	for _, line := range strings.Split(log, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// CodeFence returns a backtick fence that content cannot close: at least three backticks
// and one more than the longest backtick run in content
func CodeFence(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
