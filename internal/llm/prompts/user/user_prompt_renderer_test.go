package user

import (
	"strings"
	"testing"

	"prassi/internal/llm/digest"
)

// assertOrder fails unless every fragment appears in prompt, in the given order
func assertOrder(t *testing.T, prompt string, fragments ...string) {
	t.Helper()
	pos := 0
	for _, f := range fragments {
		i := strings.Index(prompt[pos:], f)
		if i < 0 {
			t.Fatalf("fragment %q missing or out of order in:\n%s", f, prompt)
		}
		pos += i + len(f)
	}
}

func TestRenderUserPrompt_OriginMode(t *testing.T) {
	prompt, err := RenderUserPrompt("English", "diff --git a/main.go b/main.go\n+fmt.Println()\n", nil, "abc123 Add greeting\n")
	if err != nil {
		t.Fatalf("RenderUserPrompt() error = %v", err)
	}

	assertOrder(t, prompt,
		"Write your answer in English.",
		"```diff\ndiff --git a/main.go b/main.go\n+fmt.Println()\n```",
		"The commit log of these changes is as follows.\n\nabc123 Add greeting",
		"overview and a detailed explanation",
		"closes: #{issue_no}\nrelated: #{issue_no}",
	)
	if strings.Contains(prompt, "one-line summary") {
		t.Error("origin mode prompt should not contain a digest section")
	}
}

func TestRenderUserPrompt_DigestTestMode(t *testing.T) {
	digests := digest.Map{"tests/foo_test.py": "Covers the new parser"}

	prompt, err := RenderUserPrompt("Japanese", "+source change", digests, "abc123 Add parser")
	if err != nil {
		t.Fatalf("RenderUserPrompt() error = %v", err)
	}

	assertOrder(t, prompt,
		"Write your answer in Japanese.",
		"+source change",
		"In addition to the diff above",
		"tests/foo_test.py: Covers the new parser",
		"abc123 Add parser",
		"Write its description.",
	)
}

func TestRenderUserPrompt_DigestAllMode(t *testing.T) {
	digests := digest.Map{"b.go": "second", "a.go": "first"}

	prompt, err := RenderUserPrompt("English", "", digests, "abc123 Refactor")
	if err != nil {
		t.Fatalf("RenderUserPrompt() error = %v", err)
	}

	if strings.Contains(prompt, "```diff") || strings.Contains(prompt, "In addition to the diff above") {
		t.Errorf("digest_all prompt should not contain a diff section:\n%s", prompt)
	}
	assertOrder(t, prompt,
		"Write your answer in English.",
		"each changed file is given as a one-line summary",
		"a.go: first\nb.go: second",
		"abc123 Refactor",
	)
}

func TestRenderUserPrompt_Deterministic(t *testing.T) {
	digests := digest.Map{"z": "1", "y": "2", "x": "3"}
	first, _ := RenderUserPrompt("English", "d", digests, "log")
	for i := 0; i < 10; i++ {
		got, _ := RenderUserPrompt("English", "d", digests, "log")
		if got != first {
			t.Fatal("rendering is not deterministic")
		}
	}
}

func TestRenderUserPrompt_DiffOfMarkdownKeepsFenceOpen(t *testing.T) {
	diff := "diff --git a/README.md b/README.md\n ```sh\n-make\n+make test\n ```\n"

	prompt, err := RenderUserPrompt("English", diff, nil, "abc123 Document tests")
	if err != nil {
		t.Fatalf("RenderUserPrompt() error = %v", err)
	}

	assertOrder(t, prompt,
		"````diff\ndiff --git a/README.md b/README.md\n",
		"+make test\n ```\n````\n",
		"abc123 Document tests",
	)
}
