package local

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// newTestRepo creates a repository with one commit on main and a checked-out feature branch
func newTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(dir, ".gitconfig-none"))
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	write := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	run("init", "-q")
	run("symbolic-ref", "HEAD", "refs/heads/main")
	write("main.go", "package main\n")
	run("add", ".")
	run("commit", "-q", "-m", "Initial commit")

	run("checkout", "-q", "-b", "feature")
	write("main.go", "package main\n\nfunc main() {}\n")
	write("tests/main_test.go", "package main\n")
	run("add", ".")
	run("commit", "-q", "-m", "Add main and tests (closes #7)")
	run("remote", "add", "origin", "git@github.com:example/project.git")

	return dir
}

// commitFile writes name on the checked-out branch of dir and commits it
func commitFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{{"add", "--", name}, {"commit", "-q", "-m", "Add " + name}} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
}

func TestRepository(t *testing.T) {
	dir := newTestRepo(t)
	repo := New(dir)
	ctx := context.Background()

	t.Run("Log", func(t *testing.T) {
		log, err := repo.Log(ctx, "main")
		if err != nil {
			t.Fatalf("Log() error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(log), "\n")
		if len(lines) != 1 || !strings.HasSuffix(lines[0], "Add main and tests (closes #7)") {
			t.Errorf("Log() = %q", log)
		}
	})

	t.Run("DiffFiles", func(t *testing.T) {
		files, err := repo.DiffFiles(ctx, "main")
		if err != nil {
			t.Fatalf("DiffFiles() error = %v", err)
		}
		if want := []string{"main.go", "tests/main_test.go"}; !reflect.DeepEqual(files, want) {
			t.Errorf("DiffFiles() = %v, want %v", files, want)
		}
	})

	t.Run("Diff all and by path", func(t *testing.T) {
		all, err := repo.Diff(ctx, "main")
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if !strings.Contains(all, "+func main() {}") || !strings.Contains(all, "tests/main_test.go") {
			t.Errorf("Diff() missing changes:\n%s", all)
		}

		one, err := repo.Diff(ctx, "main", "tests/main_test.go")
		if err != nil {
			t.Fatalf("Diff(path) error = %v", err)
		}
		if strings.Contains(one, "main.go b/main.go") || !strings.Contains(one, "tests/main_test.go") {
			t.Errorf("Diff(path) not limited to path:\n%s", one)
		}
	})

	t.Run("RemoteURL", func(t *testing.T) {
		url, err := repo.RemoteURL(ctx)
		if err != nil {
			t.Fatalf("RemoteURL() error = %v", err)
		}
		if url != "git@github.com:example/project.git" {
			t.Errorf("RemoteURL() = %q", url)
		}
	})

	t.Run("CurrentBranch", func(t *testing.T) {
		branch, err := repo.CurrentBranch(ctx)
		if err != nil {
			t.Fatalf("CurrentBranch() error = %v", err)
		}
		if branch != "feature" {
			t.Errorf("CurrentBranch() = %q, want feature", branch)
		}
	})
}

func TestRepository_UnknownBase(t *testing.T) {
	dir := newTestRepo(t)

	_, err := New(dir).DiffFiles(context.Background(), "does-not-exist")
	if err == nil {
		t.Fatal("expected error for unknown base")
	}
	if !strings.Contains(err.Error(), "git diff") {
		t.Errorf("error should name the git command: %v", err)
	}
}

func TestRepository_NonASCIIAndSpecialPaths(t *testing.T) {
	dir := newTestRepo(t)
	commitFile(t, dir, "テスト.go", "package main\n\nvar greeting = \"こんにちは\"\n")
	commitFile(t, dir, "with space*.txt", "glob characters\n")
	repo := New(dir)
	ctx := context.Background()

	files, err := repo.DiffFiles(ctx, "main")
	if err != nil {
		t.Fatalf("DiffFiles() error = %v", err)
	}
	want := []string{"main.go", "tests/main_test.go", "with space*.txt", "テスト.go"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("DiffFiles() = %q, want %q", files, want)
	}

	diff, err := repo.Diff(ctx, "main", "テスト.go")
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if !strings.Contains(diff, "+var greeting") || strings.Contains(diff, "main.go b/main.go") {
		t.Errorf("Diff(テスト.go) = %q", diff)
	}

	diff, err = repo.Diff(ctx, "main", "with space*.txt")
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if !strings.Contains(diff, "+glob characters") {
		t.Errorf("Diff(with space*.txt) = %q", diff)
	}
}

func TestRepository_ErrorWrapsExitError(t *testing.T) {
	dir := newTestRepo(t)

	_, err := New(dir).Diff(context.Background(), "does-not-exist")
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want a wrapped *exec.ExitError", err)
	}
	if exitErr.ExitCode() == 0 {
		t.Errorf("ExitCode() = 0")
	}
}
