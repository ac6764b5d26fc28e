// Package testutil provides throwaway git repositories for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TempGitRepo is a real git repository in a test temp directory with a
// configured user and an initial commit.
type TempGitRepo struct {
	Path string
	t    *testing.T
}

// NewTempGitRepo initializes a repository and seeds it with one commit
// so HEAD exists. Cleanup is handled by t.TempDir.
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	repo := &TempGitRepo{Path: t.TempDir(), t: t}
	repo.Git("init", "-b", "main")
	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "user.email", "test@example.com")
	repo.Git("config", "commit.gpgsign", "false")

	repo.WriteFile("README.md", "# test repository\n")
	repo.Git("add", ".")
	repo.Git("commit", "-m", "initial commit")
	return repo
}

// Git runs a git command in the repository and fails the test on error.
func (r *TempGitRepo) Git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// WriteFile creates or overwrites a file, creating parent directories.
func (r *TempGitRepo) WriteFile(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", name, err)
	}
}

// Remove deletes a file from the working tree.
func (r *TempGitRepo) Remove(name string) {
	r.t.Helper()
	if err := os.Remove(filepath.Join(r.Path, name)); err != nil {
		r.t.Fatalf("remove %s: %v", name, err)
	}
}

// Commit stages everything and commits.
func (r *TempGitRepo) Commit(message string) {
	r.t.Helper()
	r.Git("add", ".")
	r.Git("commit", "-m", message)
}

// StagedFiles returns the paths currently in the index diff.
func (r *TempGitRepo) StagedFiles() []string {
	r.t.Helper()
	out := strings.TrimSpace(r.Git("diff", "--cached", "--name-only"))
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// CommitMessages returns all commit subjects, newest first.
func (r *TempGitRepo) CommitMessages() []string {
	r.t.Helper()
	out := strings.TrimSpace(r.Git("log", "--format=%s"))
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// AddBareRemote wires a local bare repository as origin so pushes have
// somewhere to go.
func (r *TempGitRepo) AddBareRemote() string {
	r.t.Helper()
	bare := r.t.TempDir()
	cmd := exec.Command("git", "init", "--bare", bare)
	if out, err := cmd.CombinedOutput(); err != nil {
		r.t.Fatalf("git init --bare: %v\n%s", err, out)
	}
	r.Git("remote", "add", "origin", bare)
	return bare
}
