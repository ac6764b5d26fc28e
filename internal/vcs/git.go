package vcs

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Buttje/aicheckin/internal/models"
)

// Git is the git working-copy adapter. All operations shell out to the
// git executable with the repository root as working directory.
type Git struct {
	root string
}

func NewGit(root string) *Git {
	return &Git{root: root}
}

func (g *Git) Kind() Kind   { return KindGit }
func (g *Git) Root() string { return g.root }

func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &OperationError{
			Cmd:    "git " + strings.Join(args, " "),
			Output: strings.TrimSpace(string(out)),
			Err:    err,
		}
	}
	return string(out), nil
}

// Changes lists modified, added, deleted, and renamed files from
// `git status --porcelain`. Untracked files are excluded; for renames
// the new path is reported.
func (g *Git) Changes() ([]models.Change, error) {
	out, err := g.run("status", "--porcelain")
	if err != nil {
		return nil, err
	}

	var changes []models.Change
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		code := line[:2]
		path := line[3:]
		if code == "??" {
			continue
		}

		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+4:]
		}

		status := strings.TrimSpace(code)
		if status == "" {
			continue
		}
		changes = append(changes, models.Change{
			Path:   path,
			Status: models.ChangeStatus(status[:1]),
		})
	}
	return changes, nil
}

// Diff returns the unified diff for one file against HEAD. Freshly
// staged additions in a repository without commits only show up in the
// index, so the index diff is the fallback.
func (g *Git) Diff(path string) (string, error) {
	out, err := g.run("diff", "HEAD", "--", path)
	if err == nil && strings.TrimSpace(out) != "" {
		return out, nil
	}
	cached, cachedErr := g.run("diff", "--cached", "--", path)
	if cachedErr != nil {
		if err != nil {
			return "", err
		}
		return out, nil
	}
	if strings.TrimSpace(cached) != "" {
		return cached, nil
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

// Stage adds or removes exactly the given paths in the index. Files
// that no longer exist on disk are staged as deletions.
func (g *Git) Stage(paths []string, _ map[string]models.ChangeStatus) error {
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(g.root, p)); err == nil {
			if _, err := g.run("add", "--", p); err != nil {
				return err
			}
			continue
		}
		if _, err := g.run("rm", "--cached", "--ignore-unmatch", "--", p); err != nil {
			return err
		}
	}
	return nil
}

// Unstage rolls the given paths back out of the index, leaving the
// working tree untouched. Used when a run is interrupted between
// staging and committing.
func (g *Git) Unstage(paths []string) error {
	args := append([]string{"reset", "-q", "HEAD", "--"}, paths...)
	_, err := g.run(args...)
	return err
}

// Commit commits the index with the given message. The staged paths
// determine content, so the explicit path list is ignored here.
func (g *Git) Commit(message string, _ []string) error {
	_, err := g.run("commit", "-m", message)
	return err
}

// Push pushes the current branch to origin, retrying once on failure.
// Repositories without a configured remote are skipped silently: there
// is nowhere to synchronize to.
func (g *Git) Push(setUpstream bool) error {
	if !g.hasRemote() {
		return nil
	}

	push := func() error {
		if setUpstream {
			branch, err := g.CurrentBranch()
			if err != nil {
				return err
			}
			_, err = g.run("push", "--set-upstream", "origin", branch)
			return err
		}
		_, err := g.run("push")
		return err
	}

	if err := push(); err != nil {
		return push()
	}
	return nil
}

func (g *Git) hasRemote() bool {
	out, err := g.run("remote")
	return err == nil && strings.TrimSpace(out) != ""
}

func (g *Git) CurrentBranch() (string, error) {
	out, err := g.run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (g *Git) BranchExists(name string) bool {
	out, err := g.run("branch", "--list", name)
	return err == nil && strings.TrimSpace(out) != ""
}

// CreateBranch creates and switches to a new branch.
func (g *Git) CreateBranch(name string) error {
	_, err := g.run("checkout", "-b", name)
	return err
}
