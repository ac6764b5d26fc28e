// Package vcs provides the version-control adapters the commit
// orchestrator drives. Two kinds are supported, git and svn; callers
// depend only on the Client interface.
package vcs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Buttje/aicheckin/internal/models"
)

// Kind identifies a supported version control system.
type Kind string

const (
	KindGit Kind = "git"
	KindSVN Kind = "svn"
)

// ErrNoRepository is returned when no supported repository encloses the
// working directory, or detection is ambiguous.
var ErrNoRepository = errors.New("no git or svn repository found")

// OperationError wraps a failed VCS command together with its output.
type OperationError struct {
	Cmd    string
	Output string
	Err    error
}

func (e *OperationError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed: %s", e.Cmd, e.Output)
	}
	return fmt.Sprintf("%s failed: %v", e.Cmd, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Client is the capability surface the orchestrator needs from a
// working copy. Stage receives the per-file statuses because svn
// schedules adds and deletes rather than staging content; the git
// variant ignores them. Push is a no-op for VCS kinds without a remote
// concept.
type Client interface {
	Kind() Kind
	Root() string
	Changes() ([]models.Change, error)
	Diff(path string) (string, error)
	Stage(paths []string, statuses map[string]models.ChangeStatus) error
	Unstage(paths []string) error
	Commit(message string, paths []string) error
	Push(setUpstream bool) error
	CurrentBranch() (string, error)
	BranchExists(name string) bool
	CreateBranch(name string) error
}

// FindRoot walks up from start looking for a directory containing
// marker (".git" or ".svn") and returns the enclosing root.
func FindRoot(start, marker string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Detect locates the repository enclosing start. Finding both git and
// svn metadata is ambiguous and treated the same as finding nothing.
func Detect(start string) (Client, error) {
	gitRoot, hasGit := FindRoot(start, ".git")
	svnRoot, hasSVN := FindRoot(start, ".svn")

	switch {
	case hasGit && hasSVN:
		return nil, fmt.Errorf("both git and svn metadata found: %w", ErrNoRepository)
	case hasGit:
		return NewGit(gitRoot), nil
	case hasSVN:
		return NewSVN(svnRoot), nil
	default:
		return nil, ErrNoRepository
	}
}

// ForKind locates a repository of the forced kind, for the --vcs flag.
func ForKind(kind Kind, start string) (Client, error) {
	switch kind {
	case KindGit:
		if root, ok := FindRoot(start, ".git"); ok {
			return NewGit(root), nil
		}
		return nil, fmt.Errorf("not inside a git repository: %w", ErrNoRepository)
	case KindSVN:
		if root, ok := FindRoot(start, ".svn"); ok {
			return NewSVN(root), nil
		}
		return nil, fmt.Errorf("not inside an svn working copy: %w", ErrNoRepository)
	default:
		return nil, fmt.Errorf("unsupported vcs kind %q", kind)
	}
}
