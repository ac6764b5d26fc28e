package vcs

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/Buttje/aicheckin/internal/models"
)

// SVN is the Subversion working-copy adapter. There is no index: Stage
// schedules additions and deletions, modified files need no staging,
// and commits are sent straight to the server, so Push is a no-op.
type SVN struct {
	root string
}

func NewSVN(root string) *SVN {
	return &SVN{root: root}
}

func (s *SVN) Kind() Kind   { return KindSVN }
func (s *SVN) Root() string { return s.root }

func (s *SVN) run(args ...string) (string, error) {
	cmd := exec.Command("svn", args...)
	cmd.Dir = s.root
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &OperationError{
			Cmd:    "svn " + strings.Join(args, " "),
			Output: strings.TrimSpace(string(out)),
			Err:    err,
		}
	}
	return string(out), nil
}

func (s *SVN) Changes() ([]models.Change, error) {
	out, err := s.run("status")
	if err != nil {
		return nil, err
	}
	return parseSVNStatus(out), nil
}

// parseSVNStatus reads `svn status` output. Unversioned (?) and
// ignored (I) entries are excluded; anything that is not an addition,
// deletion, or replacement counts as modified.
func parseSVNStatus(out string) []models.Change {
	var changes []models.Change
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 9 {
			continue
		}
		code := line[0]
		path := strings.TrimSpace(line[8:])
		if path == "" || code == '?' || code == 'I' {
			continue
		}

		var status models.ChangeStatus
		switch code {
		case 'A':
			status = models.StatusAdded
		case 'D':
			status = models.StatusDeleted
		case 'R':
			status = models.StatusRenamed
		default:
			status = models.StatusModified
		}
		changes = append(changes, models.Change{Path: path, Status: status})
	}
	return changes
}

func (s *SVN) Diff(path string) (string, error) {
	return s.run("diff", "--", path)
}

// Stage schedules additions and deletions based on each file's status.
// Modified files are committed without scheduling.
func (s *SVN) Stage(paths []string, statuses map[string]models.ChangeStatus) error {
	for _, p := range paths {
		switch statuses[p] {
		case models.StatusAdded:
			if _, err := s.run("add", "--force", "--", p); err != nil {
				return err
			}
		case models.StatusDeleted:
			if _, err := s.run("delete", "--", p); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unstage is a no-op: svn has no staging area to roll back.
func (s *SVN) Unstage([]string) error {
	return nil
}

// Commit sends exactly the given paths to the server.
func (s *SVN) Commit(message string, paths []string) error {
	if len(paths) == 0 {
		return &OperationError{Cmd: "svn commit", Err: fmt.Errorf("empty file list")}
	}
	args := append([]string{"commit", "-m", message, "--"}, paths...)
	_, err := s.run(args...)
	return err
}

// Push is a no-op: svn commits are already on the server.
func (s *SVN) Push(bool) error {
	return nil
}

func (s *SVN) CurrentBranch() (string, error) {
	out, err := s.run("info", "--show-item", "url")
	if err != nil {
		return "", err
	}
	return branchFromURL(strings.TrimSpace(out)), nil
}

// branchFromURL maps a working-copy URL onto the conventional
// trunk/branches/tags layout.
func branchFromURL(url string) string {
	switch {
	case strings.HasSuffix(url, "/trunk"), strings.Contains(url, "/trunk/"):
		return "trunk"
	case strings.Contains(url, "/branches/"):
		return strings.SplitN(url[strings.Index(url, "/branches/")+len("/branches/"):], "/", 2)[0]
	case strings.Contains(url, "/tags/"):
		return strings.SplitN(url[strings.Index(url, "/tags/")+len("/tags/"):], "/", 2)[0]
	default:
		parts := strings.Split(strings.TrimRight(url, "/"), "/")
		return parts[len(parts)-1]
	}
}

func (s *SVN) repositoryRoot() (string, error) {
	out, err := s.run("info", "--show-item", "repos-root-url")
	if err != nil {
		return "", err
	}
	root := strings.TrimSpace(out)
	if root == "" {
		return "", &OperationError{Cmd: "svn info", Err: fmt.Errorf("repository root URL not found")}
	}
	return root, nil
}

func (s *SVN) BranchExists(name string) bool {
	root, err := s.repositoryRoot()
	if err != nil {
		return false
	}
	out, err := s.run("ls", strings.TrimRight(root, "/")+"/branches/"+name)
	return err == nil && strings.TrimSpace(out) != ""
}

// CreateBranch copies the working-copy URL to branches/<name> on the
// server and switches to it.
func (s *SVN) CreateBranch(name string) error {
	root, err := s.repositoryRoot()
	if err != nil {
		return err
	}
	out, err := s.run("info", "--show-item", "url")
	if err != nil {
		return err
	}
	current := strings.TrimSpace(out)
	target := strings.TrimRight(root, "/") + "/branches/" + name

	if _, err := s.run("copy", current, target, "-m", "Create branch "+name); err != nil {
		return err
	}
	_, err = s.run("switch", target)
	return err
}
