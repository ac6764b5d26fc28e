package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Buttje/aicheckin/internal/models"
	"github.com/Buttje/aicheckin/internal/ui"
	"github.com/Buttje/aicheckin/internal/vcs"
)

// fakeVCS records the operations the orchestrator performs.
type fakeVCS struct {
	changes    []models.Change
	changesErr error
	diffs      map[string]string

	staged    [][]string
	unstaged  [][]string
	commits   []string
	pushes    int
	commitErr map[string]error
}

func (f *fakeVCS) Kind() vcs.Kind { return vcs.KindGit }
func (f *fakeVCS) Root() string   { return "/repo" }

func (f *fakeVCS) Changes() ([]models.Change, error) {
	return f.changes, f.changesErr
}

func (f *fakeVCS) Diff(path string) (string, error) {
	return f.diffs[path], nil
}

func (f *fakeVCS) Stage(paths []string, _ map[string]models.ChangeStatus) error {
	f.staged = append(f.staged, paths)
	return nil
}

func (f *fakeVCS) Unstage(paths []string) error {
	f.unstaged = append(f.unstaged, paths)
	return nil
}

func (f *fakeVCS) Commit(message string, _ []string) error {
	if err := f.commitErr[message]; err != nil {
		return err
	}
	f.commits = append(f.commits, message)
	return nil
}

func (f *fakeVCS) Push(bool) error {
	f.pushes++
	return nil
}

func (f *fakeVCS) CurrentBranch() (string, error) { return "main", nil }
func (f *fakeVCS) BranchExists(string) bool       { return false }
func (f *fakeVCS) CreateBranch(string) error      { return nil }

// typedMessages produces a deterministic message per group type.
type typedMessages struct{}

func (typedMessages) Message(_ context.Context, g *models.CommitGroup) string {
	return fmt.Sprintf("%s: update %s", g.Type, g.Files[0])
}

// scriptedReview resolves groups with a canned disposition sequence.
type scriptedReview struct {
	dispositions []models.Disposition
}

func (s *scriptedReview) Review(_ context.Context, g *models.CommitGroup) error {
	d := s.dispositions[0]
	s.dispositions = s.dispositions[1:]
	return g.Resolve(d)
}

func specChanges() ([]models.Change, map[string]string) {
	changes := []models.Change{
		{Path: "src/a.py", Status: models.StatusModified},
		{Path: "README.md", Status: models.StatusModified},
		{Path: "tests/test_a.py", Status: models.StatusModified},
	}
	diffs := map[string]string{
		"src/a.py":        "+fix bug in parser\n",
		"README.md":       "+usage notes\n",
		"tests/test_a.py": "+def test_parser(): pass\n",
	}
	return changes, diffs
}

func newOrchestrator(f *fakeVCS, review ReviewPolicy) *Orchestrator {
	return &Orchestrator{
		VCS:      f,
		Messages: typedMessages{},
		Review:   review,
		Out:      ui.New(io.Discard),
	}
}

func TestRunAutoAcceptCommitsInPriorityOrder(t *testing.T) {
	changes, diffs := specChanges()
	f := &fakeVCS{changes: changes, diffs: diffs}

	summary, err := newOrchestrator(f, AutoAccept{}).Run(context.Background())

	require.NoError(t, err)
	require.Len(t, summary.Committed, 3)
	assert.Equal(t, []string{
		"fix: update src/a.py",
		"docs: update README.md",
		"test: update tests/test_a.py",
	}, f.commits)
	assert.Equal(t, 3, f.pushes, "each commit is pushed immediately")
	assert.Empty(t, summary.Declined)
}

func TestRunNoChanges(t *testing.T) {
	f := &fakeVCS{}

	_, err := newOrchestrator(f, AutoAccept{}).Run(context.Background())

	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Empty(t, f.staged)
}

func TestRunChangesError(t *testing.T) {
	wantErr := &vcs.OperationError{Cmd: "git status", Err: errors.New("boom")}
	f := &fakeVCS{changesErr: wantErr}

	_, err := newOrchestrator(f, AutoAccept{}).Run(context.Background())

	var opErr *vcs.OperationError
	assert.ErrorAs(t, err, &opErr)
}

func TestRunAllDeclined(t *testing.T) {
	changes, diffs := specChanges()
	f := &fakeVCS{changes: changes, diffs: diffs}
	review := &scriptedReview{dispositions: []models.Disposition{
		models.DispositionDeclined,
		models.DispositionDeclined,
		models.DispositionDeclined,
	}}

	summary, err := newOrchestrator(f, review).Run(context.Background())

	assert.ErrorIs(t, err, ErrAllDeclined)
	assert.Empty(t, f.commits)
	assert.Empty(t, f.staged, "declined groups are never staged")
	assert.Len(t, summary.Declined, 3)
}

func TestRunMixedDispositions(t *testing.T) {
	changes, diffs := specChanges()
	f := &fakeVCS{changes: changes, diffs: diffs}
	review := &scriptedReview{dispositions: []models.Disposition{
		models.DispositionAccepted,
		models.DispositionDeclined,
		models.DispositionEdited,
	}}

	summary, err := newOrchestrator(f, review).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, summary.Committed, 2)
	assert.Len(t, summary.Declined, 1)
	assert.Equal(t, []string{
		"fix: update src/a.py",
		"test: update tests/test_a.py",
	}, f.commits)
}

func TestRunCommitFailureStopsRun(t *testing.T) {
	changes, diffs := specChanges()
	f := &fakeVCS{
		changes: changes,
		diffs:   diffs,
		commitErr: map[string]error{
			"docs: update README.md": errors.New("hook rejected commit"),
		},
	}

	summary, err := newOrchestrator(f, AutoAccept{}).Run(context.Background())

	var commitErr *CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, models.TypeDocs, commitErr.Group.Type)
	assert.Equal(t, 1, commitErr.Committed)

	assert.Equal(t, []string{"fix: update src/a.py"}, f.commits,
		"earlier commit stays, later group is not attempted")
	require.Len(t, summary.Committed, 1)
	assert.Equal(t, 1, f.pushes)
}

// cancellingReview cancels the context after accepting, simulating an
// interrupt arriving between review and commit.
type cancellingReview struct {
	cancel context.CancelFunc
}

func (c *cancellingReview) Review(_ context.Context, g *models.CommitGroup) error {
	c.cancel()
	return g.Resolve(models.DispositionAccepted)
}

func TestRunInterruptRollsBackStagedFiles(t *testing.T) {
	changes, diffs := specChanges()
	f := &fakeVCS{changes: changes, diffs: diffs}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := newOrchestrator(f, &cancellingReview{cancel: cancel}).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.commits)
	require.Len(t, f.staged, 1)
	assert.Equal(t, f.staged, f.unstaged, "staged files are rolled back")
}
