// Package run drives a commit session end to end: collect changes,
// classify and group them, generate a message per group, resolve each
// group with the review policy, and commit accepted groups one at a
// time with an immediate push.
package run

import (
	"context"
	"errors"
	"fmt"

	"github.com/Buttje/aicheckin/internal/classify"
	"github.com/Buttje/aicheckin/internal/group"
	"github.com/Buttje/aicheckin/internal/logging"
	"github.com/Buttje/aicheckin/internal/models"
	"github.com/Buttje/aicheckin/internal/ui"
	"github.com/Buttje/aicheckin/internal/vcs"
)

// maxPreviewFiles caps the changed-file listing printed before grouping.
const maxPreviewFiles = 5

// ErrNoChanges is returned when the working copy has nothing to commit.
var ErrNoChanges = errors.New("no changes to commit")

// ErrAllDeclined is returned when every group was reviewed and declined.
var ErrAllDeclined = errors.New("all commit groups declined")

// CommitError reports a failed commit or push. Committed counts the
// groups already committed before the failure; those stay committed.
type CommitError struct {
	Group     *models.CommitGroup
	Committed int
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("committing %s group: %v", e.Group.Type, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// MessageSource produces the candidate commit message for a group.
type MessageSource interface {
	Message(ctx context.Context, g *models.CommitGroup) string
}

// ReviewPolicy resolves a pending group to accepted, edited, or
// declined, rewriting g.Message for edits.
type ReviewPolicy interface {
	Review(ctx context.Context, g *models.CommitGroup) error
}

// Summary is the outcome of a completed run.
type Summary struct {
	Committed []*models.CommitGroup
	Declined  []*models.CommitGroup
}

// Orchestrator wires the collaborators of one commit session.
type Orchestrator struct {
	VCS         vcs.Client
	Messages    MessageSource
	Review      ReviewPolicy
	Out         *ui.Printer
	SetUpstream bool
}

// Run executes the session. Groups are processed in commit-type
// priority order; each accepted group is staged, committed, and pushed
// before the next group is reviewed. A VCS failure stops the run and
// leaves earlier commits in place.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	log := logging.Get(ctx)

	changes, err := o.VCS.Changes()
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, ErrNoChanges
	}
	o.Out.Success("Found %d changed file%s", len(changes), plural(len(changes)))
	for i, ch := range changes {
		if i == maxPreviewFiles {
			o.Out.Info("... and %d more", len(changes)-maxPreviewFiles)
			break
		}
		o.Out.Info("%s %s", ch.Status, ch.Path)
	}

	statuses := make(map[string]models.ChangeStatus, len(changes))
	for i := range changes {
		statuses[changes[i].Path] = changes[i].Status
		diff, err := o.VCS.Diff(changes[i].Path)
		if err != nil {
			log.Warn().Err(err).Str("path", changes[i].Path).Msg("diff unavailable")
			continue
		}
		changes[i].Diff = diff
	}

	groups := group.Partition(classify.All(changes))
	o.Out.Info("Prepared %d commit group%s", len(groups), plural(len(groups)))

	summary := &Summary{}
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		g.Message = o.Messages.Message(ctx, g)
		if err := o.Review.Review(ctx, g); err != nil {
			return summary, err
		}
		if !g.Accepted() {
			o.Out.Warning("Declined %s group (%d file%s)", g.Type, len(g.Files), plural(len(g.Files)))
			summary.Declined = append(summary.Declined, g)
			continue
		}

		if err := o.commit(ctx, g, statuses); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return summary, err
			}
			return summary, &CommitError{Group: g, Committed: len(summary.Committed), Err: err}
		}
		summary.Committed = append(summary.Committed, g)
		o.Out.Success("Committed %s group: %s", g.Type, g.Message)
	}

	if len(summary.Committed) == 0 {
		return summary, ErrAllDeclined
	}
	return summary, nil
}

// commit stages, commits, and pushes one group. An interruption between
// staging and committing rolls the index back so nothing half-staged
// leaks into the next run.
func (o *Orchestrator) commit(ctx context.Context, g *models.CommitGroup, statuses map[string]models.ChangeStatus) error {
	if err := o.VCS.Stage(g.Files, statuses); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		if unstageErr := o.VCS.Unstage(g.Files); unstageErr != nil {
			logging.Get(ctx).Warn().Err(unstageErr).Msg("rollback failed")
		}
		return err
	}
	if err := o.VCS.Commit(g.Message, g.Files); err != nil {
		return err
	}
	return o.VCS.Push(o.SetUpstream)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
