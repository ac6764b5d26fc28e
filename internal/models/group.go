package models

import "fmt"

// Disposition is the operator's decision on a commit group.
type Disposition string

const (
	DispositionPending  Disposition = "pending"
	DispositionAccepted Disposition = "accepted"
	DispositionEdited   Disposition = "edited"
	DispositionDeclined Disposition = "declined"
)

// CommitGroup is a set of same-type changes committed together as one
// unit. Files keeps classification order. Message starts empty and is
// filled during generation and review.
type CommitGroup struct {
	Type        CommitType
	Files       []string
	Diffs       map[string]string
	Message     string
	disposition Disposition
}

// NewCommitGroup creates a pending group for the given type. Files and
// diffs are filled by the grouper.
func NewCommitGroup(t CommitType) *CommitGroup {
	return &CommitGroup{
		Type:        t,
		Diffs:       make(map[string]string),
		disposition: DispositionPending,
	}
}

// Disposition returns the group's current disposition.
func (g *CommitGroup) Disposition() Disposition {
	if g.disposition == "" {
		return DispositionPending
	}
	return g.disposition
}

// Resolve moves the group out of the pending state. The transition is
// write-once: resolving an already resolved group, or resolving back to
// pending, is an error.
func (g *CommitGroup) Resolve(d Disposition) error {
	if d == DispositionPending || d == "" {
		return fmt.Errorf("cannot resolve group to %q", d)
	}
	if current := g.Disposition(); current != DispositionPending {
		return fmt.Errorf("group already resolved as %q", current)
	}
	g.disposition = d
	return nil
}

// Accepted reports whether the group was accepted, with or without edits.
func (g *CommitGroup) Accepted() bool {
	d := g.Disposition()
	return d == DispositionAccepted || d == DispositionEdited
}
