package models

// ChangeStatus is the single-letter state a VCS reports for a changed file.
type ChangeStatus string

const (
	StatusAdded    ChangeStatus = "A"
	StatusModified ChangeStatus = "M"
	StatusDeleted  ChangeStatus = "D"
	StatusRenamed  ChangeStatus = "R"
)

// Change represents one modified file in the working copy. Diff holds the
// unified diff relative to HEAD/BASE and may be empty for binary files.
type Change struct {
	Path   string
	Status ChangeStatus
	Diff   string
}

// CommitType is a Conventional Commit type label.
type CommitType string

const (
	TypeFeat     CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypeDocs     CommitType = "docs"
	TypeStyle    CommitType = "style"
	TypeRefactor CommitType = "refactor"
	TypePerf     CommitType = "perf"
	TypeTest     CommitType = "test"
	TypeBuild    CommitType = "build"
	TypeCI       CommitType = "ci"
	TypeChore    CommitType = "chore"
	TypeRevert   CommitType = "revert"
)

// TypePriority is the order commit groups are presented for review and
// committed, so that behaviorally significant changes surface first.
var TypePriority = []CommitType{
	TypeFeat,
	TypeFix,
	TypeDocs,
	TypeStyle,
	TypeRefactor,
	TypePerf,
	TypeTest,
	TypeBuild,
	TypeCI,
	TypeChore,
	TypeRevert,
}

// Valid reports whether t is one of the known Conventional Commit types.
func (t CommitType) Valid() bool {
	for _, known := range TypePriority {
		if t == known {
			return true
		}
	}
	return false
}

// ClassifiedChange pairs a change with the commit type assigned to it and
// the name of the heuristic rule that matched, for diagnostics.
type ClassifiedChange struct {
	Change Change
	Type   CommitType
	Rule   string
}
