// Package group partitions classified changes into commit groups.
package group

import "github.com/Buttje/aicheckin/internal/models"

// Partition builds one commit group per commit type present in the
// input. Within a group, files keep classification order; groups are
// emitted in the fixed type priority order so behaviorally significant
// commits come up for review first. Every change lands in exactly one
// group and no group is ever empty.
func Partition(classified []models.ClassifiedChange) []*models.CommitGroup {
	byType := make(map[models.CommitType]*models.CommitGroup)
	for _, cc := range classified {
		g, ok := byType[cc.Type]
		if !ok {
			g = models.NewCommitGroup(cc.Type)
			byType[cc.Type] = g
		}
		g.Files = append(g.Files, cc.Change.Path)
		g.Diffs[cc.Change.Path] = cc.Change.Diff
	}

	groups := make([]*models.CommitGroup, 0, len(byType))
	for _, t := range models.TypePriority {
		if g, ok := byType[t]; ok {
			groups = append(groups, g)
		}
	}
	return groups
}
