package message

import (
	"fmt"
	"strings"

	"github.com/Buttje/aicheckin/internal/models"
)

// DiffBudget caps the total diff excerpt characters included in one
// prompt. When a group exceeds it, the largest excerpts are truncated
// first so small diffs survive intact.
const DiffBudget = 12000

// BuildPrompt renders the model prompt for a commit group: the target
// type, the file list, budgeted diff excerpts, and the instruction to
// answer with nothing but the commit message. Pure and reproducible for
// identical group contents.
func BuildPrompt(g *models.CommitGroup) string {
	excerpts := budgetExcerpts(g)

	var b strings.Builder
	b.WriteString("You are an expert software engineer writing commit messages.\n")
	fmt.Fprintf(&b, "Write a Conventional Commit message for a %q commit covering the changes below.\n\n", g.Type)
	b.WriteString("FORMAT:\n")
	fmt.Fprintf(&b, "Line 1: %s: <brief description, max 10 words>\n", g.Type)
	b.WriteString("Line 2: blank\n")
	b.WriteString("Following lines: what changed, why, and how behavior is affected.\n\n")
	b.WriteString("FILES:\n")
	for _, f := range g.Files {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("\nCHANGES:\n")
	for i, f := range g.Files {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "File: %s\n", f)
		if excerpts[i] == "" {
			b.WriteString("(no diff available)\n")
			continue
		}
		b.WriteString(excerpts[i])
		if !strings.HasSuffix(excerpts[i], "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("\nRespond with only the final commit message. ")
	b.WriteString("Do not include explanations, markdown fences, or <think> style reasoning tags.\n")
	return b.String()
}

// budgetExcerpts returns one diff excerpt per file in g.Files order,
// trimmed so their combined length fits DiffBudget. Truncation always
// starts with the currently largest excerpt (first on ties), which
// keeps the procedure deterministic.
func budgetExcerpts(g *models.CommitGroup) []string {
	excerpts := make([]string, len(g.Files))
	sizes := make([]int, len(g.Files))
	total := 0
	for i, f := range g.Files {
		excerpts[i] = g.Diffs[f]
		sizes[i] = len(excerpts[i])
		total += sizes[i]
	}

	for total > DiffBudget {
		largest := 0
		for i := range sizes {
			if sizes[i] > sizes[largest] {
				largest = i
			}
		}

		// Cut the largest down to the runner-up's size, or straight to
		// the remaining overflow if that already suffices.
		second := 0
		for i := range sizes {
			if i != largest && sizes[i] > second {
				second = sizes[i]
			}
		}
		target := sizes[largest] - (total - DiffBudget)
		if second > target && second < sizes[largest] {
			target = second
		}
		if target < 0 {
			target = 0
		}

		total -= sizes[largest] - target
		sizes[largest] = target
	}

	for i := range excerpts {
		excerpts[i] = truncate(excerpts[i], sizes[i])
	}
	return excerpts
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	// Break on a line boundary when one is reasonably close.
	if i := strings.LastIndexByte(cut, '\n'); i > n/2 {
		cut = cut[:i]
	}
	return cut + "\n[diff truncated]"
}
