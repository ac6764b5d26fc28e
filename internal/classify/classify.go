// Package classify assigns a Conventional Commit type to each changed
// file using an ordered table of path and diff-content heuristics.
package classify

import (
	"path"
	"regexp"
	"strings"

	"github.com/Buttje/aicheckin/internal/diff"
	"github.com/Buttje/aicheckin/internal/models"
)

// Rule is one predicate in the classification table. Rules are evaluated
// in table order and the first match wins; ties never depend on content
// volume. Matching must not touch the network or the VCS.
type Rule struct {
	Name    string
	Type    models.CommitType
	Matches func(ch models.Change, st diff.Stats) bool
}

var (
	fixWords  = regexp.MustCompile(`(?i)\b(fix(e[ds])?|bug|error|issue|patch|hotfix)\b`)
	perfWords = regexp.MustCompile(`(?i)\b(perf(ormance)?|optimi[sz]e[ds]?|speed.?up)\b`)
	featWords = regexp.MustCompile(`(?i)\bfeat(ure)?\b`)
	declLine  = regexp.MustCompile(`(?i)^\s*(func |def |class |function |type \w+ (struct|interface)\b)`)

	docExts   = map[string]bool{".md": true, ".rst": true, ".txt": true, ".adoc": true}
	buildName = map[string]bool{
		"dockerfile": true, "docker-compose.yml": true, "makefile": true,
		"go.mod": true, "go.sum": true, "package.json": true,
		"package-lock.json": true, "pyproject.toml": true, "setup.py": true,
		"requirements.txt": true, "cargo.toml": true, "pom.xml": true,
		"build.gradle": true, "cmakelists.txt": true,
	}
	ciName = map[string]bool{
		".gitlab-ci.yml": true, ".travis.yml": true, "jenkinsfile": true,
		"azure-pipelines.yml": true, ".drone.yml": true,
	}
)

// rules is the fixed classification order. The table starts with path
// rules, follows with diff-content rules, and ends with the rearrangement
// check; anything left over is a chore.
var rules = []Rule{
	{Name: "test-path", Type: models.TypeTest, Matches: matchTestPath},
	{Name: "docs-path", Type: models.TypeDocs, Matches: matchDocsPath},
	{Name: "ci-path", Type: models.TypeCI, Matches: matchCIPath},
	{Name: "build-path", Type: models.TypeBuild, Matches: matchBuildPath},
	{Name: "whitespace-only", Type: models.TypeStyle, Matches: matchWhitespaceOnly},
	{Name: "fix-keywords", Type: models.TypeFix, Matches: matchFixKeywords},
	{Name: "perf-keywords", Type: models.TypePerf, Matches: matchPerfKeywords},
	{Name: "new-construct", Type: models.TypeFeat, Matches: matchNewConstruct},
	{Name: "rearrangement", Type: models.TypeRefactor, Matches: matchRearrangement},
}

// Classify maps a change to exactly one commit type. It is deterministic
// and total: the same path and diff always yield the same type, and
// chore is the default when no rule matches.
func Classify(ch models.Change) models.ClassifiedChange {
	st := diff.Parse(ch.Diff)
	for _, rule := range rules {
		if rule.Matches(ch, st) {
			return models.ClassifiedChange{Change: ch, Type: rule.Type, Rule: rule.Name}
		}
	}
	return models.ClassifiedChange{Change: ch, Type: models.TypeChore, Rule: "default"}
}

// All classifies every change, preserving input order.
func All(changes []models.Change) []models.ClassifiedChange {
	out := make([]models.ClassifiedChange, 0, len(changes))
	for _, ch := range changes {
		out = append(out, Classify(ch))
	}
	return out
}

func pathParts(p string) []string {
	return strings.Split(strings.ToLower(path.Clean(strings.ReplaceAll(p, "\\", "/"))), "/")
}

func matchTestPath(ch models.Change, _ diff.Stats) bool {
	parts := pathParts(ch.Path)
	base := parts[len(parts)-1]
	for _, dir := range parts[:len(parts)-1] {
		if dir == "test" || dir == "tests" || dir == "__tests__" || dir == "testdata" {
			return true
		}
	}
	return strings.HasPrefix(base, "test_") ||
		strings.Contains(base, "_test.") ||
		strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.")
}

func matchDocsPath(ch models.Change, _ diff.Stats) bool {
	parts := pathParts(ch.Path)
	base := parts[len(parts)-1]
	for _, dir := range parts[:len(parts)-1] {
		if dir == "docs" || dir == "doc" {
			return true
		}
	}
	return docExts[path.Ext(base)] || strings.HasPrefix(base, "readme") ||
		strings.HasPrefix(base, "changelog") || strings.HasPrefix(base, "license")
}

func matchCIPath(ch models.Change, _ diff.Stats) bool {
	parts := pathParts(ch.Path)
	base := parts[len(parts)-1]
	for _, dir := range parts[:len(parts)-1] {
		if dir == ".github" || dir == ".circleci" || dir == ".buildkite" {
			return true
		}
	}
	return ciName[base]
}

func matchBuildPath(ch models.Change, _ diff.Stats) bool {
	parts := pathParts(ch.Path)
	base := parts[len(parts)-1]
	return buildName[base] || path.Ext(base) == ".yml" || path.Ext(base) == ".yaml"
}

var whitespace = regexp.MustCompile(`\s+`)

func squash(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(whitespace.ReplaceAllString(line, ""))
	}
	return b.String()
}

// matchWhitespaceOnly detects formatting rewrites: the diff changes
// lines, but the non-whitespace content before and after is identical.
func matchWhitespaceOnly(_ models.Change, st diff.Stats) bool {
	if st.Empty() {
		return false
	}
	minus, plus := squash(st.Removed), squash(st.Added)
	if len(st.Removed) > 0 && len(st.Added) > 0 && minus == plus {
		return true
	}
	return minus == "" && plus == ""
}

func matchFixKeywords(_ models.Change, st diff.Stats) bool {
	for _, line := range st.Added {
		if fixWords.MatchString(line) {
			return true
		}
	}
	return false
}

func matchPerfKeywords(_ models.Change, st diff.Stats) bool {
	for _, line := range st.Added {
		if perfWords.MatchString(line) {
			return true
		}
	}
	return false
}

// matchNewConstruct looks for a new top-level declaration dominating the
// diff: at least one added function/class/type line and more additions
// than deletions overall. An explicit "feat" keyword also counts.
func matchNewConstruct(_ models.Change, st diff.Stats) bool {
	for _, line := range st.Added {
		if featWords.MatchString(line) {
			return true
		}
	}
	decls := 0
	for _, line := range st.Added {
		if declLine.MatchString(line) {
			decls++
		}
	}
	return decls > 0 && len(st.Added) > len(st.Removed)
}

// matchRearrangement treats a diff as a refactor when it introduces no
// net new logic: every added line already occurs among the removed
// lines (modulo whitespace), or the diff only removes lines.
func matchRearrangement(_ models.Change, st diff.Stats) bool {
	if st.Empty() {
		return false
	}
	if len(st.Added) == 0 {
		return len(st.Removed) > 0
	}
	removed := make(map[string]bool, len(st.Removed))
	for _, line := range st.Removed {
		removed[whitespace.ReplaceAllString(line, "")] = true
	}
	for _, line := range st.Added {
		norm := whitespace.ReplaceAllString(line, "")
		if norm == "" {
			continue
		}
		if !removed[norm] {
			return false
		}
	}
	return true
}
