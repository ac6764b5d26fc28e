// Package diff extracts changed-line content from unified diffs.
package diff

import (
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// Stats holds the changed lines of a single file's unified diff, with the
// +/- prefixes stripped. Context lines and diff headers are excluded.
type Stats struct {
	Added   []string
	Removed []string
}

// Parse extracts added and removed lines from a per-file unified diff.
// Git-style diffs are parsed structurally; anything go-gitdiff cannot
// parse (SVN output, bare hunks) falls back to prefix scanning. Parse is
// total: malformed input yields empty stats rather than an error.
func Parse(raw string) Stats {
	if strings.TrimSpace(raw) == "" {
		return Stats{}
	}

	files, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil || len(files) == 0 {
		return scanPrefixes(raw)
	}

	var st Stats
	for _, f := range files {
		for _, frag := range f.TextFragments {
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					st.Added = append(st.Added, strings.TrimRight(line.Line, "\n"))
				case gitdiff.OpDelete:
					st.Removed = append(st.Removed, strings.TrimRight(line.Line, "\n"))
				}
			}
		}
	}
	return st
}

// scanPrefixes is the line-prefix fallback used for diffs that are not
// valid git diffs. Header lines (+++, ---) are skipped.
func scanPrefixes(raw string) Stats {
	var st Stats
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			st.Added = append(st.Added, line[1:])
		case strings.HasPrefix(line, "-"):
			st.Removed = append(st.Removed, line[1:])
		}
	}
	return st
}

// Changed returns all added and removed lines in one slice.
func (s Stats) Changed() []string {
	out := make([]string, 0, len(s.Added)+len(s.Removed))
	out = append(out, s.Added...)
	out = append(out, s.Removed...)
	return out
}

// Empty reports whether the diff changed no lines at all.
func (s Stats) Empty() bool {
	return len(s.Added) == 0 && len(s.Removed) == 0
}
