// Package message turns commit groups into usable commit messages: it
// builds the model prompt, strips reasoning content from the response,
// and falls back to a deterministic template when the model fails.
package message

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Buttje/aicheckin/internal/models"
)

// reasoningTags are the tag names some models use to wrap their chain of
// thought. Each is matched case-insensitively, paired form first, then
// an unterminated opening tag which strips through end of input. A
// closing tag whose name does not match its opener is left as plain
// text.
var reasoningTags = []string{"think", "thinking", "thought", "reasoning"}

type tagPattern struct {
	paired *regexp.Regexp
	open   *regexp.Regexp
}

var tagPatterns = buildTagPatterns()

func buildTagPatterns() []tagPattern {
	patterns := make([]tagPattern, 0, len(reasoningTags))
	for _, tag := range reasoningTags {
		patterns = append(patterns, tagPattern{
			paired: regexp.MustCompile(`(?is)<` + tag + `>.*?</` + tag + `>`),
			open:   regexp.MustCompile(`(?is)<` + tag + `>.*`),
		})
	}
	return patterns
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Sanitize removes model reasoning blocks from raw and normalizes the
// remaining whitespace. It is pure, total, and idempotent; the caller is
// responsible for substituting a fallback when the result is empty.
func Sanitize(raw string) string {
	out := raw
	for _, p := range tagPatterns {
		out = p.paired.ReplaceAllString(out, "")
		out = p.open.ReplaceAllString(out, "")
	}

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	out = strings.Join(lines, "\n")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// subjectRe captures a Conventional Commit subject: type, optional
// scope, optional breaking-change marker, description.
var subjectRe = regexp.MustCompile(`^(\w+)(\([^)]*\))?(!)?:\s*(.*)$`)

// EnsureType rewrites the message's leading type prefix to the expected
// commit type, preserving scope and description. A subject without a
// recognizable type prefix gets one prepended.
func EnsureType(msg string, want models.CommitType) string {
	if msg == "" {
		return ""
	}
	lines := strings.SplitN(msg, "\n", 2)
	subject := strings.TrimSpace(lines[0])

	m := subjectRe.FindStringSubmatch(subject)
	switch {
	case m != nil && models.CommitType(strings.ToLower(m[1])) == want:
		subject = string(want) + m[2] + m[3] + ": " + m[4]
	case m != nil && models.CommitType(strings.ToLower(m[1])).Valid():
		subject = string(want) + m[2] + m[3] + ": " + m[4]
	default:
		subject = string(want) + ": " + subject
	}

	if len(lines) == 1 {
		return subject
	}
	return subject + "\n" + lines[1]
}

// Fallback is the deterministic message used when the model is
// unavailable or returns nothing usable.
func Fallback(t models.CommitType, files []string) string {
	if len(files) == 0 {
		return fmt.Sprintf("%s: update", t)
	}
	if len(files) == 1 {
		return fmt.Sprintf("%s: update %s", t, files[0])
	}
	return fmt.Sprintf("%s: update %s, + %d more", t, files[0], len(files)-1)
}
