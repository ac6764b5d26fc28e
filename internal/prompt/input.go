// Package prompt collects the interactive input used during a commit
// run: single-key choices, multi-line editing, and the external editor
// handoff. A Prompter interface keeps line reading testable.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

// ErrAborted is returned when the user cancels input with Ctrl-C or EOF.
var ErrAborted = errors.New("input aborted")

// Prompter wraps line reading so tests can script responses.
type Prompter interface {
	Prompt(label string) (string, error)
	Close() error
}

// LinerPrompter is the terminal-backed Prompter.
type LinerPrompter struct {
	*liner.State
}

func NewLinerPrompter() *LinerPrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LinerPrompter{State: line}
}

// Choice asks until the user enters one of the given single-letter
// options (case-insensitive). Returns the matched option in lower case.
func Choice(p Prompter, label string, options []string) (string, error) {
	hint := strings.Join(options, "/")
	for {
		answer, err := p.Prompt(color.CyanString("%s [%s]: ", label, hint))
		if err != nil {
			return "", classify(err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		for _, opt := range options {
			if answer == strings.ToLower(opt) {
				return answer, nil
			}
		}
		color.Yellow("Please enter one of: %s", hint)
	}
}

// MultiLine reads lines until the user enters a single "." on its own
// line. The terminator is not included in the result.
func MultiLine(p Prompter, label string) (string, error) {
	color.Cyan("%s (end with a single '.' on its own line)", label)

	var lines []string
	for {
		input, err := p.Prompt("  ")
		if err != nil {
			return "", classify(err)
		}
		if strings.TrimSpace(input) == "." {
			break
		}
		lines = append(lines, input)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// EditInEditor writes the initial text to a temp file, opens $EDITOR on
// it, and returns the saved content. Falls back to vi when $EDITOR is
// unset.
func EditInEditor(initial string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	tmp, err := os.CreateTemp("", "aicheckin-msg-*.txt")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(initial); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q: %w", editor, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited message: %w", err)
	}
	return strings.TrimSpace(string(edited)), nil
}

func classify(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return ErrAborted
	}
	return err
}
