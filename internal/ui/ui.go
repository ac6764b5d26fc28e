// Package ui renders the step-by-step console output of a commit run.
// All printers write to an injected writer so tests can capture them.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const boxWidth = 60

// Printer writes status lines for the interactive run. The zero value
// is not usable; construct with New.
type Printer struct {
	out io.Writer

	step    *color.Color
	info    *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

func New(out io.Writer) *Printer {
	return &Printer{
		out:     out,
		step:    color.New(color.FgCyan, color.Bold),
		info:    color.New(color.FgWhite),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
}

// Step prints a numbered section header.
func (p *Printer) Step(num, total int, message string) {
	rule := strings.Repeat("=", boxWidth)
	fmt.Fprintf(p.out, "\n%s\n", rule)
	p.step.Fprintf(p.out, "Step %d/%d: %s\n", num, total, message)
	fmt.Fprintf(p.out, "%s\n", rule)
}

func (p *Printer) Info(format string, args ...any) {
	p.info.Fprintf(p.out, "ℹ "+format+"\n", args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.success.Fprintf(p.out, "✓ "+format+"\n", args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.warning.Fprintf(p.out, "⚠ "+format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.failure.Fprintf(p.out, "✗ "+format+"\n", args...)
}

// Plain prints a line without any status marker.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// SummaryBox prints a titled box around the given lines, sized to the
// longest line but capped so narrow terminals stay readable.
func (p *Printer) SummaryBox(title string, items []string) {
	width := len(title)
	for _, item := range items {
		if len(item) > width {
			width = len(item)
		}
	}
	width += 4
	if width > boxWidth {
		width = boxWidth
	}

	fmt.Fprintf(p.out, "\n┌%s┐\n", strings.Repeat("─", width))
	fmt.Fprintf(p.out, "│ %s│\n", pad(title, width-2))
	fmt.Fprintf(p.out, "├%s┤\n", strings.Repeat("─", width))
	for _, item := range items {
		fmt.Fprintf(p.out, "│ %s│\n", pad(item, width-2))
	}
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", width))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
