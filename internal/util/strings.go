// Package util provides shared helpers for fitting log output to a terminal.
package util

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if truncated.
// This function properly handles ANSI escape codes and wide characters, making it
// suitable for terminal output with styling.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// Use ANSI-aware truncation to preserve escape sequences
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, "...")
}

// FitLine truncates a single output line to width columns, keeping a
// trailing newline. A width of zero or less leaves the line unchanged.
func FitLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	body, hasNewline := strings.CutSuffix(line, "\n")
	body = TruncateANSI(body, width)
	if hasNewline {
		body += "\n"
	}
	return body
}

// TerminalWidth returns the column count of w when it is a terminal, or 0.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}
