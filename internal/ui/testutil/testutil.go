// Package testutil provides helpers for testing rendered browser views.
package testutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences, sixel data included, leaving only
// the printable text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// CountSixels returns the number of sixel images (DCS ... q) in s.
func CountSixels(s string) int {
	n := 0
	for rest := s; ; {
		i := strings.Index(rest, "\x1bP")
		if i < 0 {
			return n
		}
		rest = rest[i+2:]
		end := strings.IndexAny(rest, "q\x1b")
		if end >= 0 && rest[end] == 'q' {
			n++
		}
	}
}

// MeasureWidth returns the visual width of a string without its escapes.
func MeasureWidth(s string) int {
	return lipgloss.Width(StripANSI(s))
}

// ContainsLine checks if any line in the output contains the given substring.
func ContainsLine(output, substr string) bool {
	for line := range strings.SplitSeq(output, "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// FindLine returns the first line containing the given substring, or empty string.
func FindLine(output, substr string) string {
	for line := range strings.SplitSeq(output, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// SplitLines splits output into lines, removing trailing empty lines.
func SplitLines(output string) []string {
	lines := strings.Split(output, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
