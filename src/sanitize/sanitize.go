// Package sanitize cleans commit messages and other user-controlled text
// before it reaches terminal tables or MCP tool responses.
package sanitize

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape sequences (SGR, OSC, APC and friends).
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Clean strips escape sequences and drops remaining control characters
// other than newline and tab. Carriage returns become newlines.
func Clean(s string) string {
	s = StripANSI(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// Subject returns the first non-empty line of a cleaned commit message.
func Subject(msg string) string {
	for _, line := range strings.Split(Clean(msg), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
