package mcp

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"moirai-dashboard/src/sanitize"
)

// maxMessageWidth bounds commit subjects in tool output.
const maxMessageWidth = 120

// shortCommitLength is the abbreviated SHA length.
const shortCommitLength = 8

// trailerPattern matches sign-off style trailers appended to subjects by
// some forges ("... (#123)" is kept, "Signed-off-by: x" is not).
var trailerPattern = regexp.MustCompile(`(?i)\s*(signed-off-by|co-authored-by|change-id):.*$`)

// whitespacePattern matches runs of whitespace.
var whitespacePattern = regexp.MustCompile(`\s+`)

// compactMessage reduces a commit message to one clean, bounded line.
func compactMessage(msg string) string {
	line := sanitize.Subject(msg)
	line = trailerPattern.ReplaceAllString(line, "")
	line = strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
	return runewidth.Truncate(line, maxMessageWidth, "...")
}

// shortCommit abbreviates a commit SHA.
func shortCommit(sha string) string {
	if len(sha) <= shortCommitLength {
		return sha
	}
	return sha[:shortCommitLength]
}
