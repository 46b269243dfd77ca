package utils

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// shortIDLen is how many leading display cells of an id are shown in listings.
const shortIDLen = 8

// Truncate shortens s to at most maxLen display cells, ending with "..." when
// anything was cut.
func Truncate(s string, maxLen int) string {
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "...")
}

// Preview collapses whitespace runs (newlines included) into single spaces and
// truncates the result to width.
func Preview(s string, width int) string {
	return Truncate(strings.Join(strings.Fields(s), " "), width)
}

// ShortID abbreviates a node id for display without splitting a multi-byte
// character.
func ShortID(id string) string {
	return ansi.Truncate(id, shortIDLen, "")
}
