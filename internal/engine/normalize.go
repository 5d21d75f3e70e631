// Package engine implements the patch engine's core: normalized-match
// location, indentation reflow, idempotency checks, in-memory mutation,
// per-file buffering, and the transaction driver that ties them
// together.
package engine

import "strings"

// NormalizedLine pairs a trimmed, non-blank line with the index of the
// original line it came from, so the locator can recover original line
// ranges after matching against normalized text.
type NormalizedLine struct {
	Text   string
	Origin int
}

// Normalize strips blank lines from lines and trims horizontal
// whitespace from the rest, keeping each surviving line's origin index.
// Both the target file buffer and a pattern's raw text pass through
// this same rule, so matching depends only on trimmed non-blank
// content.
func Normalize(lines []string) []NormalizedLine {
	out := make([]NormalizedLine, 0, len(lines))
	for i, l := range lines {
		if isBlank(l) {
			continue
		}
		out = append(out, NormalizedLine{Text: trimHorizontal(l), Origin: i})
	}
	return out
}

// NormalizePattern reduces a raw snippet/anchor/content block to the
// ordered list of trimmed non-blank lines the locator searches for.
func NormalizePattern(text string) []string {
	raw := splitLines(text)
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if isBlank(l) {
			continue
		}
		out = append(out, trimHorizontal(l))
	}
	return out
}

// splitLines splits text on "\n", discarding a single trailing newline
// so that both "a\nb\n" and "a\nb" yield ["a", "b"].
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func trimHorizontal(line string) string {
	return strings.Trim(line, " \t")
}

func trimTrailingHorizontal(line string) string {
	return strings.TrimRight(line, " \t")
}
