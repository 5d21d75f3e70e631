package engine

import "strings"

// EffectiveIndent returns the leading horizontal whitespace of
// fileLines[originalLine], before trimming. For REPLACE, INSERT_BEFORE
// and INSERT_AFTER alike, the caller passes the located region's first
// original line: an inserted block aligns with the snippet itself, not
// the line after it.
func EffectiveIndent(fileLines []string, originalLine int) string {
	line := fileLines[originalLine]
	trimmed := strings.TrimLeft(line, " \t")
	return line[:len(line)-len(trimmed)]
}

// ReflowContent splits content into lines and prepends indent to every
// non-blank one, leaving blank lines untouched and preserving content's
// own relative indentation.
func ReflowContent(content string, indent string) []string {
	raw := splitLines(content)
	out := make([]string, len(raw))
	for i, l := range raw {
		if isBlank(l) {
			out[i] = l
			continue
		}
		out[i] = indent + l
	}
	return out
}
