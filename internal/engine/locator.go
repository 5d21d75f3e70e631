package engine

import (
	"github.com/unxed/patchctl/internal/patchdoc"
	"github.com/unxed/patchctl/internal/perr"
)

// LineRange is an inclusive, 0-based original-line range into a file
// buffer. The locator is the only component that produces one; every
// downstream component (indenter, idempotency checker, mutator) treats
// it as an opaque, already-resolved region — the locator is a pure
// function, directly testable without touching a filesystem.
type LineRange struct {
	Start int
	End   int
}

// noScope means "search the whole file" as opposed to the half-open
// region following an anchor's last line.
const noScope = -1

func findMatches(file []NormalizedLine, pattern []string) []LineRange {
	n, m := len(file), len(pattern)
	if m == 0 || n < m {
		return nil
	}
	var matches []LineRange
	for i := 0; i+m <= n; i++ {
		match := true
		for j := 0; j < m; j++ {
			if file[i+j].Text != pattern[j] {
				match = false
				break
			}
		}
		if match {
			matches = append(matches, LineRange{Start: file[i].Origin, End: file[i+m-1].Origin})
		}
	}
	return matches
}

// LocateAnchor finds the unique occurrence of anchorText in fileLines.
func LocateAnchor(fileLines []string, anchorText string) (LineRange, error) {
	pattern := NormalizePattern(anchorText)
	if len(pattern) == 0 {
		return LineRange{}, perr.New(perr.EmptyPattern, "anchor normalizes to zero lines")
	}
	matches := findMatches(Normalize(fileLines), pattern)
	switch len(matches) {
	case 0:
		return LineRange{}, perr.New(perr.AnchorNotFound, "anchor not found: %q", anchorText)
	case 1:
		return matches[0], nil
	default:
		return LineRange{}, perr.New(perr.AnchorAmbiguous, "anchor matches %d locations: %q", len(matches), anchorText)
	}
}

// LocateSnippet finds a point snippet. scopeStart is noScope for an
// unanchored search (which must be unique across the whole file), or
// the first original line index to search from — one past an anchor's
// last matched line — in which case the first match in scope wins.
func LocateSnippet(fileLines []string, snippetText string, scopeStart int) (LineRange, error) {
	pattern := NormalizePattern(snippetText)
	if len(pattern) == 0 {
		return LineRange{}, perr.New(perr.EmptyPattern, "snippet normalizes to zero lines")
	}

	norm := Normalize(fileLines)
	if scopeStart != noScope {
		norm = restrictFrom(norm, scopeStart)
	}
	matches := findMatches(norm, pattern)

	if scopeStart != noScope {
		if len(matches) == 0 {
			return LineRange{}, perr.New(perr.SnippetNotFound, "snippet not found in anchored scope: %q", snippetText)
		}
		return matches[0], nil
	}

	switch len(matches) {
	case 0:
		return LineRange{}, perr.New(perr.SnippetNotFound, "snippet not found: %q", snippetText)
	case 1:
		return matches[0], nil
	default:
		return LineRange{}, perr.New(perr.SnippetAmbiguous, "snippet matches %d locations: %q", len(matches), snippetText)
	}
}

// LocateRange resolves a (start_snippet, end_snippet) pair: start is
// located exactly as a point snippet (scoped by scopeStart), then
// end_snippet is searched for the first match whose first line is
// strictly after start's last line.
func LocateRange(fileLines []string, startSnippet, endSnippet string, scopeStart int) (LineRange, error) {
	startRange, err := LocateSnippet(fileLines, startSnippet, scopeStart)
	if err != nil {
		return LineRange{}, err
	}

	endPattern := NormalizePattern(endSnippet)
	if len(endPattern) == 0 {
		return LineRange{}, perr.New(perr.EmptyPattern, "end_snippet normalizes to zero lines")
	}

	remainder := restrictFrom(Normalize(fileLines), startRange.End+1)
	matches := findMatches(remainder, endPattern)
	if len(matches) == 0 {
		return LineRange{}, perr.New(perr.EndSnippetNotFound, "end_snippet not found after start_snippet: %q", endSnippet)
	}
	return LineRange{Start: startRange.Start, End: matches[0].End}, nil
}

func restrictFrom(norm []NormalizedLine, fromOrigin int) []NormalizedLine {
	out := make([]NormalizedLine, 0, len(norm))
	for _, nl := range norm {
		if nl.Origin >= fromOrigin {
			out = append(out, nl)
		}
	}
	return out
}

// ExpandBlankLines extends r upward and downward through up to
// leading/trailing contiguous blank lines, stopping at the first
// non-blank line or a file boundary.
func ExpandBlankLines(fileLines []string, r LineRange, leading, trailing int) LineRange {
	start := r.Start
	for i := 0; i < leading && start > 0 && isBlank(fileLines[start-1]); i++ {
		start--
	}
	end := r.End
	for i := 0; i < trailing && end < len(fileLines)-1 && isBlank(fileLines[end+1]); i++ {
		end++
	}
	return LineRange{Start: start, End: end}
}

// Locate resolves a modification's anchor/snippet fields against
// fileLines into a single located region, applying blank-line
// expansion where the modification's action is DELETE or REPLACE.
func Locate(fileLines []string, mod patchdoc.Modification) (LineRange, error) {
	scopeStart := noScope
	if mod.Anchor != "" {
		anchorRange, err := LocateAnchor(fileLines, mod.Anchor)
		if err != nil {
			return LineRange{}, err
		}
		scopeStart = anchorRange.End + 1
	}

	var r LineRange
	var err error
	if mod.IsRange() {
		r, err = LocateRange(fileLines, mod.StartSnippet, mod.EndSnippet, scopeStart)
	} else {
		r, err = LocateSnippet(fileLines, mod.Snippet, scopeStart)
	}
	if err != nil {
		return LineRange{}, err
	}

	if mod.Action == patchdoc.Delete || mod.Action == patchdoc.Replace {
		r = ExpandBlankLines(fileLines, r, mod.IncludeLeadingBlankLines, mod.IncludeTrailingBlankLines)
	}
	return r, nil
}
