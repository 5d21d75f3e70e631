package engine

import "github.com/unxed/patchctl/internal/perr"

// isUnlocatable reports whether a locate failure means "the target
// isn't there" as opposed to "the patch is invalid regardless of
// whether it was already applied". Only the former licenses the
// DELETE idempotent skip: check absence of the snippet before
// attempting a locate-failure abort; an ambiguous match is never
// silently accepted.
func isUnlocatable(err error) bool {
	switch perr.KindOf(err) {
	case perr.AnchorNotFound, perr.SnippetNotFound, perr.EndSnippetNotFound:
		return true
	default:
		return false
	}
}

func linesEqualNormalized(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if trimTrailingHorizontal(a[i]) != trimTrailingHorizontal(b[i]) {
			return false
		}
	}
	return true
}

// ReplaceIsNoOp reports whether the lines currently occupying r already
// equal the reflowed content.
func ReplaceIsNoOp(fileLines []string, r LineRange, reflowed []string) bool {
	return linesEqualNormalized(fileLines[r.Start:r.End+1], reflowed)
}

// InsertAfterIsNoOp reports whether the lines immediately following r
// already equal the reflowed content.
func InsertAfterIsNoOp(fileLines []string, r LineRange, reflowed []string) bool {
	start := r.End + 1
	end := start + len(reflowed)
	if end > len(fileLines) {
		return false
	}
	return linesEqualNormalized(fileLines[start:end], reflowed)
}

// InsertBeforeIsNoOp reports whether the lines immediately preceding r
// already equal the reflowed content.
func InsertBeforeIsNoOp(fileLines []string, r LineRange, reflowed []string) bool {
	end := r.Start
	start := end - len(reflowed)
	if start < 0 {
		return false
	}
	return linesEqualNormalized(fileLines[start:end], reflowed)
}
