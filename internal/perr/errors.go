// Package perr defines the patch engine's error taxonomy: a fixed set
// of kinds, each carrying the offending file path and 1-based
// modification index so the transaction driver can produce a
// diagnostic naming both. A single error type keyed by a kind constant
// instead of a Go error-type zoo.
package perr

import "fmt"

// Kind classifies an engine error. Kinds are not Go types: a single
// Error struct carries one Kind plus context.
type Kind int

const (
	MalformedPatch Kind = iota
	FileNotFound
	FileExistsMismatch
	AnchorNotFound
	AnchorAmbiguous
	SnippetNotFound
	SnippetAmbiguous
	EndSnippetNotFound
	EmptyPattern
	IOError
)

func (k Kind) String() string {
	switch k {
	case MalformedPatch:
		return "MalformedPatch"
	case FileNotFound:
		return "FileNotFound"
	case FileExistsMismatch:
		return "FileExistsMismatch"
	case AnchorNotFound:
		return "AnchorNotFound"
	case AnchorAmbiguous:
		return "AnchorAmbiguous"
	case SnippetNotFound:
		return "SnippetNotFound"
	case SnippetAmbiguous:
		return "SnippetAmbiguous"
	case EndSnippetNotFound:
		return "EndSnippetNotFound"
	case EmptyPattern:
		return "EmptyPattern"
	case IOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Error is the engine's single error type. FilePath and ModIndex are filled
// in by the layers that know both: the patch parser for malformed
// modifications and the transaction driver for engine failures; components deeper in the call stack
// (locator, idempotency checker, mutator) may leave them zero and let the
// driver attach them via WithContext.
type Error struct {
	Kind      Kind
	Message   string
	FilePath  string
	ModIndex  int // 1-based; 0 means "not yet attributed to a modification"
	Wrapped   error
}

func (e *Error) Error() string {
	switch {
	case e.FilePath != "" && e.ModIndex > 0:
		return fmt.Sprintf("%s: %s (modification %d): %s", e.Kind, e.FilePath, e.ModIndex, e.Message)
	case e.FilePath != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.FilePath, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Wrapped }

// New creates an Error of the given kind with no file/modification context yet.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around an underlying error.
func Wrap(kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: err.Error(), Wrapped: err}
}

// WithContext returns a copy of the error with the file path and 1-based
// modification index attached, used by the transaction driver as it
// propagates an error from a deeper component.
func (e *Error) WithContext(filePath string, modIndex int) *Error {
	cp := *e
	cp.FilePath = filePath
	cp.ModIndex = modIndex
	return &cp
}

// AsError returns err as an *Error if it is one, preserving an
// already-typed error rather than re-wrapping it.
func AsError(err error) (*Error, bool) {
	pe, ok := err.(*Error)
	return pe, ok
}

// KindOf returns the Kind of err, or IOError if err is not a *Error — a
// safe default for an unclassified underlying error.
func KindOf(err error) Kind {
	if pe, ok := AsError(err); ok {
		return pe.Kind
	}
	return IOError
}
