package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/unxed/patchctl/internal/patchdoc"
	"github.com/unxed/patchctl/internal/perr"
)

// FileSession is a per-file in-memory buffer: current line sequence,
// the line-ending and terminal-newline policy detected at load, and a
// dirty bit. No modification holds a lock across calls; all state
// lives here until Finalize.
type FileSession struct {
	RelPath       string
	Existed       bool
	ExistedAtLoad bool
	OriginalBytes []byte
	Lines         []string
	Newline       patchdoc.Newline
	HadTerminalNewline bool
	Dirty              bool
}

// LoadSession reads relPath under root if present, or returns a
// not-yet-existing session for a file a CREATE_FILE is about to
// populate.
func LoadSession(root, relPath string) (*FileSession, error) {
	full := filepath.Join(root, relPath)
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return &FileSession{RelPath: relPath}, nil
	}
	if err != nil {
		return nil, perr.Wrap(perr.IOError, err)
	}

	nl, lines, hadTerminal := decodeBuffer(data)
	return &FileSession{
		RelPath:            relPath,
		Existed:            true,
		ExistedAtLoad:      true,
		OriginalBytes:      data,
		Lines:              lines,
		Newline:            nl,
		HadTerminalNewline: hadTerminal,
	}, nil
}

// Apply runs one modification against the session's buffer. fileNewline
// is the FileChange's declared newline attribute, used only by
// CREATE_FILE. The returned bool is false when the modification was an
// idempotent skip.
func (fs *FileSession) Apply(mod patchdoc.Modification, fileNewline patchdoc.Newline) (bool, error) {
	switch mod.Action {
	case patchdoc.CreateFile:
		return fs.applyCreateFile(mod, fileNewline)
	case patchdoc.Delete:
		return fs.applyDelete(mod)
	default:
		return fs.applyLocated(mod)
	}
}

func (fs *FileSession) applyCreateFile(mod patchdoc.Modification, fileNewline patchdoc.Newline) (bool, error) {
	nl := fileNewline
	if nl == "" {
		nl = patchdoc.LF
	}
	newLines := CreateFileLines(mod.Content)
	candidate := RenderBytes(newLines, nl, true)

	if fs.Existed {
		if string(fs.OriginalBytes) == string(candidate) {
			return false, nil
		}
		return false, perr.New(perr.FileExistsMismatch, "file already exists with different content")
	}

	fs.Lines = newLines
	fs.Newline = nl
	fs.HadTerminalNewline = true
	fs.Existed = true
	fs.Dirty = true
	return true, nil
}

func (fs *FileSession) applyDelete(mod patchdoc.Modification) (bool, error) {
	if !fs.Existed {
		return false, perr.New(perr.FileNotFound, "file does not exist")
	}
	r, err := Locate(fs.Lines, mod)
	if err != nil {
		if isUnlocatable(err) {
			return false, nil
		}
		return false, err
	}
	fs.Lines = Delete(fs.Lines, r)
	fs.Dirty = true
	return true, nil
}

func (fs *FileSession) applyLocated(mod patchdoc.Modification) (bool, error) {
	if !fs.Existed {
		return false, perr.New(perr.FileNotFound, "file does not exist")
	}
	r, err := Locate(fs.Lines, mod)
	if err != nil {
		return false, err
	}

	indent := EffectiveIndent(fs.Lines, r.Start)
	reflowed := ReflowContent(mod.Content, indent)

	switch mod.Action {
	case patchdoc.Replace:
		if ReplaceIsNoOp(fs.Lines, r, reflowed) {
			return false, nil
		}
		fs.Lines = Replace(fs.Lines, r, reflowed)
	case patchdoc.InsertAfter:
		if InsertAfterIsNoOp(fs.Lines, r, reflowed) {
			return false, nil
		}
		fs.Lines = InsertAfter(fs.Lines, r, reflowed)
	case patchdoc.InsertBefore:
		if InsertBeforeIsNoOp(fs.Lines, r, reflowed) {
			return false, nil
		}
		fs.Lines = InsertBefore(fs.Lines, r, reflowed)
	}
	fs.Dirty = true
	return true, nil
}

// Finalize strips trailing horizontal whitespace from every line and
// re-renders the buffer using the session's line-ending and
// terminal-newline policy.
func (fs *FileSession) Finalize() []byte {
	trimmed := make([]string, len(fs.Lines))
	for i, l := range fs.Lines {
		trimmed[i] = trimTrailingHorizontal(l)
	}
	return RenderBytes(trimmed, fs.Newline, fs.HadTerminalNewline)
}

// RenderBytes joins lines with the line-ending nl, appending a final
// separator when terminalNewline is set.
func RenderBytes(lines []string, nl patchdoc.Newline, terminalNewline bool) []byte {
	sep := newlineString(nl)
	body := strings.Join(lines, sep)
	if terminalNewline {
		body += sep
	}
	return []byte(body)
}

func newlineString(nl patchdoc.Newline) string {
	switch nl {
	case patchdoc.CRLF:
		return "\r\n"
	case patchdoc.CR:
		return "\r"
	default:
		return "\n"
	}
}

// decodeBuffer detects the dominant line ending in data, reports
// whether the data ends with a terminal separator, and splits the body
// into lines accordingly.
func decodeBuffer(data []byte) (patchdoc.Newline, []string, bool) {
	s := string(data)
	nl := detectNewline(s)
	sep := newlineString(nl)

	hadTerminal := strings.HasSuffix(s, sep)
	body := s
	if hadTerminal {
		body = strings.TrimSuffix(body, sep)
	}
	if body == "" {
		return nl, nil, hadTerminal
	}
	return nl, strings.Split(body, sep), hadTerminal
}

func detectNewline(s string) patchdoc.Newline {
	crlf := strings.Count(s, "\r\n")
	lfOnly := strings.Count(s, "\n") - crlf
	crOnly := strings.Count(s, "\r") - crlf

	switch {
	case crlf > 0 && crlf >= lfOnly && crlf >= crOnly:
		return patchdoc.CRLF
	case lfOnly > 0:
		return patchdoc.LF
	case crOnly > 0:
		return patchdoc.CR
	default:
		return patchdoc.LF
	}
}
