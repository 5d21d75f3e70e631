// Package diag renders the CLI's human-readable diagnostics: colored
// status lines and unified diffs for --dry-run previews and the
// interactive reviewer.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/unxed/patchctl/internal/perr"
)

var (
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	okColor      = color.New(color.FgGreen)
	grayColor    = color.New(color.FgWhite, color.Faint)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
)

// Printer writes formatted transaction diagnostics to w.
type Printer struct {
	w      io.Writer
	noColor bool
}

// New returns a Printer writing to w. noColor disables ANSI styling,
// for output piped to a file or a non-terminal.
func New(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, noColor: noColor}
}

func (p *Printer) colored(c *color.Color, format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	if p.noColor {
		return s
	}
	return c.Sprint(s)
}

// Error prints a transaction failure naming the offending file and
// modification index.
func (p *Printer) Error(err error) {
	if pe, ok := perr.AsError(err); ok {
		fmt.Fprintln(p.w, p.colored(errorColor, "error: %s", pe.Error()))
		return
	}
	fmt.Fprintln(p.w, p.colored(errorColor, "error: %v", err))
}

// Warn prints a non-fatal diagnostic.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.colored(warnColor, format, args...))
}

// Info prints a neutral status line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.w, p.colored(grayColor, format, args...))
}

// Success prints a positive status line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.colored(okColor, format, args...))
}

// UnifiedDiffText renders a unified diff between a file's pre- and
// post-transaction contents. Shared by --dry-run previews and the
// interactive reviewer.
func UnifiedDiffText(relPath, before, after string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: relPath,
		ToFile:   relPath,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// FileDiff prints a unified diff between a file's pre- and
// post-transaction contents, used for --dry-run previews.
func (p *Printer) FileDiff(relPath string, before, after string) error {
	text, err := UnifiedDiffText(relPath, before, after)
	if err != nil {
		return err
	}
	if p.noColor {
		fmt.Fprint(p.w, text)
		return nil
	}
	for _, line := range difflib.SplitLines(text) {
		switch {
		case len(line) > 0 && line[0] == '+' && !isDiffHeader(line):
			fmt.Fprint(p.w, addedColor.Sprint(line))
		case len(line) > 0 && line[0] == '-' && !isDiffHeader(line):
			fmt.Fprint(p.w, removedColor.Sprint(line))
		default:
			fmt.Fprint(p.w, line)
		}
	}
	return nil
}

func isDiffHeader(line string) bool {
	return len(line) >= 3 && (line[:3] == "+++" || line[:3] == "---")
}
