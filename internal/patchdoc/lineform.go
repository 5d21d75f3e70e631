package patchdoc

import (
	"strconv"
	"strings"

	"github.com/unxed/patchctl/internal/perr"
)

// ParseLineForm decodes the line-prefixed alternate surface dialect (spec
// §9's "line-prefixed surface dialect" open question): a stream of
// directive lines, each fenced by a random hex token established on the
// document's first line, so that CONTENT blocks can carry arbitrary text
// — including lines that would otherwise look like directives — without
// ambiguity. It produces exactly the same *Document the YAML parser
// would for an equivalent patch; the two dialects share every later
// engine stage.
//
// Grammar (one directive per line, "<token>" fixed for the whole document):
//
//	<token>:VERSION <1.0|2.0>
//	<token>:FILE <path>
//	<token>:NEWLINE <LF|CRLF|CR>             (optional)
//	<token>:MOD <ACTION>
//	<token>:ANCHOR <text>                    (optional)
//	<token>:SNIPPET <text>                   (point locator)
//	<token>:START_SNIPPET <text>              (range locator)
//	<token>:END_SNIPPET <text>
//	<token>:INCLUDE_LEADING <n>               (optional)
//	<token>:INCLUDE_TRAILING <n>              (optional)
//	<token>:CONTENT
//	... raw lines, not interpreted as directives ...
//	<token>:ENDCONTENT
//	<token>:ENDMOD
//	<token>:ENDFILE
func ParseLineForm(data []byte) (*Document, error) {
	lines := strings.Split(string(data), "\n")

	var token string
	var version string
	var doc Document

	var fc *FileChange
	var mod *Modification
	inContent := false
	var content strings.Builder

	finalizeMod := func() error {
		if mod == nil || fc == nil {
			return nil
		}
		if err := validateActionFields(*mod, mod.Index); err != nil {
			if pe, ok := perr.AsError(err); ok {
				return pe.WithContext(fc.FilePath, mod.Index)
			}
			return err
		}
		fc.Modifications = append(fc.Modifications, *mod)
		mod = nil
		return nil
	}

	finalizeFile := func() error {
		if err := finalizeMod(); err != nil {
			return err
		}
		if fc != nil {
			if err := validateFilePath(fc.FilePath); err != nil {
				return err
			}
			doc.Changes = append(doc.Changes, *fc)
			fc = nil
		}
		return nil
	}

	for lineNo, line := range lines {
		if token == "" {
			if strings.TrimSpace(line) == "" {
				continue
			}
			parts := strings.SplitN(line, ":VERSION ", 2)
			if len(parts) != 2 || parts[0] == "" {
				return nil, perr.New(perr.MalformedPatch, "line %d: expected \"<token>:VERSION <ver>\" as the first directive", lineNo+1)
			}
			token = parts[0]
			version = strings.TrimSpace(parts[1])
			if version != "1.0" && version != "2.0" {
				return nil, perr.New(perr.MalformedPatch, "unsupported version %q (must be \"1.0\" or \"2.0\")", version)
			}
			continue
		}

		if inContent {
			if line == token+":ENDCONTENT" {
				inContent = false
				if mod != nil {
					mod.Content = strings.TrimSuffix(content.String(), "\n")
					mod.HasContent = true
				}
				content.Reset()
				continue
			}
			content.WriteString(line)
			content.WriteString("\n")
			continue
		}

		prefix := token + ":"
		if !strings.HasPrefix(line, prefix) {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return nil, perr.New(perr.MalformedPatch, "line %d: expected a %q directive", lineNo+1, prefix)
		}
		directive := strings.TrimPrefix(line, prefix)
		kw, rest, _ := strings.Cut(directive, " ")
		rest = strings.TrimSpace(rest)

		switch kw {
		case "FILE":
			if err := finalizeFile(); err != nil {
				return nil, err
			}
			fc = &FileChange{FilePath: rest}
		case "NEWLINE":
			if fc == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: NEWLINE outside of FILE", lineNo+1)
			}
			switch Newline(rest) {
			case LF, CRLF, CR:
				fc.Newline = Newline(rest)
			default:
				return nil, perr.New(perr.MalformedPatch, "%s: invalid newline %q", fc.FilePath, rest)
			}
		case "MOD":
			if fc == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: MOD outside of FILE", lineNo+1)
			}
			if err := finalizeMod(); err != nil {
				return nil, err
			}
			action := Action(rest)
			switch action {
			case Replace, InsertAfter, InsertBefore, Delete, CreateFile:
			default:
				return nil, perr.New(perr.MalformedPatch, "%s: unknown action %q", fc.FilePath, rest)
			}
			mod = &Modification{Action: action, Index: len(fc.Modifications) + 1}
		case "ANCHOR":
			if mod == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: ANCHOR outside of MOD", lineNo+1)
			}
			mod.Anchor = rest
		case "SNIPPET":
			if mod == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: SNIPPET outside of MOD", lineNo+1)
			}
			mod.Snippet = rest
		case "START_SNIPPET":
			if mod == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: START_SNIPPET outside of MOD", lineNo+1)
			}
			mod.StartSnippet = rest
		case "END_SNIPPET":
			if mod == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: END_SNIPPET outside of MOD", lineNo+1)
			}
			mod.EndSnippet = rest
		case "INCLUDE_LEADING":
			if mod == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: INCLUDE_LEADING outside of MOD", lineNo+1)
			}
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				return nil, perr.New(perr.MalformedPatch, "line %d: INCLUDE_LEADING must be a non-negative integer", lineNo+1)
			}
			mod.IncludeLeadingBlankLines = n
		case "INCLUDE_TRAILING":
			if mod == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: INCLUDE_TRAILING outside of MOD", lineNo+1)
			}
			n, err := strconv.Atoi(rest)
			if err != nil || n < 0 {
				return nil, perr.New(perr.MalformedPatch, "line %d: INCLUDE_TRAILING must be a non-negative integer", lineNo+1)
			}
			mod.IncludeTrailingBlankLines = n
		case "CONTENT":
			if mod == nil {
				return nil, perr.New(perr.MalformedPatch, "line %d: CONTENT outside of MOD", lineNo+1)
			}
			inContent = true
		case "ENDMOD":
			if err := finalizeMod(); err != nil {
				return nil, err
			}
		case "ENDFILE":
			if err := finalizeFile(); err != nil {
				return nil, err
			}
		default:
			return nil, perr.New(perr.MalformedPatch, "line %d: unknown directive %q", lineNo+1, kw)
		}
	}

	if inContent {
		return nil, perr.New(perr.MalformedPatch, "unterminated CONTENT block (missing ENDCONTENT)")
	}
	if err := finalizeFile(); err != nil {
		return nil, err
	}

	doc.Version = version
	return &doc, nil
}
