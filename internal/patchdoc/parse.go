package patchdoc

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unxed/patchctl/internal/perr"
)

// rawDocument mirrors the YAML document shape before validation.
type rawDocument struct {
	Version string          `yaml:"version"`
	Changes []rawFileChange `yaml:"changes"`
}

type rawFileChange struct {
	FilePath      string            `yaml:"file_path"`
	Newline       string            `yaml:"newline"`
	Modifications []rawModification `yaml:"modifications"`
}

// rawModification covers both the v1.0 nested "target" locator and the
// v2.0 flat locator in a single struct; the nested shape is used when
// "target" is present, the flat fields otherwise.
type rawModification struct {
	Action string     `yaml:"action"`
	Target *rawTarget `yaml:"target"`

	Snippet      string `yaml:"snippet"`
	StartSnippet string `yaml:"start_snippet"`
	EndSnippet   string `yaml:"end_snippet"`
	Anchor       string `yaml:"anchor"`

	IncludeLeadingBlankLines  *int `yaml:"include_leading_blank_lines"`
	IncludeTrailingBlankLines *int `yaml:"include_trailing_blank_lines"`

	Content *string `yaml:"content"`
}

// rawTarget is the v1.0 dialect's nested point locator.
type rawTarget struct {
	Snippet                   string `yaml:"snippet"`
	Anchor                    string `yaml:"anchor"`
	IncludeLeadingBlankLines  *int   `yaml:"include_leading_blank_lines"`
	IncludeTrailingBlankLines *int   `yaml:"include_trailing_blank_lines"`
}

// ParseYAML decodes the YAML patch document dialect into a validated
// Document. Both the v1.0 (nested "target") and v2.0 (flat locator
// fields) forms are accepted under either declared version; each
// modification's shape is picked by whether it has a "target" mapping.
func ParseYAML(data []byte) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, perr.New(perr.MalformedPatch, "invalid YAML: %v", err)
	}

	if raw.Version != "1.0" && raw.Version != "2.0" {
		return nil, perr.New(perr.MalformedPatch, "unsupported version %q (must be \"1.0\" or \"2.0\")", raw.Version)
	}

	doc := &Document{Version: raw.Version}
	for _, rfc := range raw.Changes {
		fc, err := convertFileChange(raw.Version, rfc)
		if err != nil {
			return nil, err
		}
		doc.Changes = append(doc.Changes, fc)
	}
	return doc, nil
}

func convertFileChange(version string, rfc rawFileChange) (FileChange, error) {
	if err := validateFilePath(rfc.FilePath); err != nil {
		return FileChange{}, err
	}

	var newline Newline
	if rfc.Newline != "" {
		switch Newline(rfc.Newline) {
		case LF, CRLF, CR:
			newline = Newline(rfc.Newline)
		default:
			return FileChange{}, perr.New(perr.MalformedPatch, "%s: invalid newline %q (must be LF, CRLF, or CR)", rfc.FilePath, rfc.Newline).WithContext(rfc.FilePath, 0)
		}
	}

	fc := FileChange{FilePath: rfc.FilePath, Newline: newline}
	for i, rm := range rfc.Modifications {
		mod, err := convertModification(version, rm, i+1)
		if err != nil {
			if pe, ok := perr.AsError(err); ok {
				return FileChange{}, pe.WithContext(rfc.FilePath, i+1)
			}
			return FileChange{}, err
		}
		fc.Modifications = append(fc.Modifications, mod)
	}
	return fc, nil
}

func validateFilePath(path string) error {
	if path == "" {
		return perr.New(perr.MalformedPatch, "file_path must not be empty")
	}
	if strings.HasPrefix(path, "/") {
		return perr.New(perr.MalformedPatch, "%s: file_path must be relative", path).WithContext(path, 0)
	}
	for _, seg := range strings.Split(filepathSlashes(path), "/") {
		if seg == ".." {
			return perr.New(perr.MalformedPatch, "%s: file_path must not traverse parent directories", path).WithContext(path, 0)
		}
	}
	return nil
}

// filepathSlashes normalizes backslashes so the ".." check works regardless
// of which separator the patch document used.
func filepathSlashes(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

func convertModification(version string, rm rawModification, index int) (Modification, error) {
	action := Action(rm.Action)
	switch action {
	case Replace, InsertAfter, InsertBefore, Delete, CreateFile:
	default:
		return Modification{}, perr.New(perr.MalformedPatch, "modification %d: unknown action %q", index, rm.Action)
	}

	mod := Modification{Action: action, Index: index}

	// v1.0 uses a nested "target"; v2.0 uses flat fields. Accept whichever
	// is populated so a mixed-version document still parses predictably
	// (the declared version only decides which shape callers are expected
	// to produce; both are always accepted for robustness).
	if rm.Target != nil {
		mod.Snippet = rm.Target.Snippet
		mod.Anchor = rm.Target.Anchor
		mod.IncludeLeadingBlankLines = intOrZero(rm.Target.IncludeLeadingBlankLines)
		mod.IncludeTrailingBlankLines = intOrZero(rm.Target.IncludeTrailingBlankLines)
	} else {
		mod.Snippet = rm.Snippet
		mod.StartSnippet = rm.StartSnippet
		mod.EndSnippet = rm.EndSnippet
		mod.Anchor = rm.Anchor
		mod.IncludeLeadingBlankLines = intOrZero(rm.IncludeLeadingBlankLines)
		mod.IncludeTrailingBlankLines = intOrZero(rm.IncludeTrailingBlankLines)
	}

	if rm.Content != nil {
		mod.Content = *rm.Content
		mod.HasContent = true
	}

	if mod.IncludeLeadingBlankLines < 0 || mod.IncludeTrailingBlankLines < 0 {
		return Modification{}, perr.New(perr.MalformedPatch, "modification %d: blank-line counts must be non-negative", index)
	}

	if err := validateActionFields(mod, index); err != nil {
		return Modification{}, err
	}
	return mod, nil
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// validateActionFields enforces the document's field invariants: point
// vs range snippet mutual exclusion, INSERT_* point-only, and content
// presence per action.
func validateActionFields(mod Modification, index int) error {
	hasPoint := mod.Snippet != ""
	hasRange := mod.StartSnippet != "" || mod.EndSnippet != ""

	if mod.Action == CreateFile {
		if hasPoint || hasRange {
			return perr.New(perr.MalformedPatch, "modification %d: CREATE_FILE must not specify a snippet", index)
		}
		if !mod.HasContent {
			return perr.New(perr.MalformedPatch, "modification %d: CREATE_FILE requires content", index)
		}
		return nil
	}

	if hasPoint && hasRange {
		return perr.New(perr.MalformedPatch, "modification %d: snippet and start_snippet/end_snippet are mutually exclusive", index)
	}
	if !hasPoint && !hasRange {
		return perr.New(perr.MalformedPatch, "modification %d: %s requires a snippet or start_snippet/end_snippet", index, mod.Action)
	}

	switch mod.Action {
	case InsertAfter, InsertBefore:
		if hasRange {
			return perr.New(perr.MalformedPatch, "modification %d: %s only accepts a point snippet", index, mod.Action)
		}
		if !mod.HasContent {
			return perr.New(perr.MalformedPatch, "modification %d: %s requires content", index, mod.Action)
		}
	case Replace:
		if hasRange && (mod.StartSnippet == "" || mod.EndSnippet == "") {
			return perr.New(perr.MalformedPatch, "modification %d: a range snippet requires both start_snippet and end_snippet", index)
		}
		if !mod.HasContent {
			return perr.New(perr.MalformedPatch, "modification %d: REPLACE requires content", index)
		}
	case Delete:
		if hasRange && (mod.StartSnippet == "" || mod.EndSnippet == "") {
			return perr.New(perr.MalformedPatch, "modification %d: a range snippet requires both start_snippet and end_snippet", index)
		}
		if mod.HasContent {
			return perr.New(perr.MalformedPatch, "modification %d: DELETE must not specify content", index)
		}
	}
	return nil
}
