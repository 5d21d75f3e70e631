package patchdoc

import "testing"

func TestParseYAML_V2Flat(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: src/app.py
    modifications:
      - action: REPLACE
        snippet: |
          setting: "default"
        content: |
          setting: "overridden"
`)
	doc, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if doc.Version != "2.0" {
		t.Fatalf("Version = %q, want 2.0", doc.Version)
	}
	if len(doc.Changes) != 1 {
		t.Fatalf("len(Changes) = %d, want 1", len(doc.Changes))
	}
	fc := doc.Changes[0]
	if fc.FilePath != "src/app.py" {
		t.Errorf("FilePath = %q", fc.FilePath)
	}
	if len(fc.Modifications) != 1 {
		t.Fatalf("len(Modifications) = %d, want 1", len(fc.Modifications))
	}
	mod := fc.Modifications[0]
	if mod.Action != Replace {
		t.Errorf("Action = %q, want REPLACE", mod.Action)
	}
	if mod.Index != 1 {
		t.Errorf("Index = %d, want 1", mod.Index)
	}
	if !mod.HasContent {
		t.Error("HasContent should be true")
	}
}

func TestParseYAML_V1Nested(t *testing.T) {
	data := []byte(`
version: "1.0"
changes:
  - file_path: src/app.py
    modifications:
      - action: INSERT_AFTER
        target:
          anchor: "def configure():"
          snippet: "return defaults"
        content: "    log.debug(\"configured\")"
`)
	doc, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	mod := doc.Changes[0].Modifications[0]
	if mod.Anchor != "def configure():" {
		t.Errorf("Anchor = %q", mod.Anchor)
	}
	if mod.Snippet != "return defaults" {
		t.Errorf("Snippet = %q", mod.Snippet)
	}
}

func TestParseYAML_RangeSnippet(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: a.txt
    modifications:
      - action: DELETE
        start_snippet: "BEGIN"
        end_snippet: "END"
`)
	doc, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	mod := doc.Changes[0].Modifications[0]
	if !mod.IsRange() {
		t.Error("IsRange() should be true for a start/end snippet pair")
	}
}

func TestParseYAML_UnsupportedVersion(t *testing.T) {
	data := []byte(`
version: "3.0"
changes: []
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject an unsupported version")
	}
}

func TestParseYAML_RejectsAbsolutePath(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: /etc/passwd
    modifications:
      - action: CREATE_FILE
        content: "x"
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject an absolute file_path")
	}
}

func TestParseYAML_RejectsParentTraversal(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: "../outside.txt"
    modifications:
      - action: CREATE_FILE
        content: "x"
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject a file_path that escapes the tree")
	}
}

func TestParseYAML_RejectsMixedPointAndRange(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: a.txt
    modifications:
      - action: REPLACE
        snippet: "x"
        start_snippet: "a"
        end_snippet: "b"
        content: "y"
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject a snippet mixed with start_snippet/end_snippet")
	}
}

func TestParseYAML_InsertRejectsRange(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: a.txt
    modifications:
      - action: INSERT_AFTER
        start_snippet: "a"
        end_snippet: "b"
        content: "y"
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject INSERT_AFTER with a range snippet")
	}
}

func TestParseYAML_DeleteRejectsContent(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: a.txt
    modifications:
      - action: DELETE
        snippet: "x"
        content: "y"
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject DELETE with content")
	}
}

func TestParseYAML_CreateFileRejectsSnippet(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: new.txt
    modifications:
      - action: CREATE_FILE
        snippet: "x"
        content: "y"
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject CREATE_FILE with a snippet")
	}
}

func TestParseYAML_ReplaceRequiresContent(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: a.txt
    modifications:
      - action: REPLACE
        snippet: "x"
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject REPLACE with no content")
	}
}

func TestParseYAML_NegativeBlankLineCount(t *testing.T) {
	data := []byte(`
version: "2.0"
changes:
  - file_path: a.txt
    modifications:
      - action: REPLACE
        snippet: "x"
        content: "y"
        include_leading_blank_lines: -1
`)
	if _, err := ParseYAML(data); err == nil {
		t.Error("ParseYAML() should reject a negative include_leading_blank_lines")
	}
}

func TestParseLineForm_DecodesPointReplace(t *testing.T) {
	lf := []byte("7f3a:VERSION 2.0\n" +
		"7f3a:FILE src/app.py\n" +
		"7f3a:MOD REPLACE\n" +
		"7f3a:SNIPPET setting: \"default\"\n" +
		"7f3a:CONTENT\n" +
		"setting: \"overridden\"\n" +
		"7f3a:ENDCONTENT\n" +
		"7f3a:ENDMOD\n" +
		"7f3a:ENDFILE\n")

	doc, err := ParseLineForm(lf)
	if err != nil {
		t.Fatalf("ParseLineForm() error = %v", err)
	}
	if len(doc.Changes) != 1 || len(doc.Changes[0].Modifications) != 1 {
		t.Fatalf("unexpected shape: %+v", doc)
	}
	mod := doc.Changes[0].Modifications[0]
	if mod.Action != Replace {
		t.Errorf("Action = %q, want REPLACE", mod.Action)
	}
	if mod.Snippet != `setting: "default"` {
		t.Errorf("Snippet = %q", mod.Snippet)
	}
	if mod.Content != `setting: "overridden"` {
		t.Errorf("Content = %q", mod.Content)
	}
}

func TestParseLineForm_ContentSurvivesDirectiveLookingLines(t *testing.T) {
	lf := []byte("ab12:VERSION 2.0\n" +
		"ab12:FILE notes.txt\n" +
		"ab12:MOD INSERT_AFTER\n" +
		"ab12:SNIPPET intro\n" +
		"ab12:CONTENT\n" +
		"ab12:FILE this looks like a directive but is just content\n" +
		"ab12:ENDCONTENT\n" +
		"ab12:ENDMOD\n" +
		"ab12:ENDFILE\n")

	doc, err := ParseLineForm(lf)
	if err != nil {
		t.Fatalf("ParseLineForm() error = %v", err)
	}
	want := "ab12:FILE this looks like a directive but is just content"
	if doc.Changes[0].Modifications[0].Content != want {
		t.Errorf("Content = %q, want %q", doc.Changes[0].Modifications[0].Content, want)
	}
}

func TestParseLineForm_MissingVersionFirst(t *testing.T) {
	lf := []byte("abcd:FILE a.txt\n")
	if _, err := ParseLineForm(lf); err == nil {
		t.Error("ParseLineForm() should require VERSION as the first directive")
	}
}

func TestParseLineForm_UnterminatedContent(t *testing.T) {
	lf := []byte("aaaa:VERSION 2.0\n" +
		"aaaa:FILE a.txt\n" +
		"aaaa:MOD REPLACE\n" +
		"aaaa:SNIPPET x\n" +
		"aaaa:CONTENT\n" +
		"y\n")
	if _, err := ParseLineForm(lf); err == nil {
		t.Error("ParseLineForm() should reject an unterminated CONTENT block")
	}
}

func TestParseLineForm_RejectsInvalidAction(t *testing.T) {
	lf := []byte("ffff:VERSION 2.0\n" +
		"ffff:FILE a.txt\n" +
		"ffff:MOD REWRITE\n")
	if _, err := ParseLineForm(lf); err == nil {
		t.Error("ParseLineForm() should reject an unknown action")
	}
}
