package engine

import (
	"reflect"
	"testing"
)

func TestEffectiveIndent(t *testing.T) {
	lines := []string{"    return a + b"}
	if got := EffectiveIndent(lines, 0); got != "    " {
		t.Errorf("EffectiveIndent() = %q, want 4 spaces", got)
	}
}

func TestReflowContent_PreservesRelativeIndentAndBlankLines(t *testing.T) {
	content := "# note\nif x:\n\n    x = 1"
	got := ReflowContent(content, "    ")
	want := []string{"    # note", "    if x:", "", "        x = 1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReflowContent() = %#v, want %#v", got, want)
	}
}
