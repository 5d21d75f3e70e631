package engine

import "testing"

func TestNormalize_StripsBlanksAndTrims(t *testing.T) {
	lines := []string{"  def f():", "", "    print(\"a\")  ", "   "}
	got := Normalize(lines)
	want := []NormalizedLine{
		{Text: "def f():", Origin: 0},
		{Text: "print(\"a\")", Origin: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNormalizePattern_TrimsAndDropsBlanks(t *testing.T) {
	got := NormalizePattern("  a  \n\n  b\n")
	want := []string{"a", "b"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("NormalizePattern() = %v, want %v", got, want)
	}
}

func TestNormalizePattern_AllWhitespaceIsEmpty(t *testing.T) {
	got := NormalizePattern("   \n\t\n")
	if len(got) != 0 {
		t.Errorf("NormalizePattern() = %v, want empty", got)
	}
}
