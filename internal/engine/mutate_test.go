package engine

import (
	"reflect"
	"testing"
)

func TestReplace(t *testing.T) {
	lines := []string{"a", "b", "c"}
	got := Replace(lines, LineRange{Start: 1, End: 1}, []string{"x", "y"})
	want := []string{"a", "x", "y", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Replace() = %v, want %v", got, want)
	}
}

func TestDelete(t *testing.T) {
	lines := []string{"a", "b", "c", "d"}
	got := Delete(lines, LineRange{Start: 1, End: 2})
	want := []string{"a", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Delete() = %v, want %v", got, want)
	}
}

func TestInsertAfter(t *testing.T) {
	lines := []string{"a", "b", "c"}
	got := InsertAfter(lines, LineRange{Start: 0, End: 0}, []string{"x"})
	want := []string{"a", "x", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InsertAfter() = %v, want %v", got, want)
	}
}

func TestInsertBefore(t *testing.T) {
	lines := []string{"a", "b", "c"}
	got := InsertBefore(lines, LineRange{Start: 2, End: 2}, []string{"x"})
	want := []string{"a", "b", "x", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InsertBefore() = %v, want %v", got, want)
	}
}

func TestCreateFileLines(t *testing.T) {
	got := CreateFileLines("a\nb\n")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CreateFileLines() = %v, want %v", got, want)
	}
}
