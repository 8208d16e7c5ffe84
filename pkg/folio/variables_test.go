package folio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVariables(t *testing.T) {
	v := NewVariables()
	v.Set("B", "1")
	v.Set("A", "2")
	v.Set("b", "3")
	v.Set("B", "4")

	if diff := cmp.Diff([]string{"B", "A", "b"}, v.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if got := v.Lookup("B"); got != "4" {
		t.Errorf("Lookup(B) = %q, want 4", got)
	}
	if v.Has("a") {
		t.Error("keys are case-sensitive")
	}

	v.Set("EMPTY", "")
	if !v.Has("EMPTY") {
		t.Error("Has() must report keys with empty values")
	}

	v.Delete("A")
	v.Delete("missing")
	if diff := cmp.Diff([]string{"B", "b", "EMPTY"}, v.Keys()); diff != "" {
		t.Errorf("Keys() after Delete mismatch (-want +got):\n%s", diff)
	}
	if v.String() != "{B=4, b=3, EMPTY=}" {
		t.Errorf("String() = %s", v.String())
	}
}

func TestVariablesClone(t *testing.T) {
	v := VariablesFrom("A", "1", "B", "2", "DANGLING")
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", v.Len())
	}

	c := v.Clone()
	c.Set("A", "changed")
	c.Set("C", "3")
	if v.Lookup("A") != "1" || v.Has("C") {
		t.Errorf("Clone() shares state with original: %v", v)
	}
}

func TestVariablesNil(t *testing.T) {
	var v *Variables
	if v.Len() != 0 || v.Has("A") || v.Keys() != nil {
		t.Error("nil *Variables should behave as empty")
	}

	var zero Variables
	zero.Set("A", "1")
	if zero.Lookup("A") != "1" {
		t.Error("zero Variables should be usable")
	}
}
