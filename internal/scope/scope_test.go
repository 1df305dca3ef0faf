package scope

import (
	"testing"

	"github.com/hollowbranch/tecl/internal/value"
)

func TestSetGetScalarInCurrentFrame(t *testing.T) {
	s := New()
	if err := s.SetScalar("x", value.FromInt(7)); err != nil {
		t.Fatalf("SetScalar error: %v", err)
	}
	v, err := s.GetScalar("x")
	if err != nil {
		t.Fatalf("GetScalar error: %v", err)
	}
	if v.AsString() != "7" {
		t.Fatalf("GetScalar = %q, want 7", v.AsString())
	}
}

func TestGetUnsetVariableErrors(t *testing.T) {
	s := New()
	if _, err := s.GetScalar("nope"); err == nil {
		t.Fatalf("expected error reading unset variable")
	}
}

func TestPushPopIsolatesLocals(t *testing.T) {
	s := New()
	s.SetScalar("g", value.FromString("global"))
	s.Push()
	if _, err := s.GetScalar("g"); err == nil {
		t.Fatalf("expected local frame not to see global scalar without a link")
	}
	s.SetScalar("loc", value.FromString("local"))
	s.Pop()
	if _, err := s.GetScalar("loc"); err == nil {
		t.Fatalf("expected popped frame's locals to be gone")
	}
}

func TestUpvarAliasesGlobal(t *testing.T) {
	s := New()
	s.SetScalar("g", value.FromInt(1))
	s.Push()
	if err := s.Upvar("g", 0, "g"); err != nil {
		t.Fatalf("Upvar error: %v", err)
	}
	if err := s.SetScalar("g", value.FromInt(2)); err != nil {
		t.Fatalf("SetScalar through link error: %v", err)
	}
	s.Pop()
	v, err := s.GetScalar("g")
	if err != nil {
		t.Fatalf("GetScalar error: %v", err)
	}
	if v.AsString() != "2" {
		t.Fatalf("global g = %q, want 2 (written through upvar link)", v.AsString())
	}
}

func TestArrayElementsAreANamespaceSeparateFromScalars(t *testing.T) {
	s := New()
	if err := s.ArraySet("a", "k1", value.FromString("v1")); err != nil {
		t.Fatalf("ArraySet error: %v", err)
	}
	if !s.ArrayExists("a") {
		t.Fatalf("expected array to exist")
	}
	if err := s.SetScalar("a", value.FromInt(1)); err == nil {
		t.Fatalf("expected error using an array name as a scalar")
	}
	v, err := s.ArrayGet("a", "k1")
	if err != nil {
		t.Fatalf("ArrayGet error: %v", err)
	}
	if v.AsString() != "v1" {
		t.Fatalf("ArrayGet = %q, want v1", v.AsString())
	}
	if s.ArraySize("a") != 1 {
		t.Fatalf("ArraySize = %d, want 1", s.ArraySize("a"))
	}
}

func TestUnsetThroughLinkUnsetsTargetAndLink(t *testing.T) {
	s := New()
	s.SetScalar("g", value.FromInt(9))
	s.Push()
	s.Upvar("g", 0, "g")
	if err := s.Unset("g"); err != nil {
		t.Fatalf("Unset error: %v", err)
	}
	// Matches Tcl's own `unset` on a linked variable: the target is
	// unset too, and the local alias goes with it.
	if _, err := s.GetScalarAt(0, "g"); err == nil {
		t.Fatalf("expected global g to be unset through the link")
	}
	if s.Exists("g") {
		t.Fatalf("expected local alias g to be gone after Unset")
	}
}

func TestNamesListsScalarsArraysAndLinks(t *testing.T) {
	s := New()
	s.SetScalar("g", value.FromInt(1))
	s.Push()
	s.SetScalar("loc", value.FromString("x"))
	s.ArraySet("arr", "k", value.FromString("v"))
	s.Upvar("alias", 0, "g")

	names := s.Names()
	want := map[string]bool{"loc": true, "arr": true, "alias": true}
	got := map[string]bool{}
	for _, n := range names {
		got[n] = true
	}
	for n := range want {
		if !got[n] {
			t.Fatalf("Names() = %v, missing %q", names, n)
		}
	}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want exactly %v", names, want)
	}
}
