package builtins_test

import "testing"

func TestDictCreateGetSet(t *testing.T) {
	ip := newInterp()
	mustEval(t, ip, `set d [dict create a 1 b 2]`)
	if got := mustEval(t, ip, `dict get $d a`); got != "1" {
		t.Fatalf("got %q, want 1", got)
	}
	if got := mustEval(t, ip, `set d2 [dict set $d c 3]; dict get $d2 c`); got != "3" {
		t.Fatalf("got %q, want 3", got)
	}
	// Original dict is untouched by dict set (no mutate in place).
	if got := mustEval(t, ip, `dict exists $d c`); got != "0" {
		t.Fatalf("original dict got a key it shouldn't have: %q", got)
	}
}

func TestDictExistsKeysValuesSize(t *testing.T) {
	ip := newInterp()
	mustEval(t, ip, `set d [dict create x 10 y 20]`)
	if got := mustEval(t, ip, `dict exists $d x`); got != "1" {
		t.Fatalf("got %q, want 1", got)
	}
	if got := mustEval(t, ip, `dict exists $d z`); got != "0" {
		t.Fatalf("got %q, want 0", got)
	}
	if got := mustEval(t, ip, `dict keys $d`); got != "x y" {
		t.Fatalf("got %q, want %q", got, "x y")
	}
	if got := mustEval(t, ip, `dict values $d`); got != "10 20" {
		t.Fatalf("got %q, want %q", got, "10 20")
	}
	if got := mustEval(t, ip, `dict size $d`); got != "2" {
		t.Fatalf("got %q, want 2", got)
	}
}

func TestDictRemove(t *testing.T) {
	ip := newInterp()
	mustEval(t, ip, `set d [dict create a 1 b 2 c 3]`)
	mustEval(t, ip, `set d2 [dict remove $d b]`)
	if got := mustEval(t, ip, `dict keys $d2`); got != "a c" {
		t.Fatalf("got %q, want %q", got, "a c")
	}
}

func TestDictGetUnknownKeyErrors(t *testing.T) {
	ip := newInterp()
	mustEval(t, ip, `set d [dict create a 1]`)
	if _, err := ip.Eval(`dict get $d missing`); err == nil {
		t.Fatalf("expected error for missing dict key")
	}
}
