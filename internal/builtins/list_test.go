package builtins_test

import (
	"testing"
)

func TestListBuildsBareWordList(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `list a b c`); got != "a b c" {
		t.Fatalf("got %q, want %q", got, "a b c")
	}
}

func TestLlength(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `llength {a b c}`); got != "3" {
		t.Fatalf("got %q, want 3", got)
	}
}

func TestLindexPlainAndEnd(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `lindex {a b c} 1`); got != "b" {
		t.Fatalf("got %q, want b", got)
	}
	if got := mustEval(t, ip, `lindex {a b c} end`); got != "c" {
		t.Fatalf("got %q, want c", got)
	}
	if got := mustEval(t, ip, `lindex {a b c} end-1`); got != "b" {
		t.Fatalf("got %q, want b", got)
	}
}

func TestLindexNested(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `lindex {{a b} {c d}} 1 0`); got != "c" {
		t.Fatalf("got %q, want c", got)
	}
}

func TestLindexOutOfRangeIsEmpty(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `lindex {a b c} 10`); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestLappendCreatesAndGrowsList(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `lappend mylist a b`); got != "a b" {
		t.Fatalf("got %q, want %q", got, "a b")
	}
	if got := mustEval(t, ip, `lappend mylist c`); got != "a b c" {
		t.Fatalf("got %q, want %q", got, "a b c")
	}
}

func TestJoinWithAndWithoutSeparator(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `join {a b c}`); got != "a b c" {
		t.Fatalf("got %q, want %q", got, "a b c")
	}
	if got := mustEval(t, ip, `join {a b c} ", "`); got != "a, b, c" {
		t.Fatalf("got %q, want %q", got, "a, b, c")
	}
}

func TestLrange(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `lrange {a b c d e} 1 3`); got != "b c d" {
		t.Fatalf("got %q, want %q", got, "b c d")
	}
	if got := mustEval(t, ip, `lrange {a b c d e} 2 end`); got != "c d e" {
		t.Fatalf("got %q, want %q", got, "c d e")
	}
}

func TestLsearchExactAndGlob(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `lsearch -exact {apple banana cherry} banana`); got != "1" {
		t.Fatalf("got %q, want 1", got)
	}
	if got := mustEval(t, ip, `lsearch {apple banana cherry} ban*`); got != "1" {
		t.Fatalf("got %q, want 1", got)
	}
	if got := mustEval(t, ip, `lsearch {apple banana cherry} missing`); got != "-1" {
		t.Fatalf("got %q, want -1", got)
	}
}

func TestLsortAsciiAndNumericDecreasing(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `lsort {banana apple cherry}`); got != "apple banana cherry" {
		t.Fatalf("got %q, want %q", got, "apple banana cherry")
	}
	if got := mustEval(t, ip, `lsort -integer -decreasing {3 1 2}`); got != "3 2 1" {
		t.Fatalf("got %q, want %q", got, "3 2 1")
	}
}

func TestLset(t *testing.T) {
	ip := newInterp()
	mustEval(t, ip, `set mylist {a b c}`)
	if got := mustEval(t, ip, `lset mylist 1 B`); got != "a B c" {
		t.Fatalf("got %q, want %q", got, "a B c")
	}
	if got := mustEval(t, ip, `set mylist`); got != "a B c" {
		t.Fatalf("got %q, want %q", got, "a B c")
	}
}

func TestLinsert(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `linsert {a b c} 1 X Y`); got != "a X Y b c" {
		t.Fatalf("got %q, want %q", got, "a X Y b c")
	}
	if got := mustEval(t, ip, `linsert {a b c} end Z`); got != "a b c Z" {
		t.Fatalf("got %q, want %q", got, "a b c Z")
	}
}
