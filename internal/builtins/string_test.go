package builtins_test

import "testing"

func TestStringLengthCountsRunes(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string length hello`); got != "5" {
		t.Fatalf("got %q, want 5", got)
	}
}

func TestStringIndexAndEnd(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string index hello 0`); got != "h" {
		t.Fatalf("got %q, want h", got)
	}
	if got := mustEval(t, ip, `string index hello end`); got != "o" {
		t.Fatalf("got %q, want o", got)
	}
}

func TestStringRange(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string range hello 1 3`); got != "ell" {
		t.Fatalf("got %q, want ell", got)
	}
}

func TestStringCaseConversion(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string toupper hello`); got != "HELLO" {
		t.Fatalf("got %q, want HELLO", got)
	}
	if got := mustEval(t, ip, `string tolower HELLO`); got != "hello" {
		t.Fatalf("got %q, want hello", got)
	}
}

func TestStringTrimVariants(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string trim "  hi  "`); got != "hi" {
		t.Fatalf("got %q, want hi", got)
	}
	if got := mustEval(t, ip, `string trimleft "xxhixx" x`); got != "hixx" {
		t.Fatalf("got %q, want hixx", got)
	}
	if got := mustEval(t, ip, `string trimright "xxhixx" x`); got != "xxhi" {
		t.Fatalf("got %q, want xxhi", got)
	}
}

func TestStringMatchGlob(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string match "a*c" abc`); got != "1" {
		t.Fatalf("got %q, want 1", got)
	}
	if got := mustEval(t, ip, `string match "a?c" abc`); got != "1" {
		t.Fatalf("got %q, want 1", got)
	}
	if got := mustEval(t, ip, `string match "a?c" abcd`); got != "0" {
		t.Fatalf("got %q, want 0", got)
	}
}

func TestStringRepeat(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string repeat ab 3`); got != "ababab" {
		t.Fatalf("got %q, want ababab", got)
	}
}

func TestStringCompare(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string compare abc abd`); got != "-1" {
		t.Fatalf("got %q, want -1", got)
	}
	if got := mustEval(t, ip, `string compare abc abc`); got != "0" {
		t.Fatalf("got %q, want 0", got)
	}
}

func TestStringFirst(t *testing.T) {
	ip := newInterp()
	if got := mustEval(t, ip, `string first ll hello`); got != "2" {
		t.Fatalf("got %q, want 2", got)
	}
	if got := mustEval(t, ip, `string first zz hello`); got != "-1" {
		t.Fatalf("got %q, want -1", got)
	}
}
