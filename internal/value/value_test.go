package value

import "testing"

func TestAsStringCachesComputedForm(t *testing.T) {
	v := FromInt(42)
	if got := v.AsString(); got != "42" {
		t.Fatalf("AsString() = %q, want 42", got)
	}
	// Calling again must return the same cached string.
	if got := v.AsString(); got != "42" {
		t.Fatalf("AsString() second call = %q, want 42", got)
	}
}

func TestFromBoolStringRep(t *testing.T) {
	tests := []struct {
		b    bool
		want string
	}{
		{true, "1"},
		{false, "0"},
	}
	for _, tt := range tests {
		if got := FromBool(tt.b).AsString(); got != tt.want {
			t.Errorf("FromBool(%v).AsString() = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestEqualityIsStringRepEquality(t *testing.T) {
	a := FromInt(5)
	b := FromString("5")
	if !a.Equal(b) {
		t.Fatalf("expected FromInt(5) to equal FromString(\"5\")")
	}

	c := FromString("5.0")
	if a.Equal(c) {
		t.Fatalf("expected FromInt(5) to NOT equal FromString(\"5.0\") (string reps differ)")
	}
}

func TestAsIntCachesAndReplacesKind(t *testing.T) {
	v := FromString("  42 ")
	i, err := v.AsInt()
	if err != nil {
		t.Fatalf("AsInt() error: %v", err)
	}
	if i != 42 {
		t.Fatalf("AsInt() = %d, want 42", i)
	}
	if v.Kind() != KindInt {
		t.Fatalf("Kind() = %v, want KindInt", v.Kind())
	}
	// String rep is untouched by the successful coercion.
	if v.AsString() != "  42 " {
		t.Fatalf("AsString() = %q, want unchanged original", v.AsString())
	}
}

func TestAsListInstallsListKindWithoutAlteringStringRep(t *testing.T) {
	v := FromString("a b c")
	items, err := v.AsList()
	if err != nil {
		t.Fatalf("AsList() error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if v.AsString() != "a b c" {
		t.Fatalf("AsString() = %q, want unchanged", v.AsString())
	}
}

func TestAlreadyNumberDoesNotCoerce(t *testing.T) {
	v := FromString("42")
	if _, ok := v.AlreadyNumber(); ok {
		t.Fatalf("AlreadyNumber() should be false before any coercion")
	}
	if _, err := v.AsInt(); err != nil {
		t.Fatalf("AsInt() error: %v", err)
	}
	n, ok := v.AlreadyNumber()
	if !ok || !n.IsInt || n.I != 42 {
		t.Fatalf("AlreadyNumber() = %+v, %v, want int 42", n, ok)
	}
}

func TestListRoundTrip(t *testing.T) {
	cases := [][]string{
		{"a b", "", `c\d`},
		{"one", "two", "three"},
		{},
		{"{braced}", "un{bal}anced is fine alone"},
		{"#comment-looking"},
	}
	for _, items := range cases {
		vals := make([]Value, len(items))
		for i, s := range items {
			vals[i] = FromString(s)
		}
		formatted := FormatList(vals)
		parsed, err := ParseList(formatted)
		if err != nil {
			t.Fatalf("ParseList(%q) error: %v", formatted, err)
		}
		if len(parsed) != len(items) {
			t.Fatalf("ParseList(%q) = %d items, want %d", formatted, len(parsed), len(items))
		}
		for i, p := range parsed {
			if p.AsString() != items[i] {
				t.Errorf("round-trip[%d] = %q, want %q (formatted=%q)", i, p.AsString(), items[i], formatted)
			}
		}
	}
}

func TestParseListBraceCounting(t *testing.T) {
	items, err := ParseList(`{a {b c} d} plain`)
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].AsString() != "a {b c} d" {
		t.Fatalf("items[0] = %q, want %q", items[0].AsString(), "a {b c} d")
	}
}

func TestParseListUnmatchedBraceIsError(t *testing.T) {
	if _, err := ParseList("{unterminated"); err == nil {
		t.Fatalf("expected error for unmatched brace")
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
		ok   bool
	}{
		{"1", true, true},
		{"TRUE", true, true},
		{" yes ", true, true},
		{"0", false, true},
		{"off", false, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		got, ok := ParseBool(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseBool(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseNumberIntWinsTie(t *testing.T) {
	n, ok := ParseNumber("42")
	if !ok || !n.IsInt {
		t.Fatalf("ParseNumber(42) = %+v, %v; want int", n, ok)
	}
}

func TestParseFloatRequiresDigitAfterExponent(t *testing.T) {
	if _, ok := ParseFloat("1e"); ok {
		t.Fatalf("ParseFloat(1e) should fail: no digits after exponent marker")
	}
	if _, ok := ParseFloat("1e10"); !ok {
		t.Fatalf("ParseFloat(1e10) should succeed")
	}
}

func TestLooksLikeInt(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"42", true},
		{"-7", true},
		{"3.14", false},
		{"3e5", false},
		{"", false},
		{"abc", false},
	}
	for _, tt := range tests {
		if got := LooksLikeInt(tt.in); got != tt.want {
			t.Errorf("LooksLikeInt(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDictPreservesFirstOccurrencePosition(t *testing.T) {
	d := NewDict()
	d.Set(FromString("a"), FromString("1"))
	d.Set(FromString("b"), FromString("2"))
	d.Set(FromString("a"), FromString("3"))

	keys := d.Keys()
	if len(keys) != 2 || keys[0].AsString() != "a" || keys[1].AsString() != "b" {
		t.Fatalf("Keys() = %v, want [a b]", keys)
	}
	v, _ := d.Get(FromString("a"))
	if v.AsString() != "3" {
		t.Fatalf("Get(a) = %q, want 3 (last value wins)", v.AsString())
	}
}
