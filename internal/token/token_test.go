package token

import "testing"

func backslashSubst(t *testing.T, input string) rune {
	t.Helper()
	c := New(input)
	if c.Next() != '\\' {
		t.Fatalf("input %q must start with a backslash", input)
	}
	return c.BackslashSubst()
}

func TestBackslashSubstControlChars(t *testing.T) {
	tests := []struct {
		input string
		want  rune
	}{
		{`\a`, '\a'},
		{`\b`, '\b'},
		{`\f`, '\f'},
		{`\n`, '\n'},
		{`\r`, '\r'},
		{`\t`, '\t'},
		{`\v`, '\v'},
		{`\\`, '\\'},
		{`\q`, 'q'},
	}
	for _, tt := range tests {
		if got := backslashSubst(t, tt.input); got != tt.want {
			t.Errorf("BackslashSubst(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBackslashSubstHex(t *testing.T) {
	if got := backslashSubst(t, `\x41`); got != 'A' {
		t.Errorf("BackslashSubst(\\x41) = %q, want 'A'", got)
	}
	if got := backslashSubst(t, `\x4`); got != '\x04' {
		t.Errorf("BackslashSubst(\\x4) = %q, want 0x04", got)
	}
}

func TestBackslashSubstUnicode(t *testing.T) {
	if got := backslashSubst(t, `\u0041`); got != 'A' {
		t.Errorf(`BackslashSubst(\u0041) = %q, want 'A'`, got)
	}
}

// A \x or \u with no hex digit following is not a valid escape at all;
// per spec.md 4.1's "\<other> -> <other>" rule it must decode to the
// escape character itself, not to a hard-coded 'x'.
func TestBackslashSubstEmptyHexFallsBackToEscapeChar(t *testing.T) {
	if got := backslashSubst(t, `\x!`); got != 'x' {
		t.Errorf("BackslashSubst(\\x!) = %q, want 'x'", got)
	}
	if got := backslashSubst(t, `\u!`); got != 'u' {
		t.Errorf("BackslashSubst(\\u!) = %q, want 'u'", got)
	}
}

func TestBackslashSubstNewlineBecomesSpace(t *testing.T) {
	if got := backslashSubst(t, "\\\n  next"); got != ' ' {
		t.Errorf("BackslashSubst(\\<newline>) = %q, want ' '", got)
	}
}

func TestBackslashSubstEOFReturnsBackslash(t *testing.T) {
	if got := backslashSubst(t, `\`); got != '\\' {
		t.Errorf("BackslashSubst at EOF = %q, want backslash", got)
	}
}
