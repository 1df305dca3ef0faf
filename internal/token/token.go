// Package token implements the character cursor shared by the script
// parser and the expression lexer.
//
// A Cursor owns the full input string plus a head index (the current
// read position) and a mark index (the start of whatever token is being
// accumulated). All operations are byte-index based but rune-aware: peek
// and next decode a single UTF-8 rune without assuming ASCII, matching
// the column-counting approach used by "_examples/CWBudde-go-dws/internal/lexer".
package token

import "unicode/utf8"

// Position identifies a location within a script, used to annotate
// parser and runtime errors with a line/column for display.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// EOF is the sentinel rune returned by Peek/Next at end of input.
const EOF = -1

// Cursor is a byte-index cursor over a script string with a mark/head
// pair, as specified for the Tokenizer component.
type Cursor struct {
	input string
	head  int
	mark  int
}

// New creates a Cursor over the given input, head and mark both at 0.
func New(input string) *Cursor {
	return &Cursor{input: input}
}

// Peek returns the rune at head without advancing. Returns EOF at end of
// input.
func (c *Cursor) Peek() rune {
	if c.head >= len(c.input) {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.head:])
	return r
}

// PeekAt returns the rune offset runes ahead of head without advancing,
// or EOF if that position is at or past the end of input. offset 0 is
// equivalent to Peek.
func (c *Cursor) PeekAt(offset int) rune {
	i := c.head
	for ; offset > 0 && i < len(c.input); offset-- {
		_, size := utf8.DecodeRuneInString(c.input[i:])
		i += size
	}
	if offset > 0 || i >= len(c.input) {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(c.input[i:])
	return r
}

// Next returns the rune at head and advances head past it. Returns EOF
// and does not advance at end of input.
func (c *Cursor) Next() rune {
	if c.head >= len(c.input) {
		return EOF
	}
	r, size := utf8.DecodeRuneInString(c.input[c.head:])
	c.head += size
	return r
}

// AtEnd reports whether head has reached the end of input.
func (c *Cursor) AtEnd() bool {
	return c.head >= len(c.input)
}

// Head returns the current head byte offset.
func (c *Cursor) Head() int { return c.head }

// SetHead repositions head to an arbitrary byte offset, used by the
// expression lexer to back up over an exponent marker with no digits.
func (c *Cursor) SetHead(pos int) { c.head = pos }

// SkipWhile advances head while pred holds for the character at head,
// stopping at the first character for which pred is false or at EOF.
func (c *Cursor) SkipWhile(pred func(rune) bool) {
	for {
		r := c.Peek()
		if r == EOF || !pred(r) {
			return
		}
		c.Next()
	}
}

// MarkHead sets mark to the current head, beginning a new token.
func (c *Cursor) MarkHead() { c.mark = c.head }

// Token returns the substring from mark to head, the empty string if
// they coincide.
func (c *Cursor) Token() string {
	return c.input[c.mark:c.head]
}

// NextToken returns Token() and then re-marks at the current head, so
// that a subsequent Token() call starts accumulating a fresh token.
func (c *Cursor) NextToken() string {
	t := c.Token()
	c.mark = c.head
	return t
}

// Backup resets head back to mark, discarding anything consumed since
// the last MarkHead/NextToken call.
func (c *Cursor) Backup() {
	c.head = c.mark
}

// Remainder returns the as-yet-unconsumed suffix of the input, starting
// at head.
func (c *Cursor) Remainder() string {
	return c.input[c.head:]
}

// PositionOf computes the line/column of a byte offset within the
// cursor's input, used to annotate errors. Lines are 1-based; columns
// are 1-based rune counts within the line, matching the convention
// documented on "_examples/CWBudde-go-dws/internal/lexer.Lexer".
func (c *Cursor) PositionOf(offset int) Position {
	line := 1
	col := 1
	for i := 0; i < offset && i < len(c.input); {
		r, size := utf8.DecodeRuneInString(c.input[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i += size
	}
	return Position{Line: line, Column: col}
}

// BackslashSubst consumes a backslash escape sequence starting at the
// current head (head must be positioned just past the leading '\') and
// returns the decoded rune. Recognized escapes, per spec.md 4.1:
//
//	\a \b \f \n \r \t \v   -> control characters
//	\\                     -> backslash
//	\<newline>              -> a single space (and any following
//	                           horizontal whitespace is also consumed)
//	\xHH                    -> up to two hex digits
//	\uHHHH                  -> up to four hex digits
//	\<other>                -> <other> itself
func (c *Cursor) BackslashSubst() rune {
	r := c.Next()
	switch r {
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	case '\\':
		return '\\'
	case '\n':
		c.SkipWhile(func(r rune) bool { return r == ' ' || r == '\t' })
		return ' '
	case 'x':
		return c.readHexDigits(2, 'x')
	case 'u':
		return c.readHexDigits(4, 'u')
	case EOF:
		return '\\'
	default:
		return r
	}
}

// readHexDigits consumes up to max hex digits and returns the decoded
// rune. If no hex digit follows, the escape is not a valid \x or \u
// sequence at all, and per spec.md 4.1's "\<other> -> <other>" fallback
// it decodes to the escape character itself (fallback, not literal 'x').
func (c *Cursor) readHexDigits(max int, fallback rune) rune {
	var v rune
	n := 0
	for n < max {
		r := c.Peek()
		d, ok := hexDigit(r)
		if !ok {
			break
		}
		v = v*16 + rune(d)
		c.Next()
		n++
	}
	if n == 0 {
		return fallback
	}
	return v
}

func hexDigit(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	default:
		return 0, false
	}
}

// IsListWhitespace reports whether r is one of the list whitespace
// characters defined in spec.md 4.3: space, tab, CR, LF, vertical tab,
// or form feed.
func IsListWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	default:
		return false
	}
}

// IsLineWhitespace reports whether r separates words within a command
// without ending it: space, tab, or a backslash-newline continuation is
// handled by the caller. Unlike IsListWhitespace this excludes newline
// and CR, which are command separators at the script level.
func IsLineWhitespace(r rune) bool {
	return r == ' ' || r == '\t'
}
