// Package exprlang implements the expression sub-language: a distinct
// lexer and precedence-climbing parser operating on the string form of
// an expression Value, per spec.md section 4.6.
//
// The evaluator never touches variables or runs commands directly; it
// calls back into a Context for the few constructs that need the host
// interpreter (scalar/array variable reads, and evaluating a Word - the
// same construct the script evaluator uses for "$name", "$name(idx)",
// "[script]", and the interpolation inside a quoted or braced atom).
// This keeps exprlang free of any dependency on the interp package,
// matching the "distinct lexer+parser" architecture note in spec.md
// section 9.
package exprlang

import (
	"fmt"
	"strings"

	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/parser"
	"github.com/hollowbranch/tecl/internal/tast"
	"github.com/hollowbranch/tecl/internal/token"
	"github.com/hollowbranch/tecl/internal/value"
)

// Context is the callback surface an embedding interpreter provides so
// the expression evaluator can resolve variables and nested
// substitutions without depending on the interp package.
type Context interface {
	Scalar(name string) (value.Value, error)
	ArrayElem(name string, index value.Value) (value.Value, error)
	EvalWord(w tast.Word) (value.Value, error)
}

// evaluator holds the parse state for a single expression evaluation.
type evaluator struct {
	c      *token.Cursor
	ctx    Context
	noEval int // >0 while evaluating a short-circuited/untaken branch
	src    string
}

// Eval evaluates an expression string to a Value, per spec.md 4.6.
func Eval(src string, ctx Context) (value.Value, error) {
	e := &evaluator{c: token.New(src), ctx: ctx, src: src}
	e.skipSpace()
	v, err := e.parseTernary()
	if err != nil {
		return value.Value{}, err
	}
	e.skipSpace()
	if !e.c.AtEnd() {
		return value.Value{}, e.syntaxErr()
	}
	return v, nil
}

func (e *evaluator) syntaxErr() error {
	return ierrors.New("syntax error in expression %q", e.src)
}

func (e *evaluator) skipSpace() {
	e.c.SkipWhile(func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
	})
}

// suppressed reports whether the evaluator is currently inside a
// short-circuited branch.
func (e *evaluator) suppressed() bool {
	return e.noEval > 0
}

// --- operator matching helpers -------------------------------------------------

// tryOp attempts to consume the literal operator text op (after skipping
// leading space), reporting whether it matched. It is used for
// punctuation operators, which need no word-boundary check.
func (e *evaluator) tryOp(op string) bool {
	e.skipSpace()
	if strings.HasPrefix(e.c.Remainder(), op) {
		// Consumes op as-is; callers avoid taking a longer operator's
		// prefix (e.g. "<" of "<=") by the order they try operators in.
		for i := 0; i < len(op); i++ {
			e.c.Next()
		}
		return true
	}
	return false
}

// peekOp reports whether the literal operator text op is next, without
// consuming it.
func (e *evaluator) peekOp(op string) bool {
	e.skipSpace()
	return strings.HasPrefix(e.c.Remainder(), op)
}

// tryWordOp attempts to consume a word-operator ("eq", "ne", "in", "ni")
// bounded by a non-identifier character or end of input.
func (e *evaluator) tryWordOp(word string) bool {
	e.skipSpace()
	rest := e.c.Remainder()
	if !strings.HasPrefix(rest, word) {
		return false
	}
	if len(rest) > len(word) && isIdentChar(rune(rest[len(word)])) {
		return false
	}
	for i := 0; i < len(word); i++ {
		e.c.Next()
	}
	return true
}

func isIdentChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// --- precedence levels, lowest to highest --------------------------------------

func (e *evaluator) parseTernary() (value.Value, error) {
	cond, err := e.parseOr()
	if err != nil {
		return value.Value{}, err
	}
	if !e.tryOp("?") {
		return cond, nil
	}
	if e.suppressed() {
		// The condition itself was never evaluated (cond is value.Empty,
		// per the atom parsers' suppressed-branch fallback), so there is
		// nothing to branch on: parse both arms purely for syntax,
		// under continued suppression, and contribute nothing.
		e.pushSuppress(true)
		_, err := e.parseTernary()
		e.popSuppress(true)
		if err != nil {
			return value.Value{}, err
		}
		if !e.tryOp(":") {
			return value.Value{}, e.syntaxErr()
		}
		e.pushSuppress(true)
		_, err = e.parseTernary()
		e.popSuppress(true)
		if err != nil {
			return value.Value{}, err
		}
		return value.Empty, nil
	}
	condBool, err := truthy(cond)
	if err != nil {
		return value.Value{}, err
	}

	thenSuppress := !condBool
	e.pushSuppress(thenSuppress)
	thenVal, err := e.parseTernary()
	e.popSuppress(thenSuppress)
	if err != nil {
		return value.Value{}, err
	}
	if !e.tryOp(":") {
		return value.Value{}, e.syntaxErr()
	}
	elseSuppress := condBool
	e.pushSuppress(elseSuppress)
	elseVal, err := e.parseTernary()
	e.popSuppress(elseSuppress)
	if err != nil {
		return value.Value{}, err
	}
	if condBool {
		return thenVal, nil
	}
	return elseVal, nil
}

func (e *evaluator) pushSuppress(suppress bool) {
	if suppress {
		e.noEval++
	}
}

func (e *evaluator) popSuppress(suppress bool) {
	if suppress {
		e.noEval--
	}
}

func (e *evaluator) parseOr() (value.Value, error) {
	left, err := e.parseAnd()
	if err != nil {
		return value.Value{}, err
	}
	for e.tryOp("||") {
		if e.suppressed() {
			// left is itself a product of a suppressed branch (value.Empty);
			// there is nothing to short-circuit on, so just consume the
			// right operand syntactically without evaluating it.
			if _, err := e.parseAnd(); err != nil {
				return value.Value{}, err
			}
			left = value.Empty
			continue
		}
		leftBool, err := truthy(left)
		if err != nil {
			return value.Value{}, err
		}
		e.pushSuppress(leftBool)
		right, err := e.parseAnd()
		e.popSuppress(leftBool)
		if err != nil {
			return value.Value{}, err
		}
		if leftBool {
			left = value.FromBool(true)
			continue
		}
		rightBool, err := truthy(right)
		if err != nil {
			return value.Value{}, err
		}
		left = value.FromBool(rightBool)
	}
	return left, nil
}

func (e *evaluator) parseAnd() (value.Value, error) {
	left, err := e.parseBitOr()
	if err != nil {
		return value.Value{}, err
	}
	for e.tryOp("&&") {
		if e.suppressed() {
			if _, err := e.parseBitOr(); err != nil {
				return value.Value{}, err
			}
			left = value.Empty
			continue
		}
		leftBool, err := truthy(left)
		if err != nil {
			return value.Value{}, err
		}
		e.pushSuppress(!leftBool)
		right, err := e.parseBitOr()
		e.popSuppress(!leftBool)
		if err != nil {
			return value.Value{}, err
		}
		if !leftBool {
			left = value.FromBool(false)
			continue
		}
		rightBool, err := truthy(right)
		if err != nil {
			return value.Value{}, err
		}
		left = value.FromBool(rightBool)
	}
	return left, nil
}

func (e *evaluator) parseBitOr() (value.Value, error) {
	left, err := e.parseBitXor()
	if err != nil {
		return value.Value{}, err
	}
	for !e.peekOp("||") && e.tryOp("|") {
		right, err := e.parseBitXor()
		if err != nil {
			return value.Value{}, err
		}
		if e.suppressed() {
			left = value.Empty
			continue
		}
		left, err = intOp(left, right, "|", func(a, b int64) (int64, error) { return a | b, nil })
		if err != nil {
			return value.Value{}, err
		}
	}
	return left, nil
}

func (e *evaluator) parseBitXor() (value.Value, error) {
	left, err := e.parseBitAnd()
	if err != nil {
		return value.Value{}, err
	}
	for e.tryOp("^") {
		right, err := e.parseBitAnd()
		if err != nil {
			return value.Value{}, err
		}
		if e.suppressed() {
			left = value.Empty
			continue
		}
		left, err = intOp(left, right, "^", func(a, b int64) (int64, error) { return a ^ b, nil })
		if err != nil {
			return value.Value{}, err
		}
	}
	return left, nil
}

func (e *evaluator) parseBitAnd() (value.Value, error) {
	left, err := e.parseEqNe()
	if err != nil {
		return value.Value{}, err
	}
	for !e.peekOp("&&") && e.tryOp("&") {
		right, err := e.parseEqNe()
		if err != nil {
			return value.Value{}, err
		}
		if e.suppressed() {
			left = value.Empty
			continue
		}
		left, err = intOp(left, right, "&", func(a, b int64) (int64, error) { return a & b, nil })
		if err != nil {
			return value.Value{}, err
		}
	}
	return left, nil
}

func (e *evaluator) parseEqNe() (value.Value, error) {
	left, err := e.parseInNi()
	if err != nil {
		return value.Value{}, err
	}
	for {
		if e.tryWordOp("eq") {
			right, err := e.parseInNi()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left = value.FromBool(left.AsString() == right.AsString())
			continue
		}
		if e.tryWordOp("ne") {
			right, err := e.parseInNi()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left = value.FromBool(left.AsString() != right.AsString())
			continue
		}
		return left, nil
	}
}

func (e *evaluator) parseInNi() (value.Value, error) {
	left, err := e.parseCmpEq()
	if err != nil {
		return value.Value{}, err
	}
	for {
		if e.tryWordOp("in") {
			right, err := e.parseCmpEq()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			found, err := listContains(right, left)
			if err != nil {
				return value.Value{}, err
			}
			left = value.FromBool(found)
			continue
		}
		if e.tryWordOp("ni") {
			right, err := e.parseCmpEq()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			found, err := listContains(right, left)
			if err != nil {
				return value.Value{}, err
			}
			left = value.FromBool(!found)
			continue
		}
		return left, nil
	}
}

func listContains(list, needle value.Value) (bool, error) {
	items, err := list.AsList()
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.AsString() == needle.AsString() {
			return true, nil
		}
	}
	return false, nil
}

func (e *evaluator) parseCmpEq() (value.Value, error) {
	left, err := e.parseRel()
	if err != nil {
		return value.Value{}, err
	}
	for {
		if e.tryOp("==") {
			right, err := e.parseRel()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = compareOp(left, right, "==", func(c int) bool { return c == 0 })
			if err != nil {
				return value.Value{}, err
			}
			continue
		}
		if e.tryOp("!=") {
			right, err := e.parseRel()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = compareOp(left, right, "!=", func(c int) bool { return c != 0 })
			if err != nil {
				return value.Value{}, err
			}
			continue
		}
		return left, nil
	}
}

func (e *evaluator) parseRel() (value.Value, error) {
	left, err := e.parseShift()
	if err != nil {
		return value.Value{}, err
	}
	for {
		switch {
		case e.tryOp("<="):
			right, err := e.parseShift()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = compareOp(left, right, "<=", func(c int) bool { return c <= 0 })
			if err != nil {
				return value.Value{}, err
			}
		case e.tryOp(">="):
			right, err := e.parseShift()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = compareOp(left, right, ">=", func(c int) bool { return c >= 0 })
			if err != nil {
				return value.Value{}, err
			}
		case !e.peekOp("<<") && e.tryOp("<"):
			right, err := e.parseShift()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = compareOp(left, right, "<", func(c int) bool { return c < 0 })
			if err != nil {
				return value.Value{}, err
			}
		case !e.peekOp(">>") && e.tryOp(">"):
			right, err := e.parseShift()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = compareOp(left, right, ">", func(c int) bool { return c > 0 })
			if err != nil {
				return value.Value{}, err
			}
		default:
			return left, nil
		}
	}
}

func (e *evaluator) parseShift() (value.Value, error) {
	left, err := e.parseAdd()
	if err != nil {
		return value.Value{}, err
	}
	for {
		switch {
		case e.tryOp("<<"):
			right, err := e.parseAdd()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = intOp(left, right, "<<", func(a, b int64) (int64, error) { return a << uint(b), nil })
			if err != nil {
				return value.Value{}, err
			}
		case e.tryOp(">>"):
			right, err := e.parseAdd()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = intOp(left, right, ">>", func(a, b int64) (int64, error) { return a >> uint(b), nil })
			if err != nil {
				return value.Value{}, err
			}
		default:
			return left, nil
		}
	}
}

func (e *evaluator) parseAdd() (value.Value, error) {
	left, err := e.parseMul()
	if err != nil {
		return value.Value{}, err
	}
	for {
		switch {
		case e.tryOp("+"):
			right, err := e.parseMul()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = arithOp(left, right, "+", addInt, func(a, b float64) float64 { return a + b })
			if err != nil {
				return value.Value{}, err
			}
		case e.tryOp("-"):
			right, err := e.parseMul()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = arithOp(left, right, "-", subInt, func(a, b float64) float64 { return a - b })
			if err != nil {
				return value.Value{}, err
			}
		default:
			return left, nil
		}
	}
}

func (e *evaluator) parseMul() (value.Value, error) {
	left, err := e.parseUnary()
	if err != nil {
		return value.Value{}, err
	}
	for {
		switch {
		case e.tryOp("*"):
			right, err := e.parseUnary()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = arithOp(left, right, "*", mulInt, func(a, b float64) float64 { return a * b })
			if err != nil {
				return value.Value{}, err
			}
		case e.tryOp("/"):
			right, err := e.parseUnary()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = divOp(left, right)
			if err != nil {
				return value.Value{}, err
			}
		case e.tryOp("%"):
			right, err := e.parseUnary()
			if err != nil {
				return value.Value{}, err
			}
			if e.suppressed() {
				left = value.Empty
				continue
			}
			left, err = modOp(left, right)
			if err != nil {
				return value.Value{}, err
			}
		default:
			return left, nil
		}
	}
}

func (e *evaluator) parseUnary() (value.Value, error) {
	switch {
	case e.tryOp("!"):
		v, err := e.parseUnary()
		if err != nil {
			return value.Value{}, err
		}
		if e.suppressed() {
			return value.Empty, nil
		}
		return notOp(v)
	case e.tryOp("~"):
		v, err := e.parseUnary()
		if err != nil {
			return value.Value{}, err
		}
		if e.suppressed() {
			return value.Empty, nil
		}
		i, err := requireInt(v, "~")
		if err != nil {
			return value.Value{}, err
		}
		return value.FromInt(^i), nil
	case e.tryOp("-"):
		v, err := e.parseUnary()
		if err != nil {
			return value.Value{}, err
		}
		if e.suppressed() {
			return value.Empty, nil
		}
		return negateOp(v)
	case e.tryOp("+"):
		return e.parseUnary()
	default:
		return e.parsePrimary()
	}
}

func (e *evaluator) parsePrimary() (value.Value, error) {
	e.skipSpace()
	r := e.c.Peek()
	switch {
	case r == '(':
		e.c.Next()
		v, err := e.parseTernary()
		if err != nil {
			return value.Value{}, err
		}
		if !e.tryOp(")") {
			return value.Value{}, e.syntaxErr()
		}
		return v, nil
	case r == '$':
		return e.parseVarAtom()
	case r == '[':
		return e.parseScriptAtom()
	case r == '"':
		return e.parseQuotedAtom()
	case r == '{':
		return e.parseBracedAtom()
	case r >= '0' && r <= '9', r == '.':
		return e.parseNumberAtom()
	case isAlpha(r):
		return e.parseIdentAtom()
	default:
		return value.Value{}, e.syntaxErr()
	}
}

func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// numberFirst applies the "number-first parse rule" used throughout
// spec.md 4.6: if v already carries a numeric parsed rep, keep it;
// otherwise try integer, then float, leaving v as a string if neither
// succeeds.
func numberFirst(v value.Value) value.Value {
	if _, ok := v.AlreadyNumber(); ok {
		return v
	}
	if _, err := v.AsInt(); err == nil {
		return v
	}
	if _, err := v.AsFloat(); err == nil {
		return v
	}
	return v
}

func (e *evaluator) parseVarAtom() (value.Value, error) {
	e.c.Next() // consume '$'
	if e.c.Peek() == '{' {
		e.c.Next()
		var sb strings.Builder
		for {
			r := e.c.Peek()
			if r == token.EOF {
				return value.Value{}, e.syntaxErr()
			}
			if r == '}' {
				e.c.Next()
				break
			}
			sb.WriteRune(e.c.Next())
		}
		if e.suppressed() {
			return value.Empty, nil
		}
		return e.ctx.Scalar(sb.String())
	}
	if !isIdentChar(e.c.Peek()) {
		return value.Value{}, e.syntaxErr()
	}
	var name strings.Builder
	for isIdentChar(e.c.Peek()) {
		name.WriteRune(e.c.Next())
	}
	if e.c.Peek() == '(' {
		e.c.Next()
		var idxSrc strings.Builder
		depth := 1
		for {
			r := e.c.Peek()
			if r == token.EOF {
				return value.Value{}, e.syntaxErr()
			}
			if r == '(' {
				depth++
			}
			if r == ')' {
				depth--
				if depth == 0 {
					e.c.Next()
					break
				}
			}
			idxSrc.WriteRune(e.c.Next())
		}
		idxWord, err := parseAsWord(idxSrc.String())
		if err != nil {
			return value.Value{}, err
		}
		if e.suppressed() {
			return value.Empty, nil
		}
		idxVal, err := e.ctx.EvalWord(idxWord)
		if err != nil {
			return value.Value{}, err
		}
		return e.ctx.ArrayElem(name.String(), idxVal)
	}
	if e.suppressed() {
		return value.Empty, nil
	}
	return e.ctx.Scalar(name.String())
}

func (e *evaluator) parseScriptAtom() (value.Value, error) {
	start := e.c.Head()
	e.c.Next() // consume '['
	depth := 1
	for {
		r := e.c.Peek()
		if r == token.EOF {
			return value.Value{}, e.syntaxErr()
		}
		if r == '[' {
			depth++
		}
		if r == ']' {
			depth--
			if depth == 0 {
				e.c.Next()
				break
			}
		}
		e.c.Next()
	}
	body := e.c.Head()
	src := sourceBetween(e.src, start+1, body-1)
	script, err := parser.Parse(src)
	if err != nil {
		return value.Value{}, err
	}
	if e.suppressed() {
		return value.Empty, nil
	}
	v, err := e.ctx.EvalWord(tast.Word{Tokens: []tast.Token{tast.CommandSubst{Body: script}}})
	if err != nil {
		return value.Value{}, err
	}
	return numberFirst(v), nil
}

func sourceBetween(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if end < start {
		return ""
	}
	return s[start:end]
}

func (e *evaluator) parseQuotedAtom() (value.Value, error) {
	e.c.Next() // consume opening '"'
	bodyStart := e.c.Head()
	for {
		r := e.c.Peek()
		if r == token.EOF {
			return value.Value{}, e.syntaxErr()
		}
		if r == '\\' {
			e.c.Next()
			if e.c.Peek() != token.EOF {
				e.c.Next()
			}
			continue
		}
		if r == '"' {
			break
		}
		e.c.Next()
	}
	body := e.src[bodyStart:e.c.Head()]
	e.c.Next() // consume closing '"'
	word, err := parseAsQuotedWord(body)
	if err != nil {
		return value.Value{}, err
	}
	if e.suppressed() {
		return value.Empty, nil
	}
	v, err := e.ctx.EvalWord(word)
	if err != nil {
		return value.Value{}, err
	}
	return numberFirst(v), nil
}

func (e *evaluator) parseBracedAtom() (value.Value, error) {
	w, err := scanBraced(e.c)
	if err != nil {
		return value.Value{}, e.syntaxErr()
	}
	if e.suppressed() {
		return value.Empty, nil
	}
	v, err := e.ctx.EvalWord(tast.Word{Tokens: []tast.Token{tast.Literal{Text: w}}})
	if err != nil {
		return value.Value{}, err
	}
	return numberFirst(v), nil
}

func (e *evaluator) parseNumberAtom() (value.Value, error) {
	start := e.c.Head()
	if strings.HasPrefix(strings.ToLower(e.c.Remainder()), "inf") {
		for i := 0; i < 3; i++ {
			e.c.Next()
		}
		if strings.HasPrefix(strings.ToLower(e.c.Remainder()), "inity") {
			for i := 0; i < 5; i++ {
				e.c.Next()
			}
		}
	} else if e.c.Peek() == '0' && (e.c.PeekAt(1) == 'x' || e.c.PeekAt(1) == 'X') {
		e.c.Next()
		e.c.Next()
		e.c.SkipWhile(isHex)
	} else {
		e.c.SkipWhile(isDigit)
		if e.c.Peek() == '.' {
			e.c.Next()
			e.c.SkipWhile(isDigit)
		}
		if e.c.Peek() == 'e' || e.c.Peek() == 'E' {
			save := e.c.Head()
			e.c.Next()
			if e.c.Peek() == '+' || e.c.Peek() == '-' {
				e.c.Next()
			}
			if isDigit(e.c.Peek()) {
				e.c.SkipWhile(isDigit)
			} else {
				e.c.SetHead(save)
			}
		}
	}
	text := e.src[start:e.c.Head()]
	n, ok := value.ParseNumber(text)
	if !ok {
		return value.Value{}, e.syntaxErr()
	}
	if n.IsInt {
		return value.FromInt(n.I), nil
	}
	return value.FromFloat(n.F), nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

var booleanWords = map[string]bool{
	"true": true, "yes": true, "on": true,
	"false": false, "no": false, "off": false,
}

func (e *evaluator) parseIdentAtom() (value.Value, error) {
	start := e.c.Head()
	for isIdentChar(e.c.Peek()) {
		e.c.Next()
	}
	name := e.src[start:e.c.Head()]
	if e.c.Peek() == '(' {
		e.c.Next()
		return e.callFunction(name)
	}
	if b, ok := booleanWords[strings.ToLower(name)]; ok {
		return value.FromBool(b), nil
	}
	return value.Value{}, e.syntaxErr()
}

func (e *evaluator) callFunction(name string) (value.Value, error) {
	fn, ok := mathFunctions[strings.ToLower(name)]
	if !ok {
		return value.Value{}, ierrors.New("unknown math function %q", name)
	}
	var args []value.Value
	e.skipSpace()
	if !e.peekOp(")") {
		for {
			v, err := e.parseTernary()
			if err != nil {
				return value.Value{}, err
			}
			args = append(args, v)
			if e.tryOp(",") {
				continue
			}
			break
		}
	}
	if !e.tryOp(")") {
		return value.Value{}, e.syntaxErr()
	}
	if e.suppressed() {
		return value.Empty, nil
	}
	return fn(args)
}

// --- shared small parse helpers used for {...}/"..." atoms and array index ----

func scanBraced(c *token.Cursor) (string, error) {
	if c.Peek() != '{' {
		return "", fmt.Errorf("expected '{'")
	}
	c.Next()
	depth := 1
	var sb strings.Builder
	for {
		r := c.Next()
		if r == token.EOF {
			return "", fmt.Errorf("missing close-brace")
		}
		if r == '\\' {
			nr := c.Peek()
			if nr == '\n' {
				c.Next()
				sb.WriteByte(' ')
				continue
			}
			sb.WriteByte('\\')
			if nr != token.EOF {
				sb.WriteRune(nr)
				c.Next()
			}
			continue
		}
		if r == '{' {
			depth++
			sb.WriteRune(r)
			continue
		}
		if r == '}' {
			depth--
			if depth == 0 {
				return sb.String(), nil
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(r)
	}
}

// parseAsWord parses src as a Word using the full interpolation grammar
// (as if it were the body of a quoted word): used for array indices in
// "$name(index)".
func parseAsWord(src string) (tast.Word, error) {
	return parseAsQuotedWord(src)
}

// parseAsQuotedWord parses src (already stripped of its delimiters) the
// same way the script parser parses the contents of a quoted word.
func parseAsQuotedWord(src string) (tast.Word, error) {
	w, err := parser.ParseInterpolatedBody(src)
	if err != nil {
		return tast.Word{}, err
	}
	return w, nil
}

func requireInt(v value.Value, op string) (int64, error) {
	if n, ok := v.AlreadyNumber(); ok {
		if n.IsInt {
			return n.I, nil
		}
		return 0, ierrors.New("can't use non-numeric string/floating-point value as operand of %q", op)
	}
	i, err := v.AsInt()
	if err == nil {
		return i, nil
	}
	return 0, ierrors.New("can't use non-numeric string/floating-point value as operand of %q", op)
}

func truthy(v value.Value) (bool, error) {
	b, err := v.AsBool()
	if err != nil {
		return false, err
	}
	return b, nil
}
