// Package parser implements the hand-written recursive-descent parser
// that turns a script string into a tast.Script, per spec.md section
// 4.4. A fresh parser.Parser wraps a token.Cursor; parsing is re-entrant
// so that nested script substitutions inside interpolated words recurse
// straight back into ParseScript's own machinery, matching the design
// note in spec.md section 9 ("the parser must be re-entrant for nested
// script substitutions inside words").
//
// Parse is purely syntactic: no command is invoked and no variable is
// read while building the AST.
package parser

import (
	"strings"

	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/tast"
	"github.com/hollowbranch/tecl/internal/token"
)

// Parser holds the cursor and the small amount of context a
// recursive-descent parse over it needs.
type Parser struct {
	c         *token.Cursor
	inBracket bool // true while parsing the body of a "[...]" substitution
}

// New creates a Parser over the given script source.
func New(source string) *Parser {
	return &Parser{c: token.New(source)}
}

// Parse parses a full script, per the Script grammar in spec.md 4.4.
// It is the entry point for whole scripts; ParseInterpolatedBody is the
// only other exported parsing entry point.
func Parse(source string) (*tast.Script, error) {
	p := New(source)
	script, err := p.parseScriptBody()
	if err != nil {
		return nil, err
	}
	if !p.c.AtEnd() {
		return nil, ierrors.NewAt(p.pos(), "trailing characters after script")
	}
	return script, nil
}

// Complete reports whether source parses successfully in its entirety,
// the contract spec.md 4.4 specifies for the "is script complete" check
// used by REPL-style collaborators.
func Complete(source string) bool {
	_, err := Parse(source)
	return err == nil
}

// ParseInterpolatedBody parses source with the same interpolation
// grammar used for the contents of a quoted word (variable refs, nested
// scripts, backslash escapes, literal text) but with no delimiter: it
// runs to end of input. It is exported for the expression evaluator in
// internal/exprlang, which needs this grammar for its own quoted-atom
// and array-index constructs without depending on the script parser's
// word-boundary rules.
func ParseInterpolatedBody(source string) (tast.Word, error) {
	p := New(source)
	tokens, err := p.parseInterpolated(func() bool { return p.c.AtEnd() })
	if err != nil {
		return tast.Word{}, err
	}
	return tast.Word{Tokens: tokens}, nil
}

func (p *Parser) pos() token.Position {
	return p.c.PositionOf(p.c.Head())
}

// parseScriptBody parses commands until EOF, or until an unescaped,
// unbraced, unquoted ']' is reached if p.inBracket is set (the
// terminator for a "[script]" substitution's body).
func (p *Parser) parseScriptBody() (*tast.Script, error) {
	var commands []tast.Command
	for {
		p.skipSeparatorsAndComments()
		if p.atScriptEnd() {
			break
		}
		startPos := p.pos()
		words, err := p.parseCommandWords()
		if err != nil {
			return nil, err
		}
		if len(words) > 0 {
			commands = append(commands, tast.Command{Words: words, Pos: startPos})
		}
	}
	return &tast.Script{Commands: commands}, nil
}

func (p *Parser) atScriptEnd() bool {
	if p.c.AtEnd() {
		return true
	}
	if p.inBracket && p.c.Peek() == ']' {
		return true
	}
	return false
}

func isCommandSeparator(r rune) bool {
	return r == ';' || r == '\n'
}

// skipSeparatorsAndComments consumes command separators, incidental
// carriage returns, and "#" comments (including backslash-newline
// continuation of a comment line), stopping at the start of the next
// command or at script end.
func (p *Parser) skipSeparatorsAndComments() {
	for {
		p.c.SkipWhile(func(r rune) bool { return r == ' ' || r == '\t' || r == '\r' })
		if p.atScriptEnd() {
			return
		}
		r := p.c.Peek()
		if isCommandSeparator(r) {
			p.c.Next()
			continue
		}
		if r == '#' {
			p.consumeComment()
			continue
		}
		return
	}
}

// consumeComment consumes a "#" comment through end of line. A
// backslash immediately followed by a newline extends the comment onto
// the next line rather than ending it, per spec.md 4.4.
func (p *Parser) consumeComment() {
	p.c.Next() // consume '#'
	for {
		r := p.c.Peek()
		if r == token.EOF {
			return
		}
		if r == '\\' {
			p.c.Next()
			if p.c.Peek() == '\n' {
				p.c.Next()
				continue
			}
			if p.c.Peek() != token.EOF {
				p.c.Next()
			}
			continue
		}
		if r == '\n' {
			p.c.Next()
			return
		}
		p.c.Next()
	}
}

// parseCommandWords parses the Words of a single Command: Word
// (line-whitespace Word)*, stopping at a command separator, script end,
// or (inside a bracket substitution) the closing ']'.
func (p *Parser) parseCommandWords() ([]tast.Word, error) {
	var words []tast.Word
	for {
		p.c.SkipWhile(func(r rune) bool { return r == ' ' || r == '\t' || r == '\r' })
		if p.atCommandEnd() {
			return words, nil
		}
		w, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
}

func (p *Parser) atCommandEnd() bool {
	if p.c.AtEnd() {
		return true
	}
	r := p.c.Peek()
	if isCommandSeparator(r) {
		return true
	}
	if p.inBracket && r == ']' {
		return true
	}
	return false
}

func (p *Parser) atWordBoundary() bool {
	if p.c.AtEnd() {
		return true
	}
	r := p.c.Peek()
	return r == ' ' || r == '\t' || r == '\r' || isCommandSeparator(r) || (p.inBracket && r == ']')
}

// parseWord dispatches to the braced/quoted/bare/expansion forms, per
// spec.md 4.4.
func (p *Parser) parseWord() (tast.Word, error) {
	if p.looksLikeExpansion() {
		p.c.Next()
		p.c.Next()
		p.c.Next() // consume "{*}"
		inner, err := p.parseWord()
		if err != nil {
			return tast.Word{}, err
		}
		return tast.Word{Tokens: []tast.Token{tast.Expansion{Inner: inner}}}, nil
	}
	switch p.c.Peek() {
	case '{':
		return p.parseBracedWord()
	case '"':
		return p.parseQuotedWord()
	default:
		return p.parseBareWord()
	}
}

// looksLikeExpansion reports whether the cursor sits at "{*}" followed
// immediately by the start of another word (no intervening separator).
func (p *Parser) looksLikeExpansion() bool {
	if p.c.Peek() != '{' || p.c.PeekAt(1) != '*' || p.c.PeekAt(2) != '}' {
		return false
	}
	next := p.c.PeekAt(3)
	if next == token.EOF {
		return false
	}
	if next == ' ' || next == '\t' || next == '\r' || isCommandSeparator(next) {
		return false
	}
	if p.inBracket && next == ']' {
		return false
	}
	return true
}

// parseBracedWord parses "{...}" with brace counting: "\<newline>"
// becomes a space, any other "\<any>" is preserved verbatim, and after
// the closing brace the cursor must be at a word boundary.
func (p *Parser) parseBracedWord() (tast.Word, error) {
	startPos := p.pos()
	p.c.Next() // consume '{'
	depth := 1
	var sb strings.Builder
	for {
		r := p.c.Next()
		switch {
		case r == token.EOF:
			return tast.Word{}, ierrors.NewAt(startPos, "missing close-brace")
		case r == '\\':
			nr := p.c.Peek()
			if nr == '\n' {
				p.c.Next()
				sb.WriteByte(' ')
				continue
			}
			sb.WriteByte('\\')
			if nr != token.EOF {
				sb.WriteRune(nr)
				p.c.Next()
			}
		case r == '{':
			depth++
			sb.WriteRune(r)
		case r == '}':
			depth--
			if depth == 0 {
				goto closed
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
closed:
	if !p.atWordBoundary() {
		return tast.Word{}, ierrors.NewAt(p.pos(), "extra characters after close-brace")
	}
	return tast.Word{Tokens: []tast.Token{tast.Literal{Text: sb.String()}}}, nil
}

// parseQuotedWord parses "\"...\"" with the full interpolation grammar
// (variable refs, nested scripts, backslash escapes, literal text).
func (p *Parser) parseQuotedWord() (tast.Word, error) {
	startPos := p.pos()
	p.c.Next() // consume opening quote
	tokens, err := p.parseInterpolated(func() bool { return p.c.Peek() == '"' })
	if err != nil {
		return tast.Word{}, err
	}
	if p.c.Peek() != '"' {
		return tast.Word{}, ierrors.NewAt(startPos, "missing close-quote")
	}
	p.c.Next() // consume closing quote
	if !p.atWordBoundary() {
		return tast.Word{}, ierrors.NewAt(p.pos(), "extra characters after close-quote")
	}
	return tast.Word{Tokens: tokens}, nil
}

// parseBareWord parses a run of non-whitespace, non-separator
// characters with the same interpolation rules as a quoted word.
func (p *Parser) parseBareWord() (tast.Word, error) {
	tokens, err := p.parseInterpolated(p.atWordBoundary)
	if err != nil {
		return tast.Word{}, err
	}
	return tast.Word{Tokens: tokens}, nil
}

// parseInterpolated is the interpolation scanner shared by quoted and
// bare words: it accumulates Literal runs and recognizes "$..." variable
// references and "[...]" nested-script substitutions, stopping as soon
// as stop() reports true.
func (p *Parser) parseInterpolated(stop func() bool) ([]tast.Token, error) {
	var tokens []tast.Token
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, tast.Literal{Text: lit.String()})
			lit.Reset()
		}
	}
	for {
		if stop() {
			break
		}
		r := p.c.Peek()
		if r == token.EOF {
			return nil, ierrors.NewAt(p.pos(), "unexpected end of script")
		}
		switch r {
		case '\\':
			p.c.Next()
			lit.WriteRune(p.c.BackslashSubst())
		case '$':
			flush()
			tok, err := p.parseVarRef()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case '[':
			flush()
			tok, err := p.parseCommandSubst()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			lit.WriteRune(p.c.Next())
		}
	}
	flush()
	return tokens, nil
}

func (p *Parser) parseCommandSubst() (tast.Token, error) {
	startPos := p.pos()
	p.c.Next() // consume '['
	prev := p.inBracket
	p.inBracket = true
	body, err := p.parseScriptBody()
	p.inBracket = prev
	if err != nil {
		return nil, err
	}
	if p.c.Peek() != ']' {
		return nil, ierrors.NewAt(startPos, "missing close-bracket")
	}
	p.c.Next() // consume ']'
	return tast.CommandSubst{Body: body}, nil
}

func isVarNameChar(r rune) bool {
	return r == '_' || r == ':' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// parseVarRef parses "$name", "$name(indexWord)", or "${braced name}".
// A '$' not followed by a valid name character or '{' is not an error:
// it is simply a literal dollar sign, per common Tcl-family practice
// (spec.md does not define an error for this case).
func (p *Parser) parseVarRef() (tast.Token, error) {
	startPos := p.pos()
	p.c.Next() // consume '$'
	if p.c.Peek() == '{' {
		p.c.Next()
		var sb strings.Builder
		for {
			r := p.c.Peek()
			if r == token.EOF {
				return nil, ierrors.NewAt(startPos, "missing close-brace for variable name")
			}
			if r == '}' {
				p.c.Next()
				break
			}
			sb.WriteRune(p.c.Next())
		}
		return tast.ScalarRef{Name: sb.String()}, nil
	}
	if !isVarNameChar(p.c.Peek()) {
		return tast.Literal{Text: "$"}, nil
	}
	var name strings.Builder
	for isVarNameChar(p.c.Peek()) {
		name.WriteRune(p.c.Next())
	}
	if p.c.Peek() == '(' {
		p.c.Next()
		idxTokens, err := p.parseInterpolated(func() bool {
			return p.c.Peek() == ')' || p.c.Peek() == token.EOF
		})
		if err != nil {
			return nil, err
		}
		if p.c.Peek() != ')' {
			return nil, ierrors.NewAt(startPos, "missing close-paren for array index")
		}
		p.c.Next()
		return tast.ArrayRef{Name: name.String(), Index: tast.Word{Tokens: idxTokens}}, nil
	}
	return tast.ScalarRef{Name: name.String()}, nil
}
