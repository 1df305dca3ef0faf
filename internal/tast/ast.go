// Package tast defines the AST produced by the script parser: a Script
// is a sequence of Commands, a Command a sequence of Words, and a Word a
// sequence of Tokens, per spec.md section 4.4.
package tast

import "github.com/hollowbranch/tecl/internal/token"

// Script is a finite ordered sequence of Commands.
type Script struct {
	Commands []Command
}

// Command is a finite ordered sequence of Words.
type Command struct {
	Words []Word
	Pos   token.Position
}

// Word is a finite ordered sequence of Tokens. At evaluation time the
// Tokens are substituted and concatenated into a single Value, except
// that a Word consisting of a single Expansion token instead splices the
// elements of a list into the enclosing command's argument vector.
//
// A Word embedded inside another construct - the index-Word of an
// ArrayRef, or the inner Word following an Expansion's "{*}" marker -
// plays the role spec.md 4.3 calls a "composite" token: its own Tokens
// are concatenated into one Value before being used by its container.
// There is no separate Composite AST node; Word already has exactly
// that concatenating evaluation rule, so embedding a Word serves both
// roles.
type Word struct {
	Tokens []Token
}

// Token is implemented by each of the five word-token variants named in
// spec.md 4.3: Literal, ScalarRef, ArrayRef, CommandSubst, Expansion.
type Token interface {
	tokenNode()
}

// Literal is a fixed string token, produced directly from source text
// (braced-word contents, or a run of non-special characters inside a
// bare/quoted word).
type Literal struct {
	Text string
}

func (Literal) tokenNode() {}

// ScalarRef is a "$name" variable reference.
type ScalarRef struct {
	Name string
}

func (ScalarRef) tokenNode() {}

// ArrayRef is a "$name(indexWord)" array-element reference; Index is
// evaluated to a Value at substitution time to determine the element
// key.
type ArrayRef struct {
	Name  string
	Index Word
}

func (ArrayRef) tokenNode() {}

// CommandSubst is a "[script]" nested-script substitution; its Value is
// the result of evaluating Body.
type CommandSubst struct {
	Body *Script
}

func (CommandSubst) tokenNode() {}

// Expansion is the "{*}word" marker: Inner is evaluated and coerced to a
// list, whose elements are spliced into the enclosing command's argument
// vector in place of this Word's own contribution.
type Expansion struct {
	Inner Word
}

func (Expansion) tokenNode() {}
