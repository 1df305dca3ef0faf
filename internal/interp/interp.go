package interp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hollowbranch/tecl/internal/exprlang"
	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/parser"
	"github.com/hollowbranch/tecl/internal/scope"
	"github.com/hollowbranch/tecl/internal/tast"
	"github.com/hollowbranch/tecl/internal/value"
)

// Interpreter is the root evaluation engine: a variable scope stack, a
// command/procedure registry, and a context cache, per spec.md sections
// 4.5, 4.7, and 4.8.
type Interpreter struct {
	scope    *scope.Stack
	commands map[string]*commandEntry
	procs    map[string]*procedure
	contexts *contextCache

	stdout io.Writer
	stderr io.Writer

	maxDepth int
	depth    int
}

// Option configures an Interpreter at construction time, mirroring the
// functional-options convention the teacher uses for its own Lexer and
// compiler pipeline.
type Option func(*Interpreter)

// WithRecursionLimit bounds the nested-evaluation depth (command calls,
// not Go call-stack frames directly, though the two track closely),
// guarding against runaway recursion and the "infinite loop" case in
// spec.md section 9.
func WithRecursionLimit(n int) Option {
	return func(ip *Interpreter) { ip.maxDepth = n }
}

// WithStdout overrides the writer `puts` writes to.
func WithStdout(w io.Writer) Option {
	return func(ip *Interpreter) { ip.stdout = w }
}

// WithStderr overrides the writer Stderr returns. The interpreter and its
// built-in commands write nothing to it themselves.
func WithStderr(w io.Writer) Option {
	return func(ip *Interpreter) { ip.stderr = w }
}

// New creates an Interpreter with no built-in commands registered; the
// internal/builtins package is what populates a fresh Interpreter with
// the standard command set.
func New(opts ...Option) *Interpreter {
	ip := &Interpreter{
		scope:    scope.New(),
		commands: make(map[string]*commandEntry),
		procs:    make(map[string]*procedure),
		contexts: newContextCache(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		maxDepth: 1000,
	}
	for _, opt := range opts {
		opt(ip)
	}
	return ip
}

// Stdout returns the writer `puts` and friends write to.
func (ip *Interpreter) Stdout() io.Writer { return ip.stdout }

// Stderr returns the writer set by WithStderr (default os.Stderr), for
// host-registered commands to use.
func (ip *Interpreter) Stderr() io.Writer { return ip.stderr }

// Scope exposes the variable scope stack to built-in commands that need
// direct access to it (`global`, `upvar`, `array`, the loop commands'
// induction-variable binding, `uplevel`).
func (ip *Interpreter) Scope() *scope.Stack { return ip.scope }

// ContextID allocates and returns a fresh, never-reused context id from
// the monotonic generator spec.md section 4.8 names, without storing any
// data under it. Hosts that need to reference an id before the data it
// will hold exists (e.g. to pass the id to AddContextCommand ahead of a
// later SetContext) call this directly; most hosts call SaveContext
// instead, which allocates and stores in one step.
func (ip *Interpreter) ContextID() int {
	return ip.contexts.newID()
}

// SaveContext allocates a fresh context id, stores data under it, and
// returns the id, per spec.md section 4.8's save_context.
func (ip *Interpreter) SaveContext(data any) int {
	id := ip.ContextID()
	ip.contexts.set(id, data)
	return id
}

// SetContext overwrites the data stored under id, per spec.md section
// 4.8's set_context. id is typically one returned by SaveContext or
// ContextID; id 0 (the "no context" sentinel) is a programming error.
func (ip *Interpreter) SetContext(id int, data any) {
	if id == 0 {
		panic("tecl: SetContext called with the no-context sentinel id 0")
	}
	ip.contexts.set(id, data)
}

// Context retrieves the data saved under id, asserting it is of type T.
// Accessing an id with no saved data, or requesting the wrong type, is a
// programming error and panics, per spec.md section 4.8's context<T>.
// Go methods cannot carry their own type parameter, so this is a
// package-level function rather than an Interpreter method.
func Context[T any](ip *Interpreter, id int) T {
	data, ok := ip.contexts.get(id)
	if !ok {
		panic(fmt.Sprintf("tecl: context id %d has no saved data", id))
	}
	v, ok := data.(T)
	if !ok {
		var zero T
		panic(fmt.Sprintf("tecl: context id %d does not hold a %T", id, zero))
	}
	return v
}

func (ip *Interpreter) parseScript(src string) (*tast.Script, error) {
	return parser.Parse(src)
}

// Eval parses and evaluates a complete script, the top-level entry point
// used by the public tecl API and the CLI. A `return` that escapes all
// the way to the top level succeeds with its value (as Tcl itself
// allows); a stray `break`/`continue` is reported as an error. Any other
// signal (such as the one `exit` raises) is returned unchanged as the
// error.
func (ip *Interpreter) Eval(source string) (value.Value, error) {
	script, err := ip.parseScript(source)
	if err != nil {
		return value.Value{}, err
	}
	v, err := ip.EvalScript(script)
	if err == nil {
		return v, nil
	}
	if sig, ok := AsSignal(err); ok {
		switch sig.Kind {
		case SignalReturn:
			return sig.Value, nil
		case SignalBreak:
			return value.Value{}, ierrors.New("invoked %q outside of a loop", "break")
		case SignalContinue:
			return value.Value{}, ierrors.New("invoked %q outside of a loop", "continue")
		default:
			return value.Value{}, err
		}
	}
	return value.Value{}, err
}

// EvalBody parses and evaluates source as a script, leaving control
// signals (break/continue/return) to propagate to the caller unaltered.
// Built-ins that run a body argument (`if`, `while`, `for`, `foreach`,
// `catch`, `uplevel`) use this rather than Eval.
func (ip *Interpreter) EvalBody(source string) (value.Value, error) {
	script, err := ip.parseScript(source)
	if err != nil {
		return value.Value{}, err
	}
	return ip.EvalScript(script)
}

// EvalScript evaluates an already-parsed script, returning its last
// command's result (the empty Value for an empty script).
func (ip *Interpreter) EvalScript(script *tast.Script) (value.Value, error) {
	last := value.Empty
	for _, cmd := range script.Commands {
		v, err := ip.evalCommand(cmd)
		if err != nil {
			return value.Value{}, err
		}
		last = v
	}
	return last, nil
}

func (ip *Interpreter) evalCommand(cmd tast.Command) (value.Value, error) {
	argv, err := ip.evalCommandWords(cmd.Words)
	if err != nil {
		if se, ok := err.(*ierrors.ScriptError); ok && !se.HasPos {
			return value.Value{}, ierrors.NewAt(cmd.Pos, "%s", se.Message)
		}
		return value.Value{}, err
	}
	if len(argv) == 0 {
		return value.Empty, nil
	}
	return ip.Call(argv[0].AsString(), argv[1:])
}

// Call invokes a registered command or procedure by name, enforcing the
// recursion limit and producing "invalid command name" for anything
// unregistered, per spec.md section 4.8.
func (ip *Interpreter) Call(name string, args []value.Value) (value.Value, error) {
	if ip.depth >= ip.maxDepth {
		return value.Value{}, ierrors.New("too many nested evaluations (infinite loop?)")
	}
	ip.depth++
	defer func() { ip.depth-- }()

	if e, ok := ip.commands[name]; ok {
		var ctxData any
		if e.ctxID != 0 {
			ctxData, _ = ip.contexts.get(e.ctxID)
		}
		return e.fn(ctxData, ip, args)
	}
	if p, ok := ip.procs[name]; ok {
		return ip.callProc(p, args)
	}
	return value.Value{}, ierrors.New("invalid command name %q", name)
}

// evalCommandWords evaluates a Command's Words into its argument vector,
// splicing a lone "{*}word" Word's list elements in place, per spec.md
// section 4.3's Expansion semantics.
func (ip *Interpreter) evalCommandWords(words []tast.Word) ([]value.Value, error) {
	var argv []value.Value
	for _, w := range words {
		if len(w.Tokens) == 1 {
			if exp, ok := w.Tokens[0].(tast.Expansion); ok {
				v, err := ip.evalWordValue(exp.Inner)
				if err != nil {
					return nil, err
				}
				items, err := v.AsList()
				if err != nil {
					return nil, err
				}
				argv = append(argv, items...)
				continue
			}
		}
		v, err := ip.evalWordValue(w)
		if err != nil {
			return nil, err
		}
		argv = append(argv, v)
	}
	return argv, nil
}

// evalWordValue concatenates a Word's substituted Tokens into a single
// Value. An Expansion token appearing here (outside command-word
// position, e.g. nested inside an ArrayRef index) contributes its Inner
// value directly rather than splicing - splicing only has meaning at the
// command argument-vector level.
func (ip *Interpreter) evalWordValue(w tast.Word) (value.Value, error) {
	if len(w.Tokens) == 1 {
		if lit, ok := w.Tokens[0].(tast.Literal); ok {
			return value.FromString(lit.Text), nil
		}
	}
	var sb strings.Builder
	for _, tok := range w.Tokens {
		v, err := ip.evalToken(tok)
		if err != nil {
			return value.Value{}, err
		}
		sb.WriteString(v.AsString())
	}
	return value.FromString(sb.String()), nil
}

func (ip *Interpreter) evalToken(tok tast.Token) (value.Value, error) {
	switch t := tok.(type) {
	case tast.Literal:
		return value.FromString(t.Text), nil
	case tast.ScalarRef:
		return ip.scope.GetScalar(t.Name)
	case tast.ArrayRef:
		idx, err := ip.evalWordValue(t.Index)
		if err != nil {
			return value.Value{}, err
		}
		return ip.scope.ArrayGet(t.Name, idx.AsString())
	case tast.CommandSubst:
		return ip.EvalScript(t.Body)
	case tast.Expansion:
		return ip.evalWordValue(t.Inner)
	default:
		return value.Value{}, ierrors.New("unsupported token in word")
	}
}

// --- exprlang.Context implementation ---------------------------------------

// Scalar implements exprlang.Context.
func (ip *Interpreter) Scalar(name string) (value.Value, error) {
	return ip.scope.GetScalar(name)
}

// ArrayElem implements exprlang.Context.
func (ip *Interpreter) ArrayElem(name string, index value.Value) (value.Value, error) {
	return ip.scope.ArrayGet(name, index.AsString())
}

// EvalWord implements exprlang.Context.
func (ip *Interpreter) EvalWord(w tast.Word) (value.Value, error) {
	return ip.evalWordValue(w)
}

// Expr evaluates src as an expression, per spec.md section 4.6.
func (ip *Interpreter) Expr(src string) (value.Value, error) {
	return exprlang.Eval(src, ip)
}

// ExprBool evaluates src as an expression and coerces the result to a
// bool, per spec.md section 4.8's `expr_bool` operation (used by `if`
// and the loop commands' conditions).
func (ip *Interpreter) ExprBool(src string) (bool, error) {
	v, err := ip.Expr(src)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

// ExprInt evaluates src as an expression and coerces the result to an
// int64.
func (ip *Interpreter) ExprInt(src string) (int64, error) {
	v, err := ip.Expr(src)
	if err != nil {
		return 0, err
	}
	return v.AsInt()
}

// ExprFloat evaluates src as an expression and coerces the result to a
// float64.
func (ip *Interpreter) ExprFloat(src string) (float64, error) {
	v, err := ip.Expr(src)
	if err != nil {
		return 0, err
	}
	return v.AsFloat()
}
