package interp

import (
	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/tast"
	"github.com/hollowbranch/tecl/internal/value"
)

// param is one formal parameter of a procedure: a bare name, or a
// {name default} pair, per spec.md section 4.8's proc semantics.
type param struct {
	name       string
	hasDefault bool
	def        value.Value
}

// procedure is a user-defined command created by the `proc` built-in. Its
// body is parsed once, at definition time, so a malformed body is caught
// immediately rather than on first call.
type procedure struct {
	name     string
	params   []param
	argsSink bool // last formal parameter is literally named "args"
	body     *tast.Script
}

// DefineProc parses paramSpec (a list value: each element either a bare
// name or a two-element {name default} sublist) and body, registering
// the resulting procedure under name. It is the implementation the
// `proc` built-in calls into.
func (ip *Interpreter) DefineProc(name string, paramSpec value.Value, bodySource string) error {
	items, err := paramSpec.AsList()
	if err != nil {
		return err
	}
	params := make([]param, 0, len(items))
	argsSink := false
	for i, item := range items {
		sub, err := item.AsList()
		if err != nil {
			return err
		}
		var p param
		switch len(sub) {
		case 1:
			p = param{name: sub[0].AsString()}
		case 2:
			p = param{name: sub[0].AsString(), hasDefault: true, def: sub[1]}
		default:
			return ierrors.New("too many fields in argument specifier %q", item.AsString())
		}
		if p.name == "args" && i == len(items)-1 {
			argsSink = true
		}
		params = append(params, p)
	}
	body, err := ip.parseScript(bodySource)
	if err != nil {
		return err
	}
	ip.procs[name] = &procedure{name: name, params: params, argsSink: argsSink, body: body}
	delete(ip.commands, name)
	return nil
}

// callProc pushes a new frame, binds args to p's formal parameters
// (applying defaults and the trailing "args" sink where applicable),
// evaluates the body, and pops the frame. A `return` inside the body
// ends the call successfully with that value; `break`/`continue`
// escaping the body (not caught by an enclosing loop) is an error.
func (ip *Interpreter) callProc(p *procedure, args []value.Value) (value.Value, error) {
	ip.scope.Push()
	defer ip.scope.Pop()

	required := len(p.params)
	if p.argsSink {
		required--
	}
	i := 0
	for idx, fp := range p.params {
		if p.argsSink && idx == len(p.params)-1 {
			rest := append([]value.Value(nil), args[i:]...)
			if err := ip.scope.SetScalar(fp.name, value.FromList(rest)); err != nil {
				return value.Value{}, err
			}
			i = len(args)
			continue
		}
		if i < len(args) {
			if err := ip.scope.SetScalar(fp.name, args[i]); err != nil {
				return value.Value{}, err
			}
			i++
			continue
		}
		if fp.hasDefault {
			if err := ip.scope.SetScalar(fp.name, fp.def); err != nil {
				return value.Value{}, err
			}
			continue
		}
		return value.Value{}, ierrors.New("wrong # args: %q requires at least %d argument(s)", p.name, required)
	}
	if i < len(args) && !p.argsSink {
		return value.Value{}, ierrors.New("wrong # args: %q accepts at most %d argument(s)", p.name, len(p.params))
	}

	result, err := ip.EvalScript(p.body)
	if err == nil {
		return result, nil
	}
	if sig, ok := AsSignal(err); ok {
		if sig.Kind == SignalReturn {
			return sig.Value, nil
		}
		return value.Value{}, ierrors.New("invoked %q outside of a loop", sig.Error())
	}
	return value.Value{}, err
}

// ProcNames returns the names of every user-defined procedure.
func (ip *Interpreter) ProcNames() []string {
	names := make([]string, 0, len(ip.procs))
	for n := range ip.procs {
		names = append(names, n)
	}
	return names
}
