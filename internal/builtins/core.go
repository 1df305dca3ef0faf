package builtins

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/interp"
	"github.com/hollowbranch/tecl/internal/value"
)

func wrongArgs(usage string) error {
	return ierrors.New("wrong # args: should be %q", usage)
}

// splitArrayName splits a variable-name argument like "arr(key)" into its
// array name and index, per spec.md section 4.7's element-access
// operations. A name with no parenthesized index is a plain scalar.
func splitArrayName(s string) (name, index string, isArray bool) {
	if !strings.HasSuffix(s, ")") {
		return s, "", false
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, "", false
	}
	return s[:open], s[open+1 : len(s)-1], true
}

func getVar(ip *interp.Interpreter, s string) (value.Value, error) {
	name, index, isArray := splitArrayName(s)
	if isArray {
		return ip.Scope().ArrayGet(name, index)
	}
	return ip.Scope().GetScalar(name)
}

func setVar(ip *interp.Interpreter, s string, v value.Value) error {
	name, index, isArray := splitArrayName(s)
	if isArray {
		return ip.Scope().ArraySet(name, index, v)
	}
	return ip.Scope().SetScalar(name, v)
}

// RegisterCoreFunctions registers the language-core commands: variable
// access, control flow, procedures, and error handling, per spec.md
// sections 4.8 and 7.
func RegisterCoreFunctions(ip *interp.Interpreter) {
	ip.AddCommand("set", biSet)
	ip.AddCommand("unset", biUnset)
	ip.AddCommand("incr", biIncr)
	ip.AddCommand("append", biAppend)
	ip.AddCommand("global", biGlobal)
	ip.AddCommand("upvar", biUpvar)
	ip.AddCommand("uplevel", biUplevel)
	ip.AddCommand("proc", biProc)
	ip.AddCommand("rename", biRename)
	ip.AddCommand("return", biReturn)
	ip.AddCommand("break", biBreak)
	ip.AddCommand("continue", biContinue)
	ip.AddCommand("error", biError)
	ip.AddCommand("catch", biCatch)
	ip.AddCommand("if", biIf)
	ip.AddCommand("while", biWhile)
	ip.AddCommand("for", biFor)
	ip.AddCommand("foreach", biForeach)
	ip.AddCommand("expr", biExpr)
	ip.AddCommand("puts", biPuts)
	ip.AddCommand("exit", biExit)
	ip.AddCommand("assert_eq", biAssertEq)
	ip.AddCommand("time", biTime)
	ip.AddCommand("source", biSource)
}

func biSet(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	switch len(args) {
	case 1:
		return getVar(ip, args[0].AsString())
	case 2:
		if err := setVar(ip, args[0].AsString(), args[1]); err != nil {
			return value.Value{}, err
		}
		return args[1], nil
	default:
		return value.Value{}, wrongArgs("set varName ?newValue?")
	}
}

func biUnset(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	nocomplain := false
	if len(args) > 0 && args[0].AsString() == "-nocomplain" {
		nocomplain = true
		args = args[1:]
	}
	for _, a := range args {
		name, index, isArray := splitArrayName(a.AsString())
		var err error
		if isArray {
			err = ip.Scope().ArrayUnsetElem(name, index)
		} else {
			err = ip.Scope().Unset(name)
		}
		if err != nil && !nocomplain {
			return value.Value{}, err
		}
	}
	return value.Empty, nil
}

func biIncr(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, wrongArgs("incr varName ?increment?")
	}
	delta := int64(1)
	if len(args) == 2 {
		d, err := args[1].AsInt()
		if err != nil {
			return value.Value{}, err
		}
		delta = d
	}
	name := args[0].AsString()
	cur := int64(0)
	if v, err := getVar(ip, name); err == nil {
		c, err := v.AsInt()
		if err != nil {
			return value.Value{}, err
		}
		cur = c
	}
	result := value.FromInt(cur + delta)
	if err := setVar(ip, name, result); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

func biAppend(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("append varName ?value value ...?")
	}
	name := args[0].AsString()
	var sb strings.Builder
	if v, err := getVar(ip, name); err == nil {
		sb.WriteString(v.AsString())
	}
	for _, a := range args[1:] {
		sb.WriteString(a.AsString())
	}
	result := value.FromString(sb.String())
	if err := setVar(ip, name, result); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

func biGlobal(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	for _, a := range args {
		name := a.AsString()
		if err := ip.Scope().Upvar(name, 0, name); err != nil {
			return value.Value{}, err
		}
	}
	return value.Empty, nil
}

func biUpvar(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 3 || len(args)%2 != 1 {
		return value.Value{}, wrongArgs("upvar level otherVar localVar ?otherVar localVar ...?")
	}
	target, err := resolveLevel(args[0].AsString(), ip.Scope().RealCurrentIndex())
	if err != nil {
		return value.Value{}, err
	}
	for i := 1; i+1 < len(args); i += 2 {
		otherVar := args[i].AsString()
		localVar := args[i+1].AsString()
		if err := ip.Scope().Upvar(localVar, target, otherVar); err != nil {
			return value.Value{}, err
		}
	}
	return value.Empty, nil
}

// resolveLevel parses an `uplevel`/`upvar` level specifier: "#N" is an
// absolute frame index, "N" (the common case, often just "1") is N
// frames up from cur.
func resolveLevel(s string, cur int) (int, error) {
	if strings.HasPrefix(s, "#") {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return 0, ierrors.New("bad level %q", s)
		}
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ierrors.New("bad level %q", s)
	}
	return cur - n, nil
}

func biUplevel(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, wrongArgs("uplevel ?level? command ?arg ...?")
	}
	levelStr := "1"
	rest := args
	if first := args[0].AsString(); looksLikeLevel(first) {
		levelStr = first
		rest = args[1:]
	}
	if len(rest) == 0 {
		return value.Value{}, wrongArgs("uplevel ?level? command ?arg ...?")
	}
	target, err := resolveLevel(levelStr, ip.Scope().RealCurrentIndex())
	if err != nil {
		return value.Value{}, err
	}
	parts := make([]string, len(rest))
	for i, a := range rest {
		parts[i] = a.AsString()
	}
	src := strings.Join(parts, " ")

	ip.Scope().PushOverride(target)
	defer ip.Scope().PopOverride()
	return ip.EvalBody(src)
}

func looksLikeLevel(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '#' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func biProc(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, wrongArgs("proc name args body")
	}
	if err := ip.DefineProc(args[0].AsString(), args[1], args[2].AsString()); err != nil {
		return value.Value{}, err
	}
	return value.Empty, nil
}

func biRename(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("rename oldName newName")
	}
	if err := ip.RenameCommand(args[0].AsString(), args[1].AsString()); err != nil {
		return value.Value{}, err
	}
	return value.Empty, nil
}

func biReturn(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	v := value.Empty
	if len(args) > 0 {
		v = args[0]
	}
	return value.Value{}, &interp.Signal{Kind: interp.SignalReturn, Value: v}
}

func biBreak(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return value.Value{}, wrongArgs("break")
	}
	return value.Value{}, &interp.Signal{Kind: interp.SignalBreak}
}

func biContinue(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return value.Value{}, wrongArgs("continue")
	}
	return value.Value{}, &interp.Signal{Kind: interp.SignalContinue}
}

func biError(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, wrongArgs("error message ?errorCode?")
	}
	return value.Value{}, ierrors.New("%s", args[0].AsString())
}

// biCatch evaluates its body, binding an optional result variable and
// translating the outcome to the integer return codes spec.md section 7
// defines: 0 ok, 1 error, 2 return, 3 break, 4 continue, 5 other.
func biCatch(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, wrongArgs("catch script ?resultVarName?")
	}
	result, err := ip.EvalBody(args[0].AsString())
	code := 0
	resultValue := result
	if err != nil {
		if sig, ok := interp.AsSignal(err); ok {
			switch sig.Kind {
			case interp.SignalReturn:
				code = 2
				resultValue = sig.Value
			case interp.SignalBreak:
				code = 3
				resultValue = value.Empty
			case interp.SignalContinue:
				code = 4
				resultValue = value.Empty
			default:
				code = 5
				resultValue = sig.Value
			}
		} else {
			code = 1
			resultValue = value.FromString(err.Error())
		}
	}
	if len(args) == 2 {
		if err := ip.Scope().SetScalar(args[1].AsString(), resultValue); err != nil {
			return value.Value{}, err
		}
	}
	return value.FromInt(int64(code)), nil
}

func biIf(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	i := 0
	for i < len(args) {
		cond := args[i].AsString()
		i++
		if i >= len(args) {
			return value.Value{}, wrongArgs("if expr ?then? body ?elseif expr ?then? body ...? ?else? ?body?")
		}
		if args[i].AsString() == "then" {
			i++
		}
		if i >= len(args) {
			return value.Value{}, wrongArgs("if expr ?then? body ?elseif expr ?then? body ...? ?else? ?body?")
		}
		body := args[i].AsString()
		i++
		truth, err := ip.ExprBool(cond)
		if err != nil {
			return value.Value{}, err
		}
		if truth {
			return ip.EvalBody(body)
		}
		if i >= len(args) {
			return value.Empty, nil
		}
		switch args[i].AsString() {
		case "elseif":
			i++
			continue
		case "else":
			i++
			if i >= len(args) {
				return value.Value{}, wrongArgs("if ... else body")
			}
			return ip.EvalBody(args[i].AsString())
		default:
			return value.Value{}, ierrors.New("invalid command name %q after if body", args[i].AsString())
		}
	}
	return value.Empty, nil
}

func biWhile(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("while test body")
	}
	cond, body := args[0].AsString(), args[1].AsString()
	result := value.Empty
	for {
		truth, err := ip.ExprBool(cond)
		if err != nil {
			return value.Value{}, err
		}
		if !truth {
			return result, nil
		}
		v, err := ip.EvalBody(body)
		if err != nil {
			if sig, ok := interp.AsSignal(err); ok {
				switch sig.Kind {
				case interp.SignalBreak:
					return result, nil
				case interp.SignalContinue:
					continue
				}
			}
			return value.Value{}, err
		}
		result = v
	}
}

func biFor(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 4 {
		return value.Value{}, wrongArgs("for start test next body")
	}
	start, test, next, body := args[0].AsString(), args[1].AsString(), args[2].AsString(), args[3].AsString()
	if _, err := ip.EvalBody(start); err != nil {
		return value.Value{}, err
	}
	result := value.Empty
	for {
		truth, err := ip.ExprBool(test)
		if err != nil {
			return value.Value{}, err
		}
		if !truth {
			return result, nil
		}
		v, err := ip.EvalBody(body)
		if err != nil {
			if sig, ok := interp.AsSignal(err); ok {
				switch sig.Kind {
				case interp.SignalBreak:
					return result, nil
				case interp.SignalContinue:
					if _, err := ip.EvalBody(next); err != nil {
						return value.Value{}, err
					}
					continue
				}
			}
			return value.Value{}, err
		}
		result = v
		if _, err := ip.EvalBody(next); err != nil {
			return value.Value{}, err
		}
	}
}

func biForeach(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 3 || len(args)%2 != 1 {
		return value.Value{}, wrongArgs("foreach varList list ?varList list ...? body")
	}
	body := args[len(args)-1].AsString()
	pairs := args[:len(args)-1]

	type group struct {
		names []string
		items []value.Value
	}
	var groups []group
	maxRounds := 0
	for i := 0; i+1 < len(pairs); i += 2 {
		names, err := pairs[i].AsList()
		if err != nil {
			return value.Value{}, err
		}
		items, err := pairs[i+1].AsList()
		if err != nil {
			return value.Value{}, err
		}
		nameStrs := make([]string, len(names))
		for j, n := range names {
			nameStrs[j] = n.AsString()
		}
		rounds := 0
		if len(nameStrs) > 0 {
			rounds = (len(items) + len(nameStrs) - 1) / len(nameStrs)
		}
		if rounds > maxRounds {
			maxRounds = rounds
		}
		groups = append(groups, group{names: nameStrs, items: items})
	}

	result := value.Empty
	for round := 0; round < maxRounds; round++ {
		for _, g := range groups {
			for j, name := range g.names {
				idx := round*len(g.names) + j
				v := value.Empty
				if idx < len(g.items) {
					v = g.items[idx]
				}
				if err := ip.Scope().SetScalar(name, v); err != nil {
					return value.Value{}, err
				}
			}
		}
		v, err := ip.EvalBody(body)
		if err != nil {
			if sig, ok := interp.AsSignal(err); ok {
				switch sig.Kind {
				case interp.SignalBreak:
					return result, nil
				case interp.SignalContinue:
					continue
				}
			}
			return value.Value{}, err
		}
		result = v
	}
	return result, nil
}

func biExpr(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Value{}, wrongArgs("expr arg ?arg ...?")
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.AsString()
	}
	return ip.Expr(strings.Join(parts, " "))
}

func biPuts(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	noNewline := false
	if len(args) > 0 && args[0].AsString() == "-nonewline" {
		noNewline = true
		args = args[1:]
	}
	if len(args) != 1 {
		return value.Value{}, wrongArgs("puts ?-nonewline? string")
	}
	w := ip.Stdout()
	fmt.Fprint(w, args[0].AsString())
	if !noNewline {
		fmt.Fprintln(w)
	}
	return value.Empty, nil
}

func biExit(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	code := int64(0)
	if len(args) == 1 {
		c, err := args[0].AsInt()
		if err != nil {
			return value.Value{}, err
		}
		code = c
	} else if len(args) > 1 {
		return value.Value{}, wrongArgs("exit ?returnCode?")
	}
	return value.Value{}, &interp.Signal{Kind: interp.SignalOther, Code: int(code), Value: value.FromInt(code)}
}

func biAssertEq(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return value.Value{}, wrongArgs("assert_eq expected actual ?message?")
	}
	if args[0].AsString() != args[1].AsString() {
		msg := fmt.Sprintf("assertion failed: expected %q, got %q", args[0].AsString(), args[1].AsString())
		if len(args) == 3 {
			msg = args[2].AsString()
		}
		return value.Value{}, ierrors.New("%s", msg)
	}
	return value.Empty, nil
}

func biTime(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, wrongArgs("time script ?count?")
	}
	count := int64(1)
	if len(args) == 2 {
		c, err := args[1].AsInt()
		if err != nil {
			return value.Value{}, err
		}
		count = c
	}
	for i := int64(0); i < count; i++ {
		if _, err := ip.EvalBody(args[0].AsString()); err != nil {
			return value.Value{}, err
		}
	}
	return value.FromString(fmt.Sprintf("ran %d time(s)", count)), nil
}

// biSource reads and evaluates a script file from the host filesystem.
// spec.md's "no persisted state of its own" (section 6) describes the
// interpreter's own state, not this built-in's file I/O, which mirrors
// Tcl's own `source` and molt's `commands.rs` implementation of it.
func biSource(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("source fileName")
	}
	path := args[0].AsString()
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, ierrors.New("couldn't read file %q: %s", path, err)
	}
	return ip.EvalBody(string(data))
}
