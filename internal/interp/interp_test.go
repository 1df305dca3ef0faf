package interp_test

import (
	"strings"
	"testing"

	"github.com/hollowbranch/tecl/internal/builtins"
	"github.com/hollowbranch/tecl/internal/interp"
	"github.com/hollowbranch/tecl/internal/value"
)

func newInterp() *interp.Interpreter {
	ip := interp.New()
	builtins.RegisterAll(ip)
	return ip
}

func evalString(t *testing.T, ip *interp.Interpreter, src string) string {
	t.Helper()
	v, err := ip.Eval(src)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return v.AsString()
}

func TestEvalLiteralCommand(t *testing.T) {
	ip := newInterp()
	if got := evalString(t, ip, `set x 5`); got != "5" {
		t.Fatalf("got %q, want 5", got)
	}
}

func TestEvalReturnsLastCommandResult(t *testing.T) {
	ip := newInterp()
	got := evalString(t, ip, "set a 1\nset b 2\nset c 3")
	if got != "3" {
		t.Fatalf("got %q, want 3", got)
	}
}

func TestEvalEmptyScriptIsEmptyValue(t *testing.T) {
	ip := newInterp()
	v, err := ip.Eval("")
	if err != nil {
		t.Fatalf("Eval(\"\") error: %v", err)
	}
	if v.AsString() != "" {
		t.Fatalf("got %q, want empty", v.AsString())
	}
}

func TestEvalTopLevelReturnSucceeds(t *testing.T) {
	ip := newInterp()
	got := evalString(t, ip, `return 42`)
	if got != "42" {
		t.Fatalf("got %q, want 42", got)
	}
}

func TestEvalTopLevelBreakIsError(t *testing.T) {
	ip := newInterp()
	if _, err := ip.Eval(`break`); err == nil {
		t.Fatalf("expected error from stray break at top level")
	} else if !strings.Contains(err.Error(), "outside of a loop") {
		t.Fatalf("error = %v, want mention of 'outside of a loop'", err)
	}
}

func TestEvalTopLevelContinueIsError(t *testing.T) {
	ip := newInterp()
	if _, err := ip.Eval(`continue`); err == nil {
		t.Fatalf("expected error from stray continue at top level")
	}
}

func TestCallUnknownCommandErrors(t *testing.T) {
	ip := newInterp()
	if _, err := ip.Call("no-such-command", nil); err == nil {
		t.Fatalf("expected error calling unregistered command")
	}
}

func TestCallRecursionLimit(t *testing.T) {
	ip := interp.New(interp.WithRecursionLimit(3))
	builtins.RegisterAll(ip)
	ip.DefineProc("recur", value.FromList(nil), `recur`)
	if _, err := ip.Call("recur", nil); err == nil {
		t.Fatalf("expected recursion-limit error")
	} else if !strings.Contains(err.Error(), "too many nested") {
		t.Fatalf("error = %v, want mention of too many nested evaluations", err)
	}
}

func TestScalarSubstitution(t *testing.T) {
	ip := newInterp()
	evalString(t, ip, `set name world`)
	got := evalString(t, ip, `set greeting "hello $name"`)
	if got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestCommandSubstitution(t *testing.T) {
	ip := newInterp()
	got := evalString(t, ip, `set x [expr {1 + 2}]`)
	if got != "3" {
		t.Fatalf("got %q, want 3", got)
	}
}

func TestExpansionSplicesListIntoArgs(t *testing.T) {
	ip := newInterp()
	evalString(t, ip, `set args [list a b c]`)
	got := evalString(t, ip, `list x {*}$args y`)
	if got != "x a b c y" {
		t.Fatalf("got %q, want %q", got, "x a b c y")
	}
}

func TestProcDefaultParamsAndArgsSink(t *testing.T) {
	ip := newInterp()
	evalString(t, ip, `proc greet {name {greeting hello} args} {
		return "$greeting, $name! extras: $args"
	}`)
	got := evalString(t, ip, `greet Bob`)
	want := "hello, Bob! extras: "
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = evalString(t, ip, `greet Bob hi extra1 extra2`)
	want = "hi, Bob! extras: extra1 extra2"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestProcReturnEscapesOnlyOneFrame(t *testing.T) {
	ip := newInterp()
	evalString(t, ip, `proc inner {} { return 1; return 2 }`)
	evalString(t, ip, `proc outer {} { inner; return 3 }`)
	got := evalString(t, ip, `outer`)
	if got != "3" {
		t.Fatalf("got %q, want 3", got)
	}
}

func TestBreakContinueEscapingProcIsError(t *testing.T) {
	ip := newInterp()
	evalString(t, ip, `proc oops {} { break }`)
	if _, err := ip.Eval(`oops`); err == nil {
		t.Fatalf("expected error for break escaping a proc body")
	}
}

func TestContextCacheSaveSetAndRetrieve(t *testing.T) {
	ip := newInterp()
	id := ip.SaveContext(42)
	if got := interp.Context[int](ip, id); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	ip.SetContext(id, 43)
	if got := interp.Context[int](ip, id); got != 43 {
		t.Fatalf("got %d, want 43 after SetContext", got)
	}
}

func TestContextCacheWrongTypePanics(t *testing.T) {
	ip := newInterp()
	id := ip.SaveContext("a string")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic requesting the wrong type")
		}
	}()
	interp.Context[int](ip, id)
}

func TestContextCacheUnknownIDPanics(t *testing.T) {
	ip := newInterp()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an id with no saved data")
		}
	}()
	interp.Context[int](ip, ip.ContextID())
}

func TestContextCacheRefcountDropsOnLastCommandRemoval(t *testing.T) {
	ip := newInterp()
	id := ip.SaveContext(0)
	destroyed := false
	ip.AddContextCommand("ctxcmd1", id, func(ctx any, _ *interp.Interpreter, _ []value.Value) (value.Value, error) {
		return value.FromInt(int64(ctx.(int))), nil
	}, func(any) { destroyed = true })
	ip.AddContextCommand("ctxcmd2", id, func(ctx any, _ *interp.Interpreter, _ []value.Value) (value.Value, error) {
		return value.FromInt(int64(ctx.(int))), nil
	}, func(any) { destroyed = true })

	got, err := ip.Call("ctxcmd1", nil)
	if err != nil {
		t.Fatalf("Call(ctxcmd1) error: %v", err)
	}
	if got.AsString() != "0" {
		t.Fatalf("got %q, want 0", got.AsString())
	}

	if err := ip.RemoveCommand("ctxcmd1"); err != nil {
		t.Fatalf("RemoveCommand(ctxcmd1): %v", err)
	}
	if destroyed {
		t.Fatalf("context destroyed after removing only one of two referencing commands")
	}
	if got := interp.Context[int](ip, id); got != 0 {
		t.Fatalf("got %d, want 0 (context still alive via ctxcmd2)", got)
	}
	if err := ip.RemoveCommand("ctxcmd2"); err != nil {
		t.Fatalf("RemoveCommand(ctxcmd2): %v", err)
	}
	if !destroyed {
		t.Fatalf("context not destroyed after removing the last referencing command")
	}
}

func TestExprContextScalarAndArrayElem(t *testing.T) {
	ip := newInterp()
	evalString(t, ip, `set x 10`)
	evalString(t, ip, `set a(k) 32`)
	got, err := ip.ExprInt(`$x + $a(k)`)
	if err != nil {
		t.Fatalf("ExprInt error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}
