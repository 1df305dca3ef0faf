package exprlang

import (
	"strings"
	"testing"

	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/tast"
	"github.com/hollowbranch/tecl/internal/value"
)

// fakeContext is a minimal exprlang.Context for unit-testing the
// expression evaluator in isolation from internal/interp.
type fakeContext struct {
	scalars map[string]value.Value
	arrays  map[string]map[string]value.Value
	evalErr error
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		scalars: map[string]value.Value{},
		arrays:  map[string]map[string]value.Value{},
	}
}

func (f *fakeContext) Scalar(name string) (value.Value, error) {
	v, ok := f.scalars[name]
	if !ok {
		return value.Value{}, ierrors.New("no such variable %q", name)
	}
	return v, nil
}

func (f *fakeContext) ArrayElem(name string, index value.Value) (value.Value, error) {
	elems, ok := f.arrays[name]
	if !ok {
		return value.Value{}, ierrors.New("no such array %q", name)
	}
	v, ok := elems[index.AsString()]
	if !ok {
		return value.Value{}, ierrors.New("no such element %q", index.AsString())
	}
	return v, nil
}

func (f *fakeContext) EvalWord(w tast.Word) (value.Value, error) {
	if f.evalErr != nil {
		return value.Value{}, f.evalErr
	}
	var sb strings.Builder
	for _, tok := range w.Tokens {
		if lit, ok := tok.(tast.Literal); ok {
			sb.WriteString(lit.Text)
		}
	}
	return value.FromString(sb.String()), nil
}

func evalStr(t *testing.T, ctx *fakeContext, src string) value.Value {
	t.Helper()
	v, err := Eval(src, ctx)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return v
}

func TestArithmeticPrecedence(t *testing.T) {
	ctx := newFakeContext()
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"10 - 2 - 3", "5"},
		{"2 * 3 + 4 * 5", "26"},
		{"-5 + 3", "-2"},
		{"!0", "1"},
		{"!1", "0"},
		{"10 % 3", "1"},
		{"2 << 3", "16"},
		{"16 >> 2", "4"},
	}
	for _, tt := range tests {
		if got := evalStr(t, ctx, tt.src).AsString(); got != tt.want {
			t.Errorf("Eval(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestComparisonAndEquality(t *testing.T) {
	ctx := newFakeContext()
	tests := []struct {
		src  string
		want string
	}{
		{"1 < 2", "1"},
		{"2 < 1", "0"},
		{"2 <= 2", "1"},
		{"3 == 3", "1"},
		{"3 != 4", "1"},
		{`"abc" eq "abc"`, "1"},
		{`"abc" ne "abd"`, "1"},
	}
	for _, tt := range tests {
		if got := evalStr(t, ctx, tt.src).AsString(); got != tt.want {
			t.Errorf("Eval(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestTernary(t *testing.T) {
	ctx := newFakeContext()
	if got := evalStr(t, ctx, "1 ? 2 : 3").AsString(); got != "2" {
		t.Fatalf("got %q, want 2", got)
	}
	if got := evalStr(t, ctx, "0 ? 2 : 3").AsString(); got != "3" {
		t.Fatalf("got %q, want 3", got)
	}
}

func TestShortCircuitOrDoesNotEvaluateDivideByZero(t *testing.T) {
	ctx := newFakeContext()
	// If the right-hand side were actually evaluated, 1/0 would error.
	if got := evalStr(t, ctx, "1 || (1 / 0)").AsString(); got != "1" {
		t.Fatalf("got %q, want 1", got)
	}
}

func TestShortCircuitAndDoesNotEvaluateDivideByZero(t *testing.T) {
	ctx := newFakeContext()
	if got := evalStr(t, ctx, "0 && (1 / 0)").AsString(); got != "0" {
		t.Fatalf("got %q, want 0", got)
	}
}

func TestShortCircuitTernaryDoesNotEvaluateUntakenBranch(t *testing.T) {
	ctx := newFakeContext()
	if got := evalStr(t, ctx, "1 ? 5 : (1 / 0)").AsString(); got != "5" {
		t.Fatalf("got %q, want 5", got)
	}
	if got := evalStr(t, ctx, "0 ? (1 / 0) : 5").AsString(); got != "5" {
		t.Fatalf("got %q, want 5", got)
	}
}

func TestDivideByZeroErrors(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Eval("1 / 0", ctx); err == nil {
		t.Fatalf("expected divide-by-zero error")
	}
}

func TestModByZeroErrors(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Eval("1 % 0", ctx); err == nil {
		t.Fatalf("expected mod-by-zero error")
	}
}

func TestVariableReferenceScalarAndArray(t *testing.T) {
	ctx := newFakeContext()
	ctx.scalars["x"] = value.FromInt(4)
	ctx.arrays["a"] = map[string]value.Value{"k": value.FromInt(38)}
	if got := evalStr(t, ctx, "$x + $a(k)").AsString(); got != "42" {
		t.Fatalf("got %q, want 42", got)
	}
}

func TestNumberFirstParseRule(t *testing.T) {
	ctx := newFakeContext()
	if got := evalStr(t, ctx, "0x10 + 1").AsString(); got != "17" {
		t.Fatalf("got %q, want 17", got)
	}
	if got := evalStr(t, ctx, "1.5 + 1.5").AsString(); got != "3.0" && got != "3" {
		t.Fatalf("got %q, want a value equal to 3", got)
	}
}

func TestMathFunctions(t *testing.T) {
	ctx := newFakeContext()
	if got := evalStr(t, ctx, "abs(-5)").AsString(); got != "5" {
		t.Fatalf("abs(-5) = %q, want 5", got)
	}
	if got := evalStr(t, ctx, "int(3.9)").AsString(); got != "3" {
		t.Fatalf("int(3.9) = %q, want 3", got)
	}
	if got := evalStr(t, ctx, "round(3.5)").AsString(); got != "4" {
		t.Fatalf("round(3.5) = %q, want 4", got)
	}
	v := evalStr(t, ctx, "double(3)")
	f, err := v.AsFloat()
	if err != nil || f != 3.0 {
		t.Fatalf("double(3) = %v (err %v), want 3.0", v.AsString(), err)
	}
}

func TestUnknownFunctionErrors(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Eval("bogus(1)", ctx); err == nil {
		t.Fatalf("expected error calling unknown function")
	}
}

func TestIntegerOverflowErrors(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Eval("9223372036854775807 + 1", ctx); err == nil {
		t.Fatalf("expected overflow error on int64 addition")
	}
}

func TestNonNumericOperandErrors(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Eval(`"abc" + 1`, ctx); err == nil {
		t.Fatalf("expected error adding a non-numeric string")
	}
}

func TestTrailingGarbageIsSyntaxError(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Eval("1 + 1 2", ctx); err == nil {
		t.Fatalf("expected syntax error for trailing garbage")
	} else if !strings.Contains(err.Error(), "syntax error") {
		t.Fatalf("error = %v, want mention of syntax error", err)
	}
}

func TestUndefinedVariableErrors(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Eval("$nope + 1", ctx); err == nil {
		t.Fatalf("expected error referencing an undefined variable")
	}
}
