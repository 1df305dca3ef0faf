package exprlang

import (
	"strings"

	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/value"
)

// numOf peeks the numeric value of v without forcing a coercion that
// would be visible to the caller of the expression (AlreadyNumber first,
// falling back to a non-mutating ParseNumber of the string rep), per the
// "number-first parse rule" in spec.md 4.6.
func numOf(v value.Value) (value.Number, bool) {
	if n, ok := v.AlreadyNumber(); ok {
		return n, true
	}
	return value.ParseNumber(v.AsString())
}

func nonNumericErr(op string) error {
	return ierrors.New("can't use non-numeric string/floating-point value as operand of %q", op)
}

// intOp implements a strictly-integer binary operator (the bitwise and
// shift family), per spec.md 4.6.
func intOp(left, right value.Value, op string, fn func(a, b int64) (int64, error)) (value.Value, error) {
	a, err := requireInt(left, op)
	if err != nil {
		return value.Value{}, err
	}
	b, err := requireInt(right, op)
	if err != nil {
		return value.Value{}, err
	}
	r, err := fn(a, b)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromInt(r), nil
}

// arithOp implements +, -, * : int if both operands are integers (cached
// or parsed from their string rep),
// float otherwise, per spec.md 4.6's numeric promotion rule.
func arithOp(left, right value.Value, op string, intFn func(a, b int64) (int64, error), floatFn func(a, b float64) float64) (value.Value, error) {
	ln, lok := numOf(left)
	if !lok {
		return value.Value{}, nonNumericErr(op)
	}
	rn, rok := numOf(right)
	if !rok {
		return value.Value{}, nonNumericErr(op)
	}
	if ln.IsInt && rn.IsInt {
		r, err := intFn(ln.I, rn.I)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromInt(r), nil
	}
	return value.FromFloat(floatFn(ln.Float(), rn.Float())), nil
}

func divOp(left, right value.Value) (value.Value, error) {
	ln, lok := numOf(left)
	if !lok {
		return value.Value{}, nonNumericErr("/")
	}
	rn, rok := numOf(right)
	if !rok {
		return value.Value{}, nonNumericErr("/")
	}
	if ln.IsInt && rn.IsInt {
		if rn.I == 0 {
			return value.Value{}, ierrors.New("divide by zero")
		}
		return value.FromInt(ln.I / rn.I), nil
	}
	rf := rn.Float()
	if rf == 0 {
		return value.Value{}, ierrors.New("divide by zero")
	}
	return value.FromFloat(ln.Float() / rf), nil
}

func modOp(left, right value.Value) (value.Value, error) {
	a, err := requireInt(left, "%")
	if err != nil {
		return value.Value{}, err
	}
	b, err := requireInt(right, "%")
	if err != nil {
		return value.Value{}, err
	}
	if b == 0 {
		return value.Value{}, ierrors.New("divide by zero")
	}
	return value.FromInt(a % b), nil
}

// compareOp implements the relational operators: numeric comparison when
// both operands are already-or-parseable numbers, lexicographic string
// comparison when neither is, and an error when exactly one is.
func compareOp(left, right value.Value, op string, pred func(c int) bool) (value.Value, error) {
	ln, lok := numOf(left)
	rn, rok := numOf(right)
	switch {
	case lok && rok:
		return value.FromBool(pred(compareNumbers(ln, rn))), nil
	case !lok && !rok:
		return value.FromBool(pred(strings.Compare(left.AsString(), right.AsString()))), nil
	default:
		return value.Value{}, nonNumericErr(op)
	}
}

func compareNumbers(a, b value.Number) int {
	if a.IsInt && b.IsInt {
		switch {
		case a.I < b.I:
			return -1
		case a.I > b.I:
			return 1
		default:
			return 0
		}
	}
	af, bf := a.Float(), b.Float()
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

// notOp implements unary !: both integer and float operands are reduced
// to truthiness and then logically negated, yielding an integer 0 or 1,
// per spec.md 4.6. This is a deliberate Open Question resolution
// recorded in DESIGN.md: treat int and float operands identically rather
// than following a literal reading that would have them behave as
// opposites.
func notOp(v value.Value) (value.Value, error) {
	b, err := truthy(v)
	if err != nil {
		return value.Value{}, err
	}
	if b {
		return value.FromInt(0), nil
	}
	return value.FromInt(1), nil
}

func negateOp(v value.Value) (value.Value, error) {
	n, ok := numOf(v)
	if !ok {
		return value.Value{}, nonNumericErr("-")
	}
	if n.IsInt {
		return value.FromInt(-n.I), nil
	}
	return value.FromFloat(-n.F), nil
}

func addInt(a, b int64) (int64, error) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return 0, ierrors.New("integer value too large to represent")
	}
	return r, nil
}

func subInt(a, b int64) (int64, error) {
	r := a - b
	if (b < 0 && r < a) || (b > 0 && r > a) {
		return 0, ierrors.New("integer value too large to represent")
	}
	return r, nil
}

func mulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a {
		return 0, ierrors.New("integer value too large to represent")
	}
	return r, nil
}
