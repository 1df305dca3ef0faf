package exprlang

import (
	"math"

	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/value"
)

// mathFunctions is the fixed table of expression math functions named in
// spec.md 4.6: abs, double, int, round.
var mathFunctions = map[string]func([]value.Value) (value.Value, error){
	"abs":    mathAbs,
	"double": mathDouble,
	"int":    mathInt,
	"round":  mathRound,
}

func requireOneArg(name string, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, ierrors.New("wrong # args to math function %q: requires exactly 1 argument", name)
	}
	return args[0], nil
}

func mathAbs(args []value.Value) (value.Value, error) {
	v, err := requireOneArg("abs", args)
	if err != nil {
		return value.Value{}, err
	}
	n, ok := numOf(v)
	if !ok {
		return value.Value{}, nonNumericErr("abs")
	}
	if n.IsInt {
		if n.I < 0 {
			return value.FromInt(-n.I), nil
		}
		return value.FromInt(n.I), nil
	}
	return value.FromFloat(math.Abs(n.F)), nil
}

func mathDouble(args []value.Value) (value.Value, error) {
	v, err := requireOneArg("double", args)
	if err != nil {
		return value.Value{}, err
	}
	n, ok := numOf(v)
	if !ok {
		return value.Value{}, nonNumericErr("double")
	}
	return value.FromFloat(n.Float()), nil
}

func mathInt(args []value.Value) (value.Value, error) {
	v, err := requireOneArg("int", args)
	if err != nil {
		return value.Value{}, err
	}
	n, ok := numOf(v)
	if !ok {
		return value.Value{}, nonNumericErr("int")
	}
	if n.IsInt {
		return value.FromInt(n.I), nil
	}
	return value.FromInt(int64(n.F)), nil
}

func mathRound(args []value.Value) (value.Value, error) {
	v, err := requireOneArg("round", args)
	if err != nil {
		return value.Value{}, err
	}
	n, ok := numOf(v)
	if !ok {
		return value.Value{}, nonNumericErr("round")
	}
	if n.IsInt {
		return value.FromInt(n.I), nil
	}
	return value.FromInt(int64(math.Round(n.F))), nil
}
