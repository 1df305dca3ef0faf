package builtins

import (
	"strings"

	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/interp"
	"github.com/hollowbranch/tecl/internal/value"
)

// RegisterStringFunctions registers the `string` ensemble subset
// SPEC_FULL.md supplements onto spec.md's built-in command set.
func RegisterStringFunctions(ip *interp.Interpreter) {
	ip.AddCommand("string", biString)
}

var stringTable = map[string]interp.CommandFunc{
	"length":    biStringLength,
	"index":     biStringIndex,
	"range":     biStringRange,
	"tolower":   biStringToLower,
	"toupper":   biStringToUpper,
	"trim":      biStringTrim,
	"trimleft":  biStringTrimLeft,
	"trimright": biStringTrimRight,
	"match":     biStringMatch,
	"repeat":    biStringRepeat,
	"compare":   biStringCompare,
	"first":     biStringFirst,
}

func biString(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("string subcommand ?arg ...?")
	}
	return interp.CallSubcommand("string", args[0].AsString(), stringTable, ip, args[1:])
}

func biStringLength(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("string length string")
	}
	return value.FromInt(int64(len([]rune(args[0].AsString())))), nil
}

func biStringIndex(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("string index string charIndex")
	}
	r := []rune(args[0].AsString())
	i, err := listIndex(args[1].AsString(), len(r))
	if err != nil {
		return value.Value{}, err
	}
	if i < 0 || i >= len(r) {
		return value.Empty, nil
	}
	return value.FromString(string(r[i])), nil
}

func biStringRange(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, wrongArgs("string range string first last")
	}
	r := []rune(args[0].AsString())
	first, err := listIndex(args[1].AsString(), len(r))
	if err != nil {
		return value.Value{}, err
	}
	last, err := listIndex(args[2].AsString(), len(r))
	if err != nil {
		return value.Value{}, err
	}
	if first < 0 {
		first = 0
	}
	if last >= len(r) {
		last = len(r) - 1
	}
	if first > last || first >= len(r) {
		return value.FromString(""), nil
	}
	return value.FromString(string(r[first : last+1])), nil
}

func biStringToLower(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("string tolower string")
	}
	return value.FromString(strings.ToLower(args[0].AsString())), nil
}

func biStringToUpper(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("string toupper string")
	}
	return value.FromString(strings.ToUpper(args[0].AsString())), nil
}

func biStringTrim(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, wrongArgs("string trim string ?chars?")
	}
	cutset := " \t\r\n\v\f"
	if len(args) == 2 {
		cutset = args[1].AsString()
	}
	return value.FromString(strings.Trim(args[0].AsString(), cutset)), nil
}

func biStringTrimLeft(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, wrongArgs("string trimleft string ?chars?")
	}
	cutset := " \t\r\n\v\f"
	if len(args) == 2 {
		cutset = args[1].AsString()
	}
	return value.FromString(strings.TrimLeft(args[0].AsString(), cutset)), nil
}

func biStringTrimRight(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, wrongArgs("string trimright string ?chars?")
	}
	cutset := " \t\r\n\v\f"
	if len(args) == 2 {
		cutset = args[1].AsString()
	}
	return value.FromString(strings.TrimRight(args[0].AsString(), cutset)), nil
}

func biStringMatch(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("string match pattern string")
	}
	return value.FromBool(matchGlob(args[0].AsString(), args[1].AsString())), nil
}

func biStringRepeat(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("string repeat string count")
	}
	n, err := args[1].AsInt()
	if err != nil {
		return value.Value{}, err
	}
	if n < 0 {
		return value.Value{}, ierrors.New("bad count %d to string repeat", n)
	}
	return value.FromString(strings.Repeat(args[0].AsString(), int(n))), nil
}

func biStringCompare(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("string compare string1 string2")
	}
	return value.FromInt(int64(strings.Compare(args[0].AsString(), args[1].AsString()))), nil
}

func biStringFirst(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("string first needleString haystackString")
	}
	idx := strings.Index(args[1].AsString(), args[0].AsString())
	return value.FromInt(int64(idx)), nil
}
