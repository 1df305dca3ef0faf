package builtins

import (
	"sort"

	"github.com/hollowbranch/tecl/internal/interp"
	"github.com/hollowbranch/tecl/internal/value"
)

// RegisterArrayFunctions registers the `array` ensemble of spec.md
// section 5, dispatched through interp.CallSubcommand's closed-list
// pattern.
func RegisterArrayFunctions(ip *interp.Interpreter) {
	ip.AddCommand("array", biArray)
}

var arrayTable = map[string]interp.CommandFunc{
	"get":    biArrayGet,
	"set":    biArraySet,
	"exists": biArrayExists,
	"size":   biArraySize,
	"names":  biArrayNames,
	"unset":  biArrayUnset,
}

func biArray(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("array subcommand ?arg ...?")
	}
	return interp.CallSubcommand("array", args[0].AsString(), arrayTable, ip, args[1:])
}

func biArrayGet(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("array get arrayName")
	}
	name := args[0].AsString()
	names := ip.Scope().ArrayNames(name)
	sort.Strings(names)
	out := make([]value.Value, 0, len(names)*2)
	for _, k := range names {
		v, err := ip.Scope().ArrayGet(name, k)
		if err != nil {
			return value.Value{}, err
		}
		out = append(out, value.FromString(k), v)
	}
	return value.FromList(out), nil
}

func biArraySet(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("array set arrayName list")
	}
	name := args[0].AsString()
	items, err := args[1].AsList()
	if err != nil {
		return value.Value{}, err
	}
	if len(items)%2 != 0 {
		return value.Value{}, wrongArgs("array set: list must have an even number of elements")
	}
	for i := 0; i+1 < len(items); i += 2 {
		if err := ip.Scope().ArraySet(name, items[i].AsString(), items[i+1]); err != nil {
			return value.Value{}, err
		}
	}
	return value.Empty, nil
}

func biArrayExists(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("array exists arrayName")
	}
	return value.FromBool(ip.Scope().ArrayExists(args[0].AsString())), nil
}

func biArraySize(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("array size arrayName")
	}
	return value.FromInt(int64(ip.Scope().ArraySize(args[0].AsString()))), nil
}

func biArrayNames(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("array names arrayName")
	}
	names := ip.Scope().ArrayNames(args[0].AsString())
	sort.Strings(names)
	out := make([]value.Value, len(names))
	for i, n := range names {
		out[i] = value.FromString(n)
	}
	return value.FromList(out), nil
}

func biArrayUnset(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	switch len(args) {
	case 1:
		return value.Empty, ip.Scope().Unset(args[0].AsString())
	case 2:
		return value.Empty, ip.Scope().ArrayUnsetElem(args[0].AsString(), args[1].AsString())
	default:
		return value.Value{}, wrongArgs("array unset arrayName ?index?")
	}
}
