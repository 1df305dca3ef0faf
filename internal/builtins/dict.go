package builtins

import (
	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/interp"
	"github.com/hollowbranch/tecl/internal/value"
)

// RegisterDictFunctions registers the `dict` ensemble subset
// SPEC_FULL.md supplements: create, get, set, exists, keys, values,
// size, remove.
func RegisterDictFunctions(ip *interp.Interpreter) {
	ip.AddCommand("dict", biDict)
}

var dictTable = map[string]interp.CommandFunc{
	"create": biDictCreate,
	"get":    biDictGet,
	"set":    biDictSet,
	"exists": biDictExists,
	"keys":   biDictKeys,
	"values": biDictValues,
	"size":   biDictSize,
	"remove": biDictRemove,
}

func biDict(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("dict subcommand ?arg ...?")
	}
	return interp.CallSubcommand("dict", args[0].AsString(), dictTable, ip, args[1:])
}

func biDictCreate(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args)%2 != 0 {
		return value.Value{}, wrongArgs("dict create ?key value ...?")
	}
	d := value.NewDict()
	for i := 0; i+1 < len(args); i += 2 {
		d.Set(args[i], args[i+1])
	}
	return value.FromDict(d), nil
}

func biDictGet(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("dict get dictValue ?key ...?")
	}
	cur := args[0]
	for _, k := range args[1:] {
		d, err := cur.AsDict()
		if err != nil {
			return value.Value{}, err
		}
		v, ok := d.Get(k)
		if !ok {
			return value.Value{}, ierrors.New("key %q not known in dictionary", k.AsString())
		}
		cur = v
	}
	if len(args) == 1 {
		return cur, nil
	}
	return cur, nil
}

func biDictSet(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, wrongArgs("dict set dictValue key value")
	}
	d, err := args[0].AsDict()
	if err != nil {
		return value.Value{}, err
	}
	nd := d.Clone()
	nd.Set(args[1], args[2])
	return value.FromDict(nd), nil
}

func biDictExists(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, wrongArgs("dict exists dictValue key")
	}
	d, err := args[0].AsDict()
	if err != nil {
		return value.Value{}, err
	}
	_, ok := d.Get(args[1])
	return value.FromBool(ok), nil
}

func biDictKeys(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("dict keys dictValue")
	}
	d, err := args[0].AsDict()
	if err != nil {
		return value.Value{}, err
	}
	return value.FromList(d.Keys()), nil
}

func biDictValues(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("dict values dictValue")
	}
	d, err := args[0].AsDict()
	if err != nil {
		return value.Value{}, err
	}
	return value.FromList(d.Values()), nil
}

func biDictSize(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("dict size dictValue")
	}
	d, err := args[0].AsDict()
	if err != nil {
		return value.Value{}, err
	}
	return value.FromInt(int64(d.Len())), nil
}

func biDictRemove(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("dict remove dictValue ?key ...?")
	}
	d, err := args[0].AsDict()
	if err != nil {
		return value.Value{}, err
	}
	nd := d.Clone()
	for _, k := range args[1:] {
		nd.Remove(k)
	}
	return value.FromDict(nd), nil
}
