package builtins

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hollowbranch/tecl/internal/ierrors"
	"github.com/hollowbranch/tecl/internal/interp"
	"github.com/hollowbranch/tecl/internal/value"
)

// RegisterListFunctions registers the list built-ins of spec.md section
// 5 plus SPEC_FULL.md's supplemented lrange/lsearch/lsort/lset/linsert.
func RegisterListFunctions(ip *interp.Interpreter) {
	ip.AddCommand("list", biList)
	ip.AddCommand("llength", biLlength)
	ip.AddCommand("lindex", biLindex)
	ip.AddCommand("lappend", biLappend)
	ip.AddCommand("join", biJoin)
	ip.AddCommand("lrange", biLrange)
	ip.AddCommand("lsearch", biLsearch)
	ip.AddCommand("lsort", biLsort)
	ip.AddCommand("lset", biLset)
	ip.AddCommand("linsert", biLinsert)
}

func biList(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	items := append([]value.Value(nil), args...)
	return value.FromList(items), nil
}

func biLlength(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("llength list")
	}
	items, err := args[0].AsList()
	if err != nil {
		return value.Value{}, err
	}
	return value.FromInt(int64(len(items))), nil
}

// listIndex resolves a Tcl-style list index, including the "end" and
// "end-N" forms, against a list of length n.
func listIndex(s string, n int) (int, error) {
	if s == "end" {
		return n - 1, nil
	}
	if strings.HasPrefix(s, "end-") {
		d, err := strconv.Atoi(s[len("end-"):])
		if err != nil {
			return 0, ierrors.New("bad index %q: must be an integer or \"end\"", s)
		}
		return n - 1 - d, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, ierrors.New("bad index %q: must be an integer or \"end\"", s)
	}
	return i, nil
}

func biLindex(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("lindex list ?index ...?")
	}
	cur := args[0]
	for _, idxArg := range args[1:] {
		items, err := cur.AsList()
		if err != nil {
			return value.Value{}, err
		}
		i, err := listIndex(idxArg.AsString(), len(items))
		if err != nil {
			return value.Value{}, err
		}
		if i < 0 || i >= len(items) {
			return value.Empty, nil
		}
		cur = items[i]
	}
	return cur, nil
}

func biLappend(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("lappend varName ?value value ...?")
	}
	name := args[0].AsString()
	var items []value.Value
	if v, err := ip.Scope().GetScalar(name); err == nil {
		items, err = v.AsList()
		if err != nil {
			return value.Value{}, err
		}
	}
	items = append(append([]value.Value(nil), items...), args[1:]...)
	result := value.FromList(items)
	if err := ip.Scope().SetScalar(name, result); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

func biJoin(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, wrongArgs("join list ?joinString?")
	}
	items, err := args[0].AsList()
	if err != nil {
		return value.Value{}, err
	}
	sep := " "
	if len(args) == 2 {
		sep = args[1].AsString()
	}
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = v.AsString()
	}
	return value.FromString(strings.Join(parts, sep)), nil
}

func biLrange(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, wrongArgs("lrange list first last")
	}
	items, err := args[0].AsList()
	if err != nil {
		return value.Value{}, err
	}
	first, err := listIndex(args[1].AsString(), len(items))
	if err != nil {
		return value.Value{}, err
	}
	last, err := listIndex(args[2].AsString(), len(items))
	if err != nil {
		return value.Value{}, err
	}
	if first < 0 {
		first = 0
	}
	if last >= len(items) {
		last = len(items) - 1
	}
	if first > last || first >= len(items) {
		return value.FromList(nil), nil
	}
	out := append([]value.Value(nil), items[first:last+1]...)
	return value.FromList(out), nil
}

func biLsearch(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	exact := false
	rest := args
	for len(rest) > 0 && strings.HasPrefix(rest[0].AsString(), "-") {
		switch rest[0].AsString() {
		case "-exact":
			exact = true
		case "-glob":
			exact = false
		default:
			return value.Value{}, ierrors.New("unknown option %q to lsearch", rest[0].AsString())
		}
		rest = rest[1:]
	}
	if len(rest) != 2 {
		return value.Value{}, wrongArgs("lsearch ?-exact? ?-glob? list pattern")
	}
	items, err := rest[0].AsList()
	if err != nil {
		return value.Value{}, err
	}
	pattern := rest[1].AsString()
	for i, v := range items {
		if exact {
			if v.AsString() == pattern {
				return value.FromInt(int64(i)), nil
			}
			continue
		}
		if matchGlob(pattern, v.AsString()) {
			return value.FromInt(int64(i)), nil
		}
	}
	return value.FromInt(-1), nil
}

// matchGlob implements Tcl's `string match` subset used by lsearch -glob
// and the string ensemble: '*' matches any run, '?' matches one char.
func matchGlob(pattern, s string) bool {
	return globMatch(pattern, s)
}

func globMatch(pattern, s string) bool {
	if pattern == "" {
		return s == ""
	}
	if pattern[0] == '*' {
		for i := 0; i <= len(s); i++ {
			if globMatch(pattern[1:], s[i:]) {
				return true
			}
		}
		return false
	}
	if s == "" {
		return false
	}
	if pattern[0] == '?' || pattern[0] == s[0] {
		return globMatch(pattern[1:], s[1:])
	}
	return false
}

func biLsort(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	numeric := false
	decreasing := false
	rest := args
	for len(rest) > 0 && strings.HasPrefix(rest[0].AsString(), "-") {
		switch rest[0].AsString() {
		case "-ascii":
			numeric = false
		case "-integer", "-real":
			numeric = true
		case "-increasing":
			decreasing = false
		case "-decreasing":
			decreasing = true
		default:
			return value.Value{}, ierrors.New("unknown option %q to lsort", rest[0].AsString())
		}
		rest = rest[1:]
	}
	if len(rest) != 1 {
		return value.Value{}, wrongArgs("lsort ?-ascii|-integer|-real? ?-increasing|-decreasing? list")
	}
	items, err := rest[0].AsList()
	if err != nil {
		return value.Value{}, err
	}
	out := append([]value.Value(nil), items...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		var less bool
		if numeric {
			fi, e1 := out[i].AsFloat()
			fj, e2 := out[j].AsFloat()
			if e1 != nil {
				sortErr = e1
			} else if e2 != nil {
				sortErr = e2
			}
			less = fi < fj
		} else {
			less = out[i].AsString() < out[j].AsString()
		}
		if decreasing {
			return !less
		}
		return less
	})
	if sortErr != nil {
		return value.Value{}, sortErr
	}
	return value.FromList(out), nil
}

func biLset(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, wrongArgs("lset varName index newValue")
	}
	name := args[0].AsString()
	v, err := ip.Scope().GetScalar(name)
	if err != nil {
		return value.Value{}, err
	}
	items, err := v.AsList()
	if err != nil {
		return value.Value{}, err
	}
	idx, err := listIndex(args[1].AsString(), len(items))
	if err != nil {
		return value.Value{}, err
	}
	if idx < 0 || idx >= len(items) {
		return value.Value{}, ierrors.New("list index out of range")
	}
	out := append([]value.Value(nil), items...)
	out[idx] = args[2]
	result := value.FromList(out)
	if err := ip.Scope().SetScalar(name, result); err != nil {
		return value.Value{}, err
	}
	return result, nil
}

func biLinsert(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 2 {
		return value.Value{}, wrongArgs("linsert list index ?element ...?")
	}
	items, err := args[0].AsList()
	if err != nil {
		return value.Value{}, err
	}
	// "end" is special-cased to mean one past the last element (append),
	// not listIndex's usual last-element meaning.
	var idx int
	if args[1].AsString() == "end" {
		idx = len(items)
	} else {
		idx, err = listIndex(args[1].AsString(), len(items))
		if err != nil {
			return value.Value{}, err
		}
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(items) {
		idx = len(items)
	}
	out := make([]value.Value, 0, len(items)+len(args)-2)
	out = append(out, items[:idx]...)
	out = append(out, args[2:]...)
	out = append(out, items[idx:]...)
	return value.FromList(out), nil
}
