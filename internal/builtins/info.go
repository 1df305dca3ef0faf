package builtins

import (
	"sort"

	"github.com/hollowbranch/tecl/internal/interp"
	"github.com/hollowbranch/tecl/internal/parser"
	"github.com/hollowbranch/tecl/internal/value"
)

// RegisterInfoFunctions registers the `info` ensemble: exists (spec.md
// section 4.7's existence query, surfaced as a command per
// SPEC_FULL.md), plus commands/procs introspection grounded on
// Interpreter.CommandNames/ProcNames.
func RegisterInfoFunctions(ip *interp.Interpreter) {
	ip.AddCommand("info", biInfo)
}

var infoTable = map[string]interp.CommandFunc{
	"exists":   biInfoExists,
	"commands": biInfoCommands,
	"procs":    biInfoProcs,
	"vars":     biInfoVars,
	"complete": biInfoComplete,
}

func biInfo(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) < 1 {
		return value.Value{}, wrongArgs("info subcommand ?arg ...?")
	}
	return interp.CallSubcommand("info", args[0].AsString(), infoTable, ip, args[1:])
}

func biInfoExists(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("info exists varName")
	}
	return value.FromBool(ip.Scope().Exists(args[0].AsString())), nil
}

func biInfoCommands(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return value.Value{}, wrongArgs("info commands")
	}
	names := ip.CommandNames()
	out := make([]value.Value, len(names))
	for i, n := range names {
		out[i] = value.FromString(n)
	}
	return value.FromList(out), nil
}

func biInfoProcs(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return value.Value{}, wrongArgs("info procs")
	}
	names := ip.ProcNames()
	sort.Strings(names)
	out := make([]value.Value, len(names))
	for i, n := range names {
		out[i] = value.FromString(n)
	}
	return value.FromList(out), nil
}

func biInfoVars(ip *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return value.Value{}, wrongArgs("info vars")
	}
	names := ip.Scope().Names()
	sort.Strings(names)
	out := make([]value.Value, len(names))
	for i, n := range names {
		out[i] = value.FromString(n)
	}
	return value.FromList(out), nil
}

func biInfoComplete(_ *interp.Interpreter, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, wrongArgs("info complete script")
	}
	return value.FromBool(parser.Complete(args[0].AsString())), nil
}
