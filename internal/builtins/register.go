// Package builtins populates a fresh interp.Interpreter with the
// standard command set described in spec.md section 5 and the
// supplemented commands SPEC_FULL.md adds (info exists, the extra list
// commands, a dict ensemble subset, a string ensemble subset, and
// uplevel). Commands are grouped into RegisterXxxFunctions(*interp.Interpreter)
// functions by category, the pattern used by
// "_examples/CWBudde-go-dws/internal/interp/builtins/register.go".
package builtins

import "github.com/hollowbranch/tecl/internal/interp"

// RegisterAll registers every built-in command on ip. A freshly
// constructed interp.Interpreter has none of these; the embedding tecl
// package calls this once per Interpreter.
func RegisterAll(ip *interp.Interpreter) {
	RegisterCoreFunctions(ip)
	RegisterListFunctions(ip)
	RegisterArrayFunctions(ip)
	RegisterStringFunctions(ip)
	RegisterDictFunctions(ip)
	RegisterInfoFunctions(ip)
}
