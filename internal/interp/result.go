// Package interp implements the interpreter: command dispatch, the
// variable scope stack, user-defined procedures, and the context cache,
// per spec.md sections 4.5, 4.7, and 4.8.
package interp

import "github.com/hollowbranch/tecl/internal/value"

// SignalKind distinguishes the non-local-exit control signals a command
// can raise, per spec.md section 7's Result taxonomy. Ok and Error are
// represented directly as a (Value, nil) or (Value, error) return rather
// than as a Signal; Signal carries the rest.
type SignalKind int

const (
	SignalReturn SignalKind = iota
	SignalBreak
	SignalContinue
	SignalOther
)

// Signal is the error type used to propagate break/continue/return/other
// up through nested eval calls until a loop or proc call boundary catches
// it. It implements error so it flows through ordinary Go error returns.
type Signal struct {
	Kind  SignalKind
	Value value.Value
	Code  int // meaningful only for SignalOther
}

func (s *Signal) Error() string {
	switch s.Kind {
	case SignalReturn:
		return "return"
	case SignalBreak:
		return "break"
	case SignalContinue:
		return "continue"
	default:
		return "signal"
	}
}

// AsSignal reports whether err is a *Signal, unwrapping it if so.
func AsSignal(err error) (*Signal, bool) {
	s, ok := err.(*Signal)
	return s, ok
}
