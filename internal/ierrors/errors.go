// Package ierrors formats interpreter errors with source context -
// a one-line location header plus the offending source line and a caret
// - when position information is available. This is additive to the
// plain Error(Value) result kind specified in spec.md section 7; it is
// the pretty-printing layer a CLI or test harness uses on top of it,
// grounded on "_examples/CWBudde-go-dws/internal/errors" (CompilerError.Format).
package ierrors

import (
	"fmt"
	"strings"

	"github.com/hollowbranch/tecl/internal/token"
)

// ScriptError wraps a plain error message with an optional source
// position. Parser errors always carry a position; runtime errors carry
// one only when raised from a construct the parser annotated.
type ScriptError struct {
	Message string
	Pos     token.Position
	HasPos  bool
}

// New creates a ScriptError with no position information.
func New(format string, args ...any) *ScriptError {
	return &ScriptError{Message: fmt.Sprintf(format, args...)}
}

// NewAt creates a ScriptError carrying a source position.
func NewAt(pos token.Position, format string, args ...any) *ScriptError {
	return &ScriptError{Message: fmt.Sprintf(format, args...), Pos: pos, HasPos: true}
}

// Error implements the error interface, returning just the message
// (matching the Value a caught error carries per spec.md section 7).
func (e *ScriptError) Error() string {
	return e.Message
}

// Format renders a multi-line report with a "file:line:col: message"
// header followed by the offending source line and a caret pointing at
// the column, in the style of the teacher's CompilerError.Format. If no
// position is available, it falls back to just the message.
func (e *ScriptError) Format(source, file string) string {
	if !e.HasPos {
		return e.Message
	}
	var sb strings.Builder
	if file != "" {
		fmt.Fprintf(&sb, "%s:%d:%d: %s\n", file, e.Pos.Line, e.Pos.Column, e.Message)
	} else {
		fmt.Fprintf(&sb, "%d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Message)
	}
	line := sourceLine(source, e.Pos.Line)
	if line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		sb.WriteString("^\n")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	n := 1
	start := 0
	for i := 0; i < len(source); i++ {
		if n == line {
			start = i
			for i < len(source) && source[i] != '\n' {
				i++
			}
			return strings.TrimSuffix(source[start:i], "\r")
		}
		if source[i] == '\n' {
			n++
		}
	}
	if n == line {
		return source[start:]
	}
	return ""
}
