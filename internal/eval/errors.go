package eval

import (
	"fmt"
	"strings"

	"graphir/internal/ir"
)

// Code identifies the kind of evaluation failure.
type Code int

// Stable codes - do not change values.
const (
	CodeDivideByZero  Code = 1001 // EV1001: division or remainder by zero
	CodeDepthExceeded Code = 1002 // EV1002: call depth limit
	CodeStepLimit     Code = 1003 // EV1003: step budget exhausted
	CodeNoMatchingArm Code = 1004 // EV1004: switch without a matching arm
	CodeUnsetVariable Code = 1005 // EV1005: variable read before assignment
	CodeBadGraph      Code = 1006 // EV1006: graph violates its invariants
	CodeArity         Code = 1007 // EV1007: wrong number of entry arguments
	CodeCanceled      Code = 1008 // EV1008: context canceled
	CodeBadShift      Code = 1009 // EV1009: negative shift count
	CodeBadArgument   Code = 1010 // EV1010: entry argument of the wrong type
)

// String returns the code as "EV1001".
func (c Code) String() string {
	return fmt.Sprintf("EV%d", int(c))
}

// Frame is one entry of an evaluation backtrace.
type Frame struct {
	Func string
	Call ir.NodeID // call node that entered Func; NoNodeID for the entry frame
}

// EvalError reports a failed evaluation.
type EvalError struct {
	Code      Code
	Message   string
	Node      ir.NodeID // node being evaluated
	Backtrace []Frame   // innermost first
	cause     error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval %s: %s", e.Code, e.Message)
}

func (e *EvalError) Unwrap() error { return e.cause }

// Format renders the error with its backtrace.
func (e *EvalError) Format() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	if e.Node != ir.NoNodeID {
		fmt.Fprintf(&sb, "\nat %%%d", e.Node)
	}
	if len(e.Backtrace) > 0 {
		sb.WriteString("\nbacktrace:")
		for i, f := range e.Backtrace {
			if f.Call == ir.NoNodeID {
				fmt.Fprintf(&sb, "\n  %d: %s", i, f.Func)
			} else {
				fmt.Fprintf(&sb, "\n  %d: %s called at %%%d", i, f.Func, f.Call)
			}
		}
	}
	return sb.String()
}

// errorBuilder fills in location and backtrace from the interpreter state.
type errorBuilder struct {
	in *Interpreter
}

func (eb errorBuilder) makeError(code Code, node ir.NodeID, msg string) *EvalError {
	e := &EvalError{Code: code, Message: msg, Node: node}
	stack := eb.in.stack
	e.Backtrace = make([]Frame, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		fr := stack[i]
		name := "<root>"
		if fr.fn != nil {
			name = fr.fn.String()
		}
		e.Backtrace[len(stack)-1-i] = Frame{Func: name, Call: fr.site}
	}
	return e
}

func (eb errorBuilder) divideByZero(node ir.NodeID, op string) *EvalError {
	return eb.makeError(CodeDivideByZero, node, op+" by zero")
}

func (eb errorBuilder) depthExceeded(node ir.NodeID, limit int) *EvalError {
	return eb.makeError(CodeDepthExceeded, node, fmt.Sprintf("call depth exceeds %d", limit))
}

func (eb errorBuilder) stepLimit(node ir.NodeID, limit int64) *EvalError {
	return eb.makeError(CodeStepLimit, node, fmt.Sprintf("step budget of %d exhausted", limit))
}

func (eb errorBuilder) noMatchingArm(node ir.NodeID, v ir.Const) *EvalError {
	return eb.makeError(CodeNoMatchingArm, node, fmt.Sprintf("no arm matches %s", v))
}

func (eb errorBuilder) unsetVariable(node ir.NodeID, name string) *EvalError {
	return eb.makeError(CodeUnsetVariable, node, fmt.Sprintf("variable %q read before it was set", name))
}

func (eb errorBuilder) badGraph(node ir.NodeID, format string, args ...any) *EvalError {
	return eb.makeError(CodeBadGraph, node, fmt.Sprintf(format, args...))
}

func (eb errorBuilder) canceled(node ir.NodeID, cause error) *EvalError {
	e := eb.makeError(CodeCanceled, node, cause.Error())
	e.cause = cause
	return e
}

func (eb errorBuilder) badShift(node ir.NodeID, count int64) *EvalError {
	return eb.makeError(CodeBadShift, node, fmt.Sprintf("negative shift count %d", count))
}
