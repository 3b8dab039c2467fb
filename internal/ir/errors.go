package ir

import (
	"errors"
	"fmt"
	"strings"

	"graphir/internal/types"
)

// Error kinds. Every error returned by a builder wraps exactly one of them.
var (
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrArityMismatch      = errors.New("arity mismatch")
	ErrDuplicateWildcard  = errors.New("duplicate wildcard")
	ErrUnresolvedVariable = errors.New("unresolved variable")
	ErrUnreachableArm     = errors.New("unreachable arm")
	ErrEmptySwitch        = errors.New("switch without arms")
	ErrNonConstantPattern = errors.New("non-constant pattern")
	ErrUninferableType    = errors.New("uninferable return type")
	ErrRedefinedFunction  = errors.New("function already defined")
	ErrInvalidValue       = errors.New("invalid value")
	ErrDuplicateName      = errors.New("duplicate name")
)

// Code identifies a build error kind.
type Code int

// Stable codes - do not change values.
const (
	CodeTypeMismatch       Code = 1001 // IR1001
	CodeArityMismatch      Code = 1002 // IR1002
	CodeDuplicateWildcard  Code = 1003 // IR1003
	CodeUnresolvedVariable Code = 1004 // IR1004
	CodeUnreachableArm     Code = 1005 // IR1005
	CodeEmptySwitch        Code = 1006 // IR1006
	CodeNonConstantPattern Code = 1007 // IR1007
	CodeUninferableType    Code = 1008 // IR1008
	CodeRedefinedFunction  Code = 1009 // IR1009
	CodeInvalidValue       Code = 1010 // IR1010
	CodeDuplicateName      Code = 1011 // IR1011
	CodeUser               Code = 1999 // IR1999: error returned by a body callback
)

func (c Code) String() string {
	return fmt.Sprintf("IR%d", int(c))
}

var kindCodes = map[error]Code{
	ErrTypeMismatch:       CodeTypeMismatch,
	ErrArityMismatch:      CodeArityMismatch,
	ErrDuplicateWildcard:  CodeDuplicateWildcard,
	ErrUnresolvedVariable: CodeUnresolvedVariable,
	ErrUnreachableArm:     CodeUnreachableArm,
	ErrEmptySwitch:        CodeEmptySwitch,
	ErrNonConstantPattern: CodeNonConstantPattern,
	ErrUninferableType:    CodeUninferableType,
	ErrRedefinedFunction:  CodeRedefinedFunction,
	ErrInvalidValue:       CodeInvalidValue,
	ErrDuplicateName:      CodeDuplicateName,
}

// BuildError describes a failed builder call.
type BuildError struct {
	Code     Code
	Kind     error
	Node     string     // offending construct, e.g. "branch condition", "call fib arg 1"
	Expected types.Type // set for type mismatches
	Got      types.Type
	Detail   string
}

func (e *BuildError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code.String())
	sb.WriteString(" ")
	sb.WriteString(e.Kind.Error())
	if e.Node != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Node)
	}
	if e.Expected.Kind != types.KindInvalid || e.Got.Kind != types.KindInvalid {
		fmt.Fprintf(&sb, ": expected %s, got %s", e.Expected, e.Got)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

func (e *BuildError) Unwrap() error { return e.Kind }

func newError(kind error, node, detail string) *BuildError {
	return &BuildError{Code: kindCodes[kind], Kind: kind, Node: node, Detail: detail}
}

func mismatch(node string, want, got types.Type) *BuildError {
	return &BuildError{
		Code:     CodeTypeMismatch,
		Kind:     ErrTypeMismatch,
		Node:     node,
		Expected: want,
		Got:      got,
	}
}
