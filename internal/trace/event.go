package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower values are coarser.
type Scope uint8

const (
	// ScopeSession covers one CLI command or one construction session.
	ScopeSession Scope = iota + 1
	// ScopePhase covers build, validate, snapshot and eval phases.
	ScopePhase
	// ScopeFunction covers a function definition or an evaluated call.
	ScopeFunction
	// ScopeNode covers individual branch and switch nodes.
	ScopeNode
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopePhase:
		return "phase"
	case ScopeFunction:
		return "function"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "build", "fn fib", "switch"
	Detail   string
	Extra    map[string]string
}
