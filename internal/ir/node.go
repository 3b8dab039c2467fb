package ir

import "graphir/internal/types"

type NodeID uint32
type VarID int32
type BlockID int32
type FuncID int32

const (
	// NoNodeID is the zero handle; slot 0 of the arena is never used.
	NoNodeID  NodeID  = 0
	NoVarID   VarID   = -1
	NoBlockID BlockID = -1
	NoFuncID  FuncID  = -1
)

// NodeKind enumerates expression node kinds.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	// NodeConst is a literal of a primitive type.
	NodeConst
	// NodeVarRef reads the current value of a variable.
	NodeVarRef
	// NodeBinary applies a binary operator to two nodes of equal type.
	NodeBinary
	// NodeCall invokes a function with argument nodes.
	NodeCall
	// NodeSwitch selects the first arm whose pattern matches the scrutinee.
	NodeSwitch
)

func (k NodeKind) String() string {
	switch k {
	case NodeConst:
		return "const"
	case NodeVarRef:
		return "var"
	case NodeBinary:
		return "binary"
	case NodeCall:
		return "call"
	case NodeSwitch:
		return "switch"
	default:
		return "invalid"
	}
}

type BinaryNode struct {
	Op    types.BinaryOp
	Left  NodeID
	Right NodeID
}

type CallNode struct {
	Func FuncID
	Args []NodeID
}

// SwitchArm is one (pattern, body) pair. Body runs before Result is read.
type SwitchArm struct {
	Wildcard bool
	Pattern  NodeID // NodeConst; NoNodeID for wildcards
	Body     BlockID
	Result   NodeID // NoNodeID when the arm yields unit
}

type SwitchNode struct {
	Scrutinee NodeID
	Arms      []SwitchArm
}

// Node is one entry of the graph arena. Only the payload matching Kind is set.
type Node struct {
	ID   NodeID
	Kind NodeKind
	Type types.Type

	Const  Const
	Var    VarID
	Binary BinaryNode
	Call   CallNode
	Switch SwitchNode
}

// Operands lists the nodes n reads directly, in evaluation order.
func (n *Node) Operands() []NodeID {
	switch n.Kind {
	case NodeBinary:
		return []NodeID{n.Binary.Left, n.Binary.Right}
	case NodeCall:
		return n.Call.Args
	case NodeSwitch:
		ops := []NodeID{n.Switch.Scrutinee}
		for _, arm := range n.Switch.Arms {
			if !arm.Wildcard {
				ops = append(ops, arm.Pattern)
			}
			if arm.Result != NoNodeID {
				ops = append(ops, arm.Result)
			}
		}
		return ops
	}
	return nil
}
