package ir

import "graphir/internal/types"

// Value is a handle to an expression node. The zero Value is invalid.
//
// The fluent operators (a.Add(b)) build through the innermost active
// context. On failure they record the error on the graph and return a zero
// Value; the next builder call then reports it.
type Value struct {
	ID NodeID
	g  *Graph
}

func (v Value) IsValid() bool { return v.g != nil && v.ID != NoNodeID }

// Type returns the node's type, types.Invalid for a zero Value.
func (v Value) Type() types.Type {
	if v.g == nil {
		return types.Invalid
	}
	return v.g.TypeOf(v.ID)
}

// Kind returns the kind of the underlying node.
func (v Value) Kind() NodeKind {
	if v.g == nil {
		return NodeInvalid
	}
	if n := v.g.Node(v.ID); n != nil {
		return n.Kind
	}
	return NodeInvalid
}

func (v Value) fluent(op types.BinaryOp, o Value) Value {
	g := v.g
	if g == nil {
		g = o.g
	}
	if g == nil {
		return Value{}
	}
	c := g.current()
	if c == nil {
		return Value{}
	}
	out, err := c.Binary(op, v, o)
	if err != nil {
		return Value{}
	}
	return out
}

func (v Value) Add(o Value) Value { return v.fluent(types.OpAdd, o) }
func (v Value) Sub(o Value) Value { return v.fluent(types.OpSub, o) }
func (v Value) Mul(o Value) Value { return v.fluent(types.OpMul, o) }
func (v Value) Div(o Value) Value { return v.fluent(types.OpDiv, o) }
func (v Value) Rem(o Value) Value { return v.fluent(types.OpRem, o) }
func (v Value) And(o Value) Value { return v.fluent(types.OpAnd, o) }
func (v Value) Or(o Value) Value  { return v.fluent(types.OpOr, o) }
func (v Value) Xor(o Value) Value { return v.fluent(types.OpXor, o) }
func (v Value) Shl(o Value) Value { return v.fluent(types.OpShl, o) }
func (v Value) Shr(o Value) Value { return v.fluent(types.OpShr, o) }
func (v Value) Eq(o Value) Value  { return v.fluent(types.OpEq, o) }
func (v Value) Ne(o Value) Value  { return v.fluent(types.OpNe, o) }
func (v Value) Lt(o Value) Value  { return v.fluent(types.OpLt, o) }
func (v Value) Le(o Value) Value  { return v.fluent(types.OpLe, o) }
func (v Value) Gt(o Value) Value  { return v.fluent(types.OpGt, o) }
func (v Value) Ge(o Value) Value  { return v.fluent(types.OpGe, o) }
