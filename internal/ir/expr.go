package ir

import (
	"fmt"

	"graphir/internal/types"
)

// Binary builds lhs op rhs. Both operands must have the same type and the
// operator must be defined on it.
func (c *Context) Binary(op types.BinaryOp, lhs, rhs Value) (Value, error) {
	if err := c.usable(); err != nil {
		return Value{}, err
	}
	site := fmt.Sprintf("%s operands", op.Name())
	spec, ok := types.Spec(op)
	if !ok {
		return Value{}, c.g.fail(newError(ErrInvalidValue, site, "unknown operator"))
	}
	if err := c.operand(site, lhs); err != nil {
		return Value{}, err
	}
	if err := c.operand(site, rhs); err != nil {
		return Value{}, err
	}
	lt, rt := c.g.TypeOf(lhs.ID), c.g.TypeOf(rhs.ID)
	result, err := c.g.binaryType(op, spec, lt, rt, site)
	if err != nil {
		return Value{}, err
	}
	n := Node{Kind: NodeBinary, Type: result, Binary: BinaryNode{Op: op, Left: lhs.ID, Right: rhs.ID}}
	id, err := c.g.addNode(n, deeper(c.g.scopes[lhs.ID], c.g.scopes[rhs.ID]))
	if err != nil {
		return Value{}, err
	}
	return c.value(id), nil
}

// binaryType derives the result type of op, deferring checks on operands
// whose type is still pending.
func (g *Graph) binaryType(op types.BinaryOp, spec types.BinarySpec, lt, rt types.Type, site string) (types.Type, error) {
	switch {
	case !lt.IsPending() && !rt.IsPending():
		if lt != rt {
			return types.Invalid, g.fail(mismatch(site, lt, rt))
		}
		res, ok := types.BinaryResult(op, lt)
		if !ok {
			return types.Invalid, g.fail(opMismatch(op, site, lt))
		}
		return res, nil
	case lt.IsPending() && rt.IsPending():
		g.require(lt.Func, rt, op, true, site)
		if spec.Compare {
			return types.Bool, nil
		}
		return lt, nil
	default:
		known, pending := lt, rt
		if lt.IsPending() {
			known, pending = rt, lt
		}
		res, ok := types.BinaryResult(op, known)
		if !ok {
			return types.Invalid, g.fail(opMismatch(op, site, known))
		}
		g.require(pending.Func, known, op, false, site)
		return res, nil
	}
}

func opMismatch(op types.BinaryOp, site string, t types.Type) *BuildError {
	e := newError(ErrTypeMismatch, site, fmt.Sprintf("operator %s is not defined on %s", op, t))
	e.Got = t
	return e
}

func (c *Context) Add(a, b Value) (Value, error) { return c.Binary(types.OpAdd, a, b) }
func (c *Context) Sub(a, b Value) (Value, error) { return c.Binary(types.OpSub, a, b) }
func (c *Context) Mul(a, b Value) (Value, error) { return c.Binary(types.OpMul, a, b) }
func (c *Context) Div(a, b Value) (Value, error) { return c.Binary(types.OpDiv, a, b) }
func (c *Context) Rem(a, b Value) (Value, error) { return c.Binary(types.OpRem, a, b) }
func (c *Context) And(a, b Value) (Value, error) { return c.Binary(types.OpAnd, a, b) }
func (c *Context) Or(a, b Value) (Value, error)  { return c.Binary(types.OpOr, a, b) }
func (c *Context) Xor(a, b Value) (Value, error) { return c.Binary(types.OpXor, a, b) }
func (c *Context) Shl(a, b Value) (Value, error) { return c.Binary(types.OpShl, a, b) }
func (c *Context) Shr(a, b Value) (Value, error) { return c.Binary(types.OpShr, a, b) }
func (c *Context) Eq(a, b Value) (Value, error)  { return c.Binary(types.OpEq, a, b) }
func (c *Context) Ne(a, b Value) (Value, error)  { return c.Binary(types.OpNe, a, b) }
func (c *Context) Lt(a, b Value) (Value, error)  { return c.Binary(types.OpLt, a, b) }
func (c *Context) Le(a, b Value) (Value, error)  { return c.Binary(types.OpLe, a, b) }
func (c *Context) Gt(a, b Value) (Value, error)  { return c.Binary(types.OpGt, a, b) }
func (c *Context) Ge(a, b Value) (Value, error)  { return c.Binary(types.OpGe, a, b) }
