package eval

import (
	"graphir/internal/ir"
	"graphir/internal/types"
)

// binary applies op to two constants of the same type. Integer results wrap
// at the type width.
func (in *Interpreter) binary(id ir.NodeID, op types.BinaryOp, l, r ir.Const) (ir.Const, error) {
	if l.Type != r.Type {
		return ir.Const{}, in.eb.badGraph(id, "%s on %s and %s", op.Name(), l.Type, r.Type)
	}
	switch l.Type.Kind {
	case types.KindUint:
		return in.binaryUint(id, op, l.Type, l.Uint, r.Uint)
	case types.KindInt:
		return in.binaryInt(id, op, l.Type, l.Int, r.Int)
	case types.KindBool:
		a, b := l.Bool, r.Bool
		switch op {
		case types.OpAnd:
			return ir.BoolConst(a && b), nil
		case types.OpOr:
			return ir.BoolConst(a || b), nil
		case types.OpXor, types.OpNe:
			return ir.BoolConst(a != b), nil
		case types.OpEq:
			return ir.BoolConst(a == b), nil
		}
	case types.KindUnit:
		switch op {
		case types.OpEq:
			return ir.BoolConst(true), nil
		case types.OpNe:
			return ir.BoolConst(false), nil
		}
	}
	return ir.Const{}, in.eb.badGraph(id, "%s is not defined on %s", op.Name(), l.Type)
}

func (in *Interpreter) binaryUint(id ir.NodeID, op types.BinaryOp, t types.Type, a, b uint64) (ir.Const, error) {
	switch op {
	case types.OpAdd:
		return ir.UintConst(t, a+b), nil
	case types.OpSub:
		return ir.UintConst(t, a-b), nil
	case types.OpMul:
		return ir.UintConst(t, a*b), nil
	case types.OpDiv:
		if b == 0 {
			return ir.Const{}, in.eb.divideByZero(id, "division")
		}
		return ir.UintConst(t, a/b), nil
	case types.OpRem:
		if b == 0 {
			return ir.Const{}, in.eb.divideByZero(id, "remainder")
		}
		return ir.UintConst(t, a%b), nil
	case types.OpAnd:
		return ir.UintConst(t, a&b), nil
	case types.OpOr:
		return ir.UintConst(t, a|b), nil
	case types.OpXor:
		return ir.UintConst(t, a^b), nil
	case types.OpShl:
		if b >= 64 {
			return ir.UintConst(t, 0), nil
		}
		return ir.UintConst(t, a<<b), nil
	case types.OpShr:
		if b >= 64 {
			return ir.UintConst(t, 0), nil
		}
		return ir.UintConst(t, a>>b), nil
	case types.OpEq:
		return ir.BoolConst(a == b), nil
	case types.OpNe:
		return ir.BoolConst(a != b), nil
	case types.OpLt:
		return ir.BoolConst(a < b), nil
	case types.OpLe:
		return ir.BoolConst(a <= b), nil
	case types.OpGt:
		return ir.BoolConst(a > b), nil
	case types.OpGe:
		return ir.BoolConst(a >= b), nil
	}
	return ir.Const{}, in.eb.badGraph(id, "%s is not defined on %s", op.Name(), t)
}

func (in *Interpreter) binaryInt(id ir.NodeID, op types.BinaryOp, t types.Type, a, b int64) (ir.Const, error) {
	switch op {
	case types.OpAdd:
		return ir.IntConst(t, a+b), nil
	case types.OpSub:
		return ir.IntConst(t, a-b), nil
	case types.OpMul:
		return ir.IntConst(t, a*b), nil
	case types.OpDiv:
		if b == 0 {
			return ir.Const{}, in.eb.divideByZero(id, "division")
		}
		return ir.IntConst(t, a/b), nil
	case types.OpRem:
		if b == 0 {
			return ir.Const{}, in.eb.divideByZero(id, "remainder")
		}
		return ir.IntConst(t, a%b), nil
	case types.OpAnd:
		return ir.IntConst(t, a&b), nil
	case types.OpOr:
		return ir.IntConst(t, a|b), nil
	case types.OpXor:
		return ir.IntConst(t, a^b), nil
	case types.OpShl:
		if b < 0 {
			return ir.Const{}, in.eb.badShift(id, b)
		}
		if b >= 64 {
			return ir.IntConst(t, 0), nil
		}
		return ir.IntConst(t, a<<b), nil
	case types.OpShr:
		if b < 0 {
			return ir.Const{}, in.eb.badShift(id, b)
		}
		if b >= 64 {
			b = 63
		}
		return ir.IntConst(t, a>>b), nil
	case types.OpEq:
		return ir.BoolConst(a == b), nil
	case types.OpNe:
		return ir.BoolConst(a != b), nil
	case types.OpLt:
		return ir.BoolConst(a < b), nil
	case types.OpLe:
		return ir.BoolConst(a <= b), nil
	case types.OpGt:
		return ir.BoolConst(a > b), nil
	case types.OpGe:
		return ir.BoolConst(a >= b), nil
	}
	return ir.Const{}, in.eb.badGraph(id, "%s is not defined on %s", op.Name(), t)
}
