package types

import "fmt"

// BinaryOp enumerates the binary operators a graph node can apply.
type BinaryOp uint8

const (
	OpInvalid BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var opSpelling = [...]string{
	OpInvalid: "?",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpRem:     "%",
	OpAnd:     "&",
	OpOr:      "|",
	OpXor:     "^",
	OpShl:     "<<",
	OpShr:     ">>",
	OpEq:      "==",
	OpNe:      "!=",
	OpLt:      "<",
	OpLe:      "<=",
	OpGt:      ">",
	OpGe:      ">=",
}

var opNames = [...]string{
	OpInvalid: "invalid",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpRem:     "rem",
	OpAnd:     "and",
	OpOr:      "or",
	OpXor:     "xor",
	OpShl:     "shl",
	OpShr:     "shr",
	OpEq:      "eq",
	OpNe:      "ne",
	OpLt:      "lt",
	OpLe:      "le",
	OpGt:      "gt",
	OpGe:      "ge",
}

// String returns the operator symbol, e.g. "+".
func (op BinaryOp) String() string {
	if int(op) < len(opSpelling) {
		return opSpelling[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// Name returns the mnemonic used by the text dump, e.g. "add".
func (op BinaryOp) Name() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return op.String()
}

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint8

const (
	FamilyNone FamilyMask = 0
	FamilyBool FamilyMask = 1 << iota
	FamilySignedInt
	FamilyUnsignedInt
)

const (
	FamilyIntegral = FamilySignedInt | FamilyUnsignedInt
	FamilyAny      = FamilyBool | FamilyIntegral
)

// Family reports which operator family t belongs to.
func (t Type) Family() FamilyMask {
	switch t.Kind {
	case KindBool:
		return FamilyBool
	case KindInt:
		return FamilySignedInt
	case KindUint:
		return FamilyUnsignedInt
	}
	return FamilyNone
}

// BinarySpec lists the operand families an operator accepts and whether it
// yields bool instead of its operand type.
type BinarySpec struct {
	Operands FamilyMask
	Compare  bool
}

var binarySpecTable = map[BinaryOp]BinarySpec{
	OpAdd: {Operands: FamilyIntegral},
	OpSub: {Operands: FamilyIntegral},
	OpMul: {Operands: FamilyIntegral},
	OpDiv: {Operands: FamilyIntegral},
	OpRem: {Operands: FamilyIntegral},
	OpAnd: {Operands: FamilyAny},
	OpOr:  {Operands: FamilyAny},
	OpXor: {Operands: FamilyAny},
	OpShl: {Operands: FamilyIntegral},
	OpShr: {Operands: FamilyIntegral},
	OpEq:  {Operands: FamilyAny, Compare: true},
	OpNe:  {Operands: FamilyAny, Compare: true},
	OpLt:  {Operands: FamilyIntegral, Compare: true},
	OpLe:  {Operands: FamilyIntegral, Compare: true},
	OpGt:  {Operands: FamilyIntegral, Compare: true},
	OpGe:  {Operands: FamilyIntegral, Compare: true},
}

// Spec returns the operand specification of op.
func Spec(op BinaryOp) (BinarySpec, bool) {
	spec, ok := binarySpecTable[op]
	return spec, ok
}

// IsComparison reports whether op always yields bool.
func (op BinaryOp) IsComparison() bool {
	spec, ok := binarySpecTable[op]
	return ok && spec.Compare
}

// BinaryResult derives the result type of op applied to two operands of
// type operand. ok is false when the operator is not defined on that type.
func BinaryResult(op BinaryOp, operand Type) (result Type, ok bool) {
	spec, found := binarySpecTable[op]
	if !found {
		return Invalid, false
	}
	if spec.Operands&operand.Family() == 0 {
		return Invalid, false
	}
	if spec.Compare {
		return Bool, true
	}
	return operand, true
}
