package types

import (
	"fmt"
	"strconv"
)

// Kind enumerates the primitive kinds a graph value can have.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnit
	KindBool
	KindInt
	KindUint
	// KindPending stands for the return type of a function whose body is
	// still being built. It never survives a successful construction session.
	KindPending
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindPending:
		return "pending"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers.
type Width uint8

const (
	WidthNone Width = 0
	Width8    Width = 8
	Width16   Width = 16
	Width32   Width = 32
	Width64   Width = 64
)

// Valid reports whether w is one of the supported integer widths.
func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	}
	return false
}

// Type is a compact, comparable descriptor of a primitive type.
type Type struct {
	Kind  Kind
	Width Width // integers only
	Func  int32 // KindPending only: the function whose result is awaited
}

// Descriptor helpers ---------------------------------------------------------

var (
	Invalid = Type{}
	Unit    = Type{Kind: KindUnit}
	Bool    = Type{Kind: KindBool}

	U8  = MakeUint(Width8)
	U16 = MakeUint(Width16)
	U32 = MakeUint(Width32)
	U64 = MakeUint(Width64)

	I8  = MakeInt(Width8)
	I16 = MakeInt(Width16)
	I32 = MakeInt(Width32)
	I64 = MakeInt(Width64)
)

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer of the given width.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// Pending describes the not-yet-known return type of function fn.
func Pending(fn int32) Type {
	return Type{Kind: KindPending, Func: fn}
}

// IsValid reports whether t describes a usable type.
func (t Type) IsValid() bool {
	switch t.Kind {
	case KindUnit, KindBool, KindPending:
		return true
	case KindInt, KindUint:
		return t.Width.Valid()
	}
	return false
}

func (t Type) IsPending() bool { return t.Kind == KindPending }

// IsIntegral reports whether t is a signed or unsigned integer.
func (t Type) IsIntegral() bool { return t.Kind == KindInt || t.Kind == KindUint }

func (t Type) IsSigned() bool { return t.Kind == KindInt }

// String renders the short spelling used in dumps: u32, i64, bool, unit.
func (t Type) String() string {
	switch t.Kind {
	case KindUint:
		return fmt.Sprintf("u%d", t.Width)
	case KindInt:
		return fmt.Sprintf("i%d", t.Width)
	case KindPending:
		return fmt.Sprintf("pending(fn#%d)", t.Func)
	default:
		return t.Kind.String()
	}
}

// Parse converts the short spelling produced by String back into a Type.
func Parse(s string) (Type, error) {
	switch s {
	case "unit":
		return Unit, nil
	case "bool":
		return Bool, nil
	}
	if len(s) >= 2 {
		w, err := strconv.ParseUint(s[1:], 10, 8)
		if err == nil && Width(w).Valid() {
			switch s[0] {
			case 'u':
				return MakeUint(Width(w)), nil
			case 'i':
				return MakeInt(Width(w)), nil
			}
		}
	}
	return Invalid, fmt.Errorf("unknown type %q", s)
}
