package ir

import (
	"fmt"
	"strconv"

	"graphir/internal/types"
)

// Const is a literal value together with its type. Integer payloads are kept
// wrapped to the width of Type.
type Const struct {
	Type types.Type
	Int  int64  // signed integers
	Uint uint64 // unsigned integers
	Bool bool
}

func UnitConst() Const { return Const{Type: types.Unit} }

func BoolConst(b bool) Const { return Const{Type: types.Bool, Bool: b} }

// UintConst wraps n to the width of t.
func UintConst(t types.Type, n uint64) Const {
	return Const{Type: t, Uint: types.WrapUint(t, n)}
}

// IntConst wraps n to the width of t.
func IntConst(t types.Type, n int64) Const {
	return Const{Type: t, Int: types.WrapInt(t, n)}
}

// inRange reports an error when the integer payload does not fit Type.
func (c Const) inRange() error {
	switch c.Type.Kind {
	case types.KindUint:
		return types.CheckUint(c.Type, c.Uint)
	case types.KindInt:
		return types.CheckInt(c.Type, c.Int)
	}
	return nil
}

// Equal reports whether both constants have the same type and value.
func (c Const) Equal(o Const) bool {
	if c.Type != o.Type {
		return false
	}
	switch c.Type.Kind {
	case types.KindInt:
		return c.Int == o.Int
	case types.KindUint:
		return c.Uint == o.Uint
	case types.KindBool:
		return c.Bool == o.Bool
	}
	return true
}

func (c Const) String() string {
	switch c.Type.Kind {
	case types.KindInt:
		return strconv.FormatInt(c.Int, 10)
	case types.KindUint:
		return strconv.FormatUint(c.Uint, 10)
	case types.KindBool:
		return strconv.FormatBool(c.Bool)
	case types.KindUnit:
		return "()"
	}
	return "<invalid>"
}

// ParseConst reads a literal of type t from its decimal or bool spelling.
func ParseConst(t types.Type, s string) (Const, error) {
	switch t.Kind {
	case types.KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Const{}, fmt.Errorf("parse %s: %w", t, err)
		}
		return BoolConst(b), nil
	case types.KindUint:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Const{}, fmt.Errorf("parse %s: %w", t, err)
		}
		if err := types.CheckUint(t, n); err != nil {
			return Const{}, err
		}
		return UintConst(t, n), nil
	case types.KindInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Const{}, fmt.Errorf("parse %s: %w", t, err)
		}
		if err := types.CheckInt(t, n); err != nil {
			return Const{}, err
		}
		return IntConst(t, n), nil
	case types.KindUnit:
		if s != "()" && s != "" {
			return Const{}, fmt.Errorf("parse unit: unexpected %q", s)
		}
		return UnitConst(), nil
	}
	return Const{}, fmt.Errorf("cannot parse a literal of type %s", t)
}
