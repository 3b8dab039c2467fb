package types

import (
	"fmt"

	"fortio.org/safecast"
)

// CheckUint reports an error when n does not fit into the unsigned type t.
func CheckUint(t Type, n uint64) error {
	if t.Kind != KindUint {
		return fmt.Errorf("%s is not an unsigned integer type", t)
	}
	var err error
	switch t.Width {
	case Width8:
		_, err = safecast.Conv[uint8](n)
	case Width16:
		_, err = safecast.Conv[uint16](n)
	case Width32:
		_, err = safecast.Conv[uint32](n)
	case Width64:
		return nil
	default:
		return fmt.Errorf("invalid width %d", t.Width)
	}
	if err != nil {
		return fmt.Errorf("literal %d overflows %s: %w", n, t, err)
	}
	return nil
}

// CheckInt reports an error when n does not fit into the signed type t.
func CheckInt(t Type, n int64) error {
	if t.Kind != KindInt {
		return fmt.Errorf("%s is not a signed integer type", t)
	}
	var err error
	switch t.Width {
	case Width8:
		_, err = safecast.Conv[int8](n)
	case Width16:
		_, err = safecast.Conv[int16](n)
	case Width32:
		_, err = safecast.Conv[int32](n)
	case Width64:
		return nil
	default:
		return fmt.Errorf("invalid width %d", t.Width)
	}
	if err != nil {
		return fmt.Errorf("literal %d overflows %s: %w", n, t, err)
	}
	return nil
}

// WrapUint truncates n to the width of t (two's complement wrap-around).
func WrapUint(t Type, n uint64) uint64 {
	switch t.Width {
	case Width8:
		return uint64(uint8(n))
	case Width16:
		return uint64(uint16(n))
	case Width32:
		return uint64(uint32(n))
	default:
		return n
	}
}

// WrapInt truncates n to the width of t and sign-extends the result.
func WrapInt(t Type, n int64) int64 {
	switch t.Width {
	case Width8:
		return int64(int8(n))
	case Width16:
		return int64(int16(n))
	case Width32:
		return int64(int32(n))
	default:
		return n
	}
}
