package ir_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"graphir/internal/ir"
	"graphir/internal/types"
)

var integerTypes = []types.Type{
	types.U8, types.U16, types.U32, types.U64,
	types.I8, types.I16, types.I32, types.I64,
}

func literal(c *ir.Context, t types.Type, n int) ir.Value {
	if t.IsSigned() {
		return c.Int(t, int64(n))
	}
	return c.Uint(t, uint64(n))
}

func TestBranchConditionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("branch on a non-bool condition is a type mismatch", prop.ForAll(
		func(ti, n int) bool {
			c := ir.NewContext()
			err := c.Branch(literal(c, integerTypes[ti], n), func(*ir.Context) error { return nil }, nil)
			return errors.Is(err, ir.ErrTypeMismatch)
		},
		gen.IntRange(0, len(integerTypes)-1),
		gen.IntRange(0, 127),
	))

	properties.TestingRun(t)
}

func TestDuplicateWildcardProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("two wildcards anywhere in a switch are rejected", prop.ForAll(
		func(literals, first, second int) bool {
			c := ir.NewContext()
			arms := make([]ir.Arm, 0, literals+2)
			for i := range literals {
				arms = append(arms, ir.Case(ir.Literal(c.U32(uint32(i))), constArm(c.U32(0))))
			}
			for _, pos := range []int{first, second} {
				at := pos % (len(arms) + 1)
				arms = append(arms[:at], append([]ir.Arm{ir.Case(ir.Wildcard(), constArm(c.U32(1)))}, arms[at:]...)...)
			}
			_, err := c.Switch(c.U32(3), arms...)
			return errors.Is(err, ir.ErrDuplicateWildcard)
		},
		gen.IntRange(0, 5),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

func TestArityMismatchProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("calls with the wrong argument count fail", prop.ForAll(
		func(params, args int) bool {
			if args == params {
				args++
			}
			c := ir.NewContext()
			names := make([]string, params)
			for i := range names {
				names[i] = fmt.Sprintf("p%d", i)
			}
			fn, err := c.DeclareFunction("f", u32Params(names...), ir.Returns(types.U32))
			if err != nil {
				return false
			}
			vals := make([]ir.Value, args)
			for i := range vals {
				vals[i] = c.U32(uint32(i))
			}
			_, err = c.Call(fn, vals...)
			return errors.Is(err, ir.ErrArityMismatch)
		},
		gen.IntRange(0, 6),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

// buildScript replays a small op sequence; equal scripts must give equal graphs.
func buildScript(ops []int) (*ir.Graph, error) {
	c := ir.NewContext()
	vals := []ir.Value{c.U32(1)}
	last := func() ir.Value { return vals[len(vals)-1] }
	for i, op := range ops {
		var err error
		switch op % 5 {
		case 0:
			var v *ir.Variable
			if v, err = c.Let(fmt.Sprintf("v%d", i), c.U32(uint32(op))); err == nil {
				var ref ir.Value
				ref, err = c.Ref(v)
				vals = append(vals, ref)
			}
		case 1:
			var sum ir.Value
			if sum, err = c.Add(last(), vals[i%len(vals)]); err == nil {
				vals = append(vals, sum)
			}
		case 2:
			err = c.Branch(last().Lt(c.U32(10)), func(c *ir.Context) error {
				return c.Emit(c.U32(uint32(op)))
			}, nil)
		case 3:
			var sw ir.Value
			sw, err = c.Switch(last(),
				ir.Case(ir.Literal(c.U32(0)), constArm(c.U32(1))),
				ir.Case(ir.Wildcard(), constArm(c.U32(2))),
			)
			if err == nil {
				vals = append(vals, sw)
			}
		case 4:
			err = c.Emit(last())
		}
		if err != nil {
			return nil, err
		}
	}
	return c.Graph(), nil
}

func TestConstructionIsDeterministic(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("same operations give the same dump", prop.ForAll(
		func(ops []int) bool {
			g1, err1 := buildScript(ops)
			g2, err2 := buildScript(ops)
			if err1 != nil || err2 != nil {
				return false
			}
			var a, b bytes.Buffer
			if ir.Dump(&a, g1, ir.DumpOptions{}) != nil || ir.Dump(&b, g2, ir.DumpOptions{}) != nil {
				return false
			}
			return a.String() == b.String() && ir.Validate(g1) == nil
		},
		gen.SliceOfN(12, gen.IntRange(0, 40)),
	))

	properties.TestingRun(t)
}
