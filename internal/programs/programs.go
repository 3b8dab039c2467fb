// Package programs holds sample graphs built through the ir API. They back
// the CLI and serve as fixtures for the evaluator and snapshot tests.
package programs

import (
	"slices"

	"graphir/internal/ir"
	"graphir/internal/types"
)

// Builder constructs a fresh graph and returns it with its entry function.
type Builder func(opts ...ir.Option) (*ir.Graph, *ir.Function, error)

type Program struct {
	Name    string
	Summary string
	Build   Builder
}

var registry = []Program{
	{Name: "fib", Summary: "fib(n: u32) -> u32, doubly recursive switch", Build: Fib},
	{Name: "even", Summary: "even(n: u32) -> bool, mutually recursive with odd", Build: Even},
	{Name: "classify", Summary: "classify(v: u32) -> u32, 0 => 10, 1 => 20, _ => 30", Build: Classify},
	{Name: "clamp", Summary: "clamp(x, lo, hi: i32) -> i32, branches without else", Build: Clamp},
	{Name: "countdown", Summary: "countdown(n: u32), emits n..1", Build: Countdown},
	{Name: "gcd", Summary: "gcd(a, b: u64) -> u64, Euclid by remainder", Build: GCD},
}

// All returns the registered programs sorted by name.
func All() []Program {
	out := slices.Clone(registry)
	slices.SortFunc(out, func(a, b Program) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

func Lookup(name string) (Program, bool) {
	for _, p := range registry {
		if p.Name == name {
			return p, true
		}
	}
	return Program{}, false
}

// ParamTypes lists the parameter types of fn in g.
func ParamTypes(g *ir.Graph, fn *ir.Function) []types.Type {
	out := make([]types.Type, len(fn.Params))
	for i, pid := range fn.Params {
		out[i] = g.Var(pid).Type
	}
	return out
}

func finish(c *ir.Context, fn *ir.Function, err error) (*ir.Graph, *ir.Function, error) {
	if err != nil {
		return nil, nil, err
	}
	if err := ir.Validate(c.Graph()); err != nil {
		return nil, nil, err
	}
	return c.Graph(), fn, nil
}

func yield(v ir.Value) ir.ArmBody {
	return func(*ir.Context) (ir.Value, error) { return v, nil }
}

// Fib builds fib(n) = n for n < 2, fib(n-1) + fib(n-2) otherwise.
func Fib(opts ...ir.Option) (*ir.Graph, *ir.Function, error) {
	c := ir.NewContext(opts...)
	fn, err := c.RecursiveFunction("fib", []ir.Param{{Name: "n", Type: types.U32}},
		func(self *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			n := args[0]
			return c.Switch(n,
				ir.Case(ir.Literal(c.U32(0)), yield(c.U32(0))),
				ir.Case(ir.Literal(c.U32(1)), yield(c.U32(1))),
				ir.Case(ir.Wildcard(), func(c *ir.Context) (ir.Value, error) {
					a, err := c.Call(self, n.Sub(c.U32(1)))
					if err != nil {
						return ir.Value{}, err
					}
					b, err := c.Call(self, n.Sub(c.U32(2)))
					if err != nil {
						return ir.Value{}, err
					}
					return c.Add(a, b)
				}),
			)
		})
	return finish(c, fn, err)
}

// Even builds the even/odd pair; both are declared before either body.
func Even(opts ...ir.Option) (*ir.Graph, *ir.Function, error) {
	c := ir.NewContext(opts...)
	params := []ir.Param{{Name: "n", Type: types.U32}}
	even, err := c.DeclareFunction("even", params)
	if err != nil {
		return nil, nil, err
	}
	odd, err := c.DeclareFunction("odd", params)
	if err != nil {
		return nil, nil, err
	}
	body := func(zero bool, other *ir.Function) ir.FuncBody {
		return func(_ *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			n := args[0]
			return c.Switch(n,
				ir.Case(ir.Literal(c.U32(0)), yield(c.Bool(zero))),
				ir.Case(ir.Wildcard(), func(c *ir.Context) (ir.Value, error) {
					return c.Call(other, n.Sub(c.U32(1)))
				}),
			)
		}
	}
	if err := c.DefineFunction(even, body(true, odd)); err != nil {
		return nil, nil, err
	}
	err = c.DefineFunction(odd, body(false, even))
	return finish(c, even, err)
}

// Classify maps 0 to 10, 1 to 20 and everything else to 30.
func Classify(opts ...ir.Option) (*ir.Graph, *ir.Function, error) {
	c := ir.NewContext(opts...)
	fn, err := c.RecursiveFunction("classify", []ir.Param{{Name: "v", Type: types.U32}},
		func(_ *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			return c.Switch(args[0],
				ir.Case(ir.Literal(c.U32(0)), yield(c.U32(10))),
				ir.Case(ir.Literal(c.U32(1)), yield(c.U32(20))),
				ir.Case(ir.Wildcard(), yield(c.U32(30))),
			)
		})
	return finish(c, fn, err)
}

// Clamp limits x to [lo, hi] with two else-less branches.
func Clamp(opts ...ir.Option) (*ir.Graph, *ir.Function, error) {
	c := ir.NewContext(opts...)
	params := []ir.Param{{Name: "x", Type: types.I32}, {Name: "lo", Type: types.I32}, {Name: "hi", Type: types.I32}}
	fn, err := c.RecursiveFunction("clamp", params,
		func(_ *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			x, lo, hi := args[0], args[1], args[2]
			r, err := c.Let("r", x)
			if err != nil {
				return ir.Value{}, err
			}
			if err := c.Branch(x.Lt(lo), func(c *ir.Context) error { return c.Assign(r, lo) }, nil); err != nil {
				return ir.Value{}, err
			}
			if err := c.Branch(x.Gt(hi), func(c *ir.Context) error { return c.Assign(r, hi) }, nil); err != nil {
				return ir.Value{}, err
			}
			return c.Ref(r)
		})
	return finish(c, fn, err)
}

// Countdown emits n, n-1, ..., 1 and returns unit.
func Countdown(opts ...ir.Option) (*ir.Graph, *ir.Function, error) {
	c := ir.NewContext(opts...)
	fn, err := c.RecursiveFunction("countdown", []ir.Param{{Name: "n", Type: types.U32}},
		func(self *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			n := args[0]
			err := c.Branch(n.Gt(c.U32(0)), func(c *ir.Context) error {
				if err := c.Emit(n); err != nil {
					return err
				}
				next, err := c.Call(self, n.Sub(c.U32(1)))
				if err != nil {
					return err
				}
				return c.Exec(next)
			}, nil)
			return ir.Value{}, err
		})
	return finish(c, fn, err)
}

// GCD computes the greatest common divisor of two u64 values.
func GCD(opts ...ir.Option) (*ir.Graph, *ir.Function, error) {
	c := ir.NewContext(opts...)
	params := []ir.Param{{Name: "a", Type: types.U64}, {Name: "b", Type: types.U64}}
	fn, err := c.RecursiveFunction("gcd", params,
		func(self *ir.Function, c *ir.Context, args []ir.Value) (ir.Value, error) {
			a, b := args[0], args[1]
			return c.Switch(b,
				ir.Case(ir.Literal(c.U64(0)), yield(a)),
				ir.Case(ir.Wildcard(), func(c *ir.Context) (ir.Value, error) {
					return c.Call(self, b, a.Rem(b))
				}),
			)
		})
	return finish(c, fn, err)
}
