package ir

import (
	"fmt"

	"graphir/internal/types"
)

// constraint is a deferred check on the result type of fn, recorded when a
// value of type Pending(fn) met a concrete type or an operator.
type constraint struct {
	fn    FuncID
	want  types.Type // invalid when only the operator matters
	op    types.BinaryOp
	hasOp bool
	site  string
}

func (g *Graph) require(fn int32, want types.Type, op types.BinaryOp, hasOp bool, site string) {
	if want.IsPending() && want.Func == fn {
		want = types.Invalid
	}
	g.constraints = append(g.constraints, constraint{
		fn:    FuncID(fn),
		want:  want,
		op:    op,
		hasOp: hasOp,
		site:  site,
	})
}

// unify checks that got can be used where want is expected. Pending sides
// turn into constraints resolved by finalize.
func (g *Graph) unify(want, got types.Type, site string) error {
	switch {
	case !want.IsPending() && !got.IsPending():
		if want != got {
			return g.fail(mismatch(site, want, got))
		}
	case got.IsPending():
		g.require(got.Func, want, 0, false, site)
	default:
		g.require(want.Func, got, 0, false, site)
	}
	return nil
}

// join picks the concrete type among a and b, recording a constraint when
// one of them is pending.
func (g *Graph) join(a, b types.Type, site string) (types.Type, error) {
	if err := g.unify(a, b, site); err != nil {
		return types.Invalid, err
	}
	if a.IsPending() {
		return b, nil
	}
	return a, nil
}

// resultType is the type a call to f yields right now.
func (f *Function) resultType() types.Type {
	if f.Defined || f.pinned {
		return f.Result
	}
	return types.Pending(int32(f.ID))
}

// inferResult decides the return type of f from its body result type t.
func (g *Graph) inferResult(f *Function, t types.Type) (types.Type, error) {
	site := fmt.Sprintf("fn %s result", f)
	if f.pinned {
		if err := g.unify(f.Result, t, site); err != nil {
			return types.Invalid, err
		}
		return f.Result, nil
	}
	if !t.IsPending() {
		return t, nil
	}
	e := newError(ErrUninferableType, site, "body result depends only on ")
	if FuncID(t.Func) == f.ID {
		e.Detail += "its own return type"
	} else {
		e.Detail += fmt.Sprintf("the unfinished function %s", g.Funcs[t.Func])
	}
	e.Detail += "; pin it with Returns"
	return types.Invalid, g.fail(e)
}

// finalize fixes the result of f to r, rewrites every Pending(f) in the
// graph and checks the constraints recorded against f.
func (g *Graph) finalize(f *Function, r types.Type) error {
	f.Result = r
	pending := types.Pending(int32(f.ID))
	subst := func(t *types.Type) {
		if *t == pending {
			*t = r
		}
	}
	for i := range g.Nodes {
		subst(&g.Nodes[i].Type)
	}
	for _, v := range g.Vars {
		subst(&v.Type)
	}

	var rest []constraint
	var checks []constraint
	for _, c := range g.constraints {
		subst(&c.want)
		if c.fn == f.ID {
			checks = append(checks, c)
		} else {
			rest = append(rest, c)
		}
	}
	g.constraints = rest
	for _, c := range checks {
		if err := g.check(c, r); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) check(c constraint, r types.Type) error {
	switch {
	case c.want.IsPending():
		// the other side is still open; move the check to it
		g.require(c.want.Func, r, c.op, c.hasOp, c.site)
	case c.want.Kind != types.KindInvalid && c.want != r:
		return g.fail(mismatch(c.site, c.want, r))
	}
	if c.hasOp {
		if _, ok := types.BinaryResult(c.op, r); !ok {
			return g.fail(opMismatch(c.op, c.site, r))
		}
	}
	return nil
}
