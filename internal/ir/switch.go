package ir

import (
	"fmt"

	"graphir/internal/trace"
	"graphir/internal/types"
)

// Pattern matches a switch scrutinee: a constant literal or the wildcard.
type Pattern struct {
	wildcard bool
	literal  Value
}

// Literal matches scrutinees equal to the constant v.
func Literal(v Value) Pattern { return Pattern{literal: v} }

// Wildcard matches every scrutinee. It must be the last arm.
func Wildcard() Pattern { return Pattern{wildcard: true} }

// ArmBody builds one switch arm and returns its result; a zero Value yields unit.
type ArmBody func(*Context) (Value, error)

// Arm pairs a pattern with the body built for it.
type Arm struct {
	Pattern Pattern
	Body    ArmBody
}

// Case is shorthand for Arm{p, body}.
func Case(p Pattern, body ArmBody) Arm { return Arm{Pattern: p, Body: body} }

// Switch builds a multi-arm dispatch on scrutinee. Every arm body is built
// eagerly, in order; which arm runs is decided by the backend: the first arm
// whose pattern matches wins. All arms must yield the same type, which is
// the type of the returned Value.
func (c *Context) Switch(scrutinee Value, arms ...Arm) (Value, error) {
	if err := c.usable(); err != nil {
		return Value{}, err
	}
	g := c.g
	if err := c.operand("switch scrutinee", scrutinee); err != nil {
		return Value{}, err
	}
	if len(arms) == 0 {
		return Value{}, g.fail(newError(ErrEmptySwitch, "switch", ""))
	}
	if err := c.checkPatterns(scrutinee, arms); err != nil {
		return Value{}, err
	}
	trace.Point(g.tracer, trace.ScopeNode, "switch", fmt.Sprintf("%d arms", len(arms)), 0)

	node := SwitchNode{Scrutinee: scrutinee.ID, Arms: make([]SwitchArm, len(arms))}
	var result types.Type
	for i, arm := range arms {
		site := fmt.Sprintf("switch arm %d", i)
		if arm.Body == nil {
			return Value{}, g.fail(newError(ErrInvalidValue, site, "nil body"))
		}
		child := c.child()
		var out Value
		err := c.run(child, func(ac *Context) error {
			v, err := arm.Body(ac)
			out = v
			return err
		})
		if err != nil {
			return Value{}, err
		}

		t := types.Unit
		res := NoNodeID
		if out != (Value{}) {
			if err := child.operand(site+" result", out); err != nil {
				return Value{}, err
			}
			res = out.ID
			t = g.TypeOf(out.ID)
		}
		if i == 0 {
			result = t
		} else if result, err = g.join(result, t, site+" result"); err != nil {
			return Value{}, err
		}

		pat := NoNodeID
		if !arm.Pattern.wildcard {
			pat = arm.Pattern.literal.ID
		}
		node.Arms[i] = SwitchArm{Wildcard: arm.Pattern.wildcard, Pattern: pat, Body: child.block, Result: res}
	}

	id, err := g.addNode(Node{Kind: NodeSwitch, Type: result, Switch: node}, c.scope)
	if err != nil {
		return Value{}, err
	}
	return c.value(id), nil
}

// checkPatterns validates arm patterns before any body is built.
func (c *Context) checkPatterns(scrutinee Value, arms []Arm) error {
	g := c.g
	wildcards := 0
	for _, arm := range arms {
		if arm.Pattern.wildcard {
			wildcards++
		}
	}
	if wildcards > 1 {
		return g.fail(newError(ErrDuplicateWildcard, "switch", fmt.Sprintf("%d wildcard arms", wildcards)))
	}

	st := g.TypeOf(scrutinee.ID)
	var seen []Const
	for i, arm := range arms {
		site := fmt.Sprintf("switch arm %d pattern", i)
		if i > 0 && arms[i-1].Pattern.wildcard {
			return g.fail(newError(ErrUnreachableArm, site, "follows the wildcard arm"))
		}
		if arm.Pattern.wildcard {
			continue
		}
		lit := arm.Pattern.literal
		if err := c.operand(site, lit); err != nil {
			return err
		}
		n := g.Node(lit.ID)
		if n.Kind != NodeConst {
			return g.fail(newError(ErrNonConstantPattern, site, "pattern is a "+n.Kind.String()+" node"))
		}
		if err := g.unify(st, n.Const.Type, site); err != nil {
			return err
		}
		for _, prev := range seen {
			if prev.Equal(n.Const) {
				return g.fail(newError(ErrUnreachableArm, site, "duplicate literal "+n.Const.String()))
			}
		}
		seen = append(seen, n.Const)
	}
	return nil
}
