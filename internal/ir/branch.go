package ir

import (
	"graphir/internal/trace"
	"graphir/internal/types"
)

// Branch appends a two-way conditional to the current block. then runs
// before els; each is invoked once with its own child context. A nil els
// makes the else side a no-op.
func (c *Context) Branch(cond Value, then, els func(*Context) error) error {
	if err := c.usable(); err != nil {
		return err
	}
	g := c.g
	if err := c.operand("branch condition", cond); err != nil {
		return err
	}
	if err := g.unify(types.Bool, g.TypeOf(cond.ID), "branch condition"); err != nil {
		return err
	}
	trace.Point(g.tracer, trace.ScopeNode, "branch", "", 0)

	thenCtx := c.child()
	if then != nil {
		if err := c.run(thenCtx, then); err != nil {
			return err
		}
	}
	elseBlock := NoBlockID
	if els != nil {
		elseCtx := c.child()
		if err := c.run(elseCtx, els); err != nil {
			return err
		}
		elseBlock = elseCtx.block
	}
	g.append(c.block, Stmt{Kind: StmtBranch, Value: cond.ID, Then: thenCtx.block, Else: elseBlock})
	return nil
}
