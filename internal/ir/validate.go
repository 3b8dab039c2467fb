package ir

import (
	"errors"
	"fmt"

	"graphir/internal/types"
)

// Validate checks the invariants of a finished graph. It reports every
// violation it finds, joined.
func Validate(g *Graph) error {
	if g == nil {
		return nil
	}
	if g.err != nil {
		return g.err
	}
	var errs []error
	if g.Block(g.Root) == nil {
		errs = append(errs, fmt.Errorf("root block b%d does not exist", g.Root))
	}
	errs = append(errs, validateNodes(g)...)
	errs = append(errs, validateBlocks(g)...)
	errs = append(errs, validateFuncs(g)...)
	for _, c := range g.constraints {
		errs = append(errs, fmt.Errorf("%s: unresolved result type of %s", c.site, g.Funcs[c.fn]))
	}
	return errors.Join(errs...)
}

func validateNodes(g *Graph) []error {
	var errs []error
	bad := func(id NodeID, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%%%d: "+format, append([]any{id}, args...)...))
	}
	// operands must precede their users, which keeps the graph acyclic
	ref := func(id NodeID, operand NodeID) bool {
		if operand == NoNodeID || operand >= id {
			bad(id, "operand %%%d is not an earlier node", operand)
			return false
		}
		return true
	}

	for i := 1; i < len(g.Nodes); i++ {
		n := &g.Nodes[i]
		id := NodeID(i) //nolint:gosec // bounded by the node table
		if n.ID != id {
			bad(id, "stored id %%%d", n.ID)
			continue
		}
		if !n.Type.IsValid() || n.Type.IsPending() {
			bad(id, "unresolved type %s", n.Type)
			continue
		}
		switch n.Kind {
		case NodeConst:
			if n.Const.Type != n.Type {
				bad(id, "constant of type %s in node of type %s", n.Const.Type, n.Type)
			} else if err := n.Const.inRange(); err != nil {
				bad(id, "%v", err)
			}
		case NodeVarRef:
			v := g.Var(n.Var)
			if v == nil {
				bad(id, "unknown variable v%d", n.Var)
			} else if v.Type != n.Type {
				bad(id, "reads %s of type %s as %s", v.Name, v.Type, n.Type)
			}
		case NodeBinary:
			if !ref(id, n.Binary.Left) || !ref(id, n.Binary.Right) {
				continue
			}
			lt, rt := g.Nodes[n.Binary.Left].Type, g.Nodes[n.Binary.Right].Type
			want, ok := types.BinaryResult(n.Binary.Op, lt)
			if lt != rt || !ok || want != n.Type {
				bad(id, "%s on %s and %s cannot yield %s", n.Binary.Op.Name(), lt, rt, n.Type)
			}
		case NodeCall:
			errs = append(errs, validateCall(g, n, ref)...)
		case NodeSwitch:
			errs = append(errs, validateSwitch(g, n, ref)...)
		default:
			bad(id, "invalid node kind %d", n.Kind)
		}
	}
	return errs
}

func validateCall(g *Graph, n *Node, ref func(NodeID, NodeID) bool) []error {
	var errs []error
	fn := g.Func(n.Call.Func)
	if fn == nil {
		return []error{fmt.Errorf("%%%d: call to unknown function fn#%d", n.ID, n.Call.Func)}
	}
	if len(n.Call.Args) != len(fn.Params) {
		errs = append(errs, fmt.Errorf("%%%d: call %s with %d arguments, want %d", n.ID, fn, len(n.Call.Args), len(fn.Params)))
	}
	for i, a := range n.Call.Args {
		if !ref(n.ID, a) || i >= len(fn.Params) {
			continue
		}
		if p := g.Var(fn.Params[i]); p != nil && p.Type != g.Nodes[a].Type {
			errs = append(errs, fmt.Errorf("%%%d: call %s argument %d is %s, want %s", n.ID, fn, i, g.Nodes[a].Type, p.Type))
		}
	}
	if fn.Result != n.Type {
		errs = append(errs, fmt.Errorf("%%%d: call %s typed %s, function returns %s", n.ID, fn, n.Type, fn.Result))
	}
	return errs
}

func validateSwitch(g *Graph, n *Node, ref func(NodeID, NodeID) bool) []error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%%%d: "+format, append([]any{n.ID}, args...)...))
	}
	sw := &n.Switch
	if !ref(n.ID, sw.Scrutinee) {
		return errs
	}
	if len(sw.Arms) == 0 {
		bad("switch without arms")
	}
	st := g.Nodes[sw.Scrutinee].Type
	for i, arm := range sw.Arms {
		if arm.Wildcard && i != len(sw.Arms)-1 {
			bad("wildcard arm %d is not last", i)
		}
		if !arm.Wildcard && ref(n.ID, arm.Pattern) {
			p := &g.Nodes[arm.Pattern]
			if p.Kind != NodeConst || p.Type != st {
				bad("arm %d pattern must be a %s constant", i, st)
			}
		}
		if g.Block(arm.Body) == nil {
			bad("arm %d body b%d does not exist", i, arm.Body)
		}
		t := types.Unit
		if arm.Result != NoNodeID && ref(n.ID, arm.Result) {
			t = g.Nodes[arm.Result].Type
		}
		if t != n.Type {
			bad("arm %d yields %s, switch is %s", i, t, n.Type)
		}
	}
	return errs
}

func validateBlocks(g *Graph) []error {
	var errs []error
	for i, b := range g.Blocks {
		if b == nil || int(b.ID) != i {
			errs = append(errs, fmt.Errorf("block %d: missing or misnumbered", i))
			continue
		}
		for j, st := range b.Stmts {
			if err := validateStmt(g, st); err != nil {
				errs = append(errs, fmt.Errorf("b%d.%d: %w", b.ID, j, err))
			}
		}
	}
	return errs
}

func validateStmt(g *Graph, st Stmt) error {
	n := g.Node(st.Value)
	if n == nil {
		return fmt.Errorf("%s of unknown node %%%d", st.Kind, st.Value)
	}
	switch st.Kind {
	case StmtLet, StmtAssign:
		v := g.Var(st.Var)
		if v == nil {
			return fmt.Errorf("%s to unknown variable v%d", st.Kind, st.Var)
		}
		if v.Type != n.Type {
			return fmt.Errorf("%s %s of type %s from %s", st.Kind, v.Name, v.Type, n.Type)
		}
	case StmtBranch:
		if n.Type != types.Bool {
			return fmt.Errorf("branch condition is %s, want bool", n.Type)
		}
		if g.Block(st.Then) == nil {
			return fmt.Errorf("branch to unknown block b%d", st.Then)
		}
		if st.Else != NoBlockID && g.Block(st.Else) == nil {
			return fmt.Errorf("branch to unknown block b%d", st.Else)
		}
	case StmtEmit, StmtExec:
	default:
		return fmt.Errorf("invalid statement kind %d", st.Kind)
	}
	return nil
}

func validateFuncs(g *Graph) []error {
	var errs []error
	for i, fn := range g.Funcs {
		if fn == nil || int(fn.ID) != i {
			errs = append(errs, fmt.Errorf("fn#%d: missing or misnumbered", i))
			continue
		}
		if !fn.Defined {
			errs = append(errs, fmt.Errorf("fn %s: declared but never defined", fn))
			continue
		}
		if g.Block(fn.Body) == nil {
			errs = append(errs, fmt.Errorf("fn %s: body b%d does not exist", fn, fn.Body))
		}
		for _, pid := range fn.Params {
			if p := g.Var(pid); p == nil || !p.Param || p.Owner != fn.ID {
				errs = append(errs, fmt.Errorf("fn %s: v%d is not one of its parameters", fn, pid))
			}
		}
		t := types.Unit
		if fn.Value != NoNodeID {
			t = g.TypeOf(fn.Value)
		}
		if t != fn.Result {
			errs = append(errs, fmt.Errorf("fn %s: body yields %s, declared %s", fn, t, fn.Result))
		}
	}
	return errs
}
