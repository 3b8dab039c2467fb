package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// DumpOptions configures graph dumping.
type DumpOptions struct {
	Color bool
}

func painter(on bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Dump writes a deterministic listing of g: functions, blocks, then nodes,
// each in ID order.
func Dump(w io.Writer, g *Graph, opts DumpOptions) error {
	if w == nil || g == nil {
		return nil
	}
	head := painter(opts.Color, color.FgCyan, color.Bold)
	name := painter(opts.Color, color.FgYellow)

	p := &printer{w: w, g: g}
	p.printf("%s\n", head.Sprintf("graph nodes=%d vars=%d blocks=%d funcs=%d",
		len(g.Nodes)-1, len(g.Vars), len(g.Blocks), len(g.Funcs)))

	for _, fn := range g.Funcs {
		params := make([]string, len(fn.Params))
		for i, pid := range fn.Params {
			params[i] = g.Vars[pid].Name + ": " + g.Vars[pid].Type.String()
		}
		p.printf("\n%s %s(%s) -> %s body=b%d result=%s\n",
			head.Sprintf("fn#%d", fn.ID), name.Sprint(fn.String()), strings.Join(params, ", "),
			fn.Result, fn.Body, p.node(fn.Value))
	}

	p.printf("\n%s\n", head.Sprint("blocks:"))
	for _, b := range g.Blocks {
		label := fmt.Sprintf("b%d", b.ID)
		if b.ID == g.Root {
			label += " (root)"
		}
		p.printf("  %s:\n", label)
		for _, st := range b.Stmts {
			p.printf("    %s\n", p.stmt(st))
		}
	}

	p.printf("\n%s\n", head.Sprint("nodes:"))
	for i := 1; i < len(g.Nodes); i++ {
		n := &g.Nodes[i]
		p.printf("  %%%d = %s : %s\n", n.ID, p.expr(n), n.Type)
	}
	return p.err
}

type printer struct {
	w   io.Writer
	g   *Graph
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) node(id NodeID) string {
	if id == NoNodeID {
		return "()"
	}
	return fmt.Sprintf("%%%d", id)
}

func (p *printer) varName(id VarID) string {
	v := p.g.Var(id)
	if v == nil {
		return fmt.Sprintf("v%d", id)
	}
	return fmt.Sprintf("v%d:%s", id, v.Name)
}

func (p *printer) stmt(st Stmt) string {
	switch st.Kind {
	case StmtLet, StmtAssign:
		return fmt.Sprintf("%s %s = %s", st.Kind, p.varName(st.Var), p.node(st.Value))
	case StmtBranch:
		s := fmt.Sprintf("branch %s then b%d", p.node(st.Value), st.Then)
		if st.Else != NoBlockID {
			s += fmt.Sprintf(" else b%d", st.Else)
		}
		return s
	default:
		return fmt.Sprintf("%s %s", st.Kind, p.node(st.Value))
	}
}

func (p *printer) expr(n *Node) string {
	switch n.Kind {
	case NodeConst:
		return "const " + n.Const.String()
	case NodeVarRef:
		return "var " + p.varName(n.Var)
	case NodeBinary:
		return fmt.Sprintf("%s %s, %s", n.Binary.Op.Name(), p.node(n.Binary.Left), p.node(n.Binary.Right))
	case NodeCall:
		args := make([]string, len(n.Call.Args))
		for i, a := range n.Call.Args {
			args[i] = p.node(a)
		}
		callee := fmt.Sprintf("fn#%d", n.Call.Func)
		if fn := p.g.Func(n.Call.Func); fn != nil {
			callee = fn.String()
		}
		return fmt.Sprintf("call %s(%s)", callee, strings.Join(args, ", "))
	case NodeSwitch:
		arms := make([]string, len(n.Switch.Arms))
		for i, arm := range n.Switch.Arms {
			pat := "_"
			if !arm.Wildcard {
				pat = p.node(arm.Pattern)
			}
			arms[i] = fmt.Sprintf("%s => b%d %s", pat, arm.Body, p.node(arm.Result))
		}
		return fmt.Sprintf("switch %s [%s]", p.node(n.Switch.Scrutinee), strings.Join(arms, ", "))
	}
	return "invalid"
}
