package eval

import (
	"context"
	"fmt"
	"io"

	"graphir/internal/ir"
	"graphir/internal/trace"
	"graphir/internal/types"
)

const (
	DefaultMaxDepth = 4096
	DefaultMaxSteps = 50_000_000
	cancelEvery     = 4096
)

// Options configures an Interpreter.
type Options struct {
	MaxDepth int   // call depth limit; 0 means DefaultMaxDepth
	MaxSteps int64 // node evaluations; 0 means DefaultMaxSteps, negative means unlimited
	Output   io.Writer
	Tracer   trace.Tracer
}

// Interpreter evaluates a finished graph. Values are expression trees
// evaluated where they are used; variable references read the variable's
// current value in the active frame.
//
// An Interpreter is not safe for concurrent use. The graph it reads may be
// shared between interpreters.
type Interpreter struct {
	g       *ir.Graph
	opts    Options
	ctx     context.Context
	stack   []*frame
	steps   int64
	emitted []ir.Const
	eb      errorBuilder
	tracing bool
}

type frame struct {
	fn   *ir.Function // nil for the session frame
	site ir.NodeID
	vars map[ir.VarID]ir.Const
}

// New creates an interpreter over g.
func New(g *ir.Graph, opts Options) *Interpreter {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	in := &Interpreter{g: g, opts: opts, ctx: context.Background()}
	in.eb = errorBuilder{in: in}
	in.tracing = opts.Tracer.Level().ShouldEmit(trace.ScopeFunction)
	return in
}

// Emitted returns every value emitted so far, in order.
func (in *Interpreter) Emitted() []ir.Const { return in.emitted }

// Steps returns the number of node evaluations performed so far.
func (in *Interpreter) Steps() int64 { return in.steps }

// Call evaluates fn with the given arguments.
func (in *Interpreter) Call(ctx context.Context, fn *ir.Function, args ...ir.Const) (ir.Const, error) {
	in.reset(ctx)
	if fn == nil || in.g.Func(fn.ID) != fn {
		return ir.Const{}, in.eb.badGraph(ir.NoNodeID, "function is not part of this graph")
	}
	if len(args) != len(fn.Params) {
		return ir.Const{}, in.eb.makeError(CodeArity, ir.NoNodeID,
			fmt.Sprintf("%s takes %d arguments, got %d", fn, len(fn.Params), len(args)))
	}
	for i, a := range args {
		if want := in.g.Var(fn.Params[i]).Type; a.Type != want {
			return ir.Const{}, in.eb.makeError(CodeBadArgument, ir.NoNodeID,
				fmt.Sprintf("%s argument %d is %s, want %s", fn, i, a.Type, want))
		}
	}
	span := trace.Begin(in.opts.Tracer, trace.ScopePhase, "eval "+fn.String(), trace.ParentSpan(ctx))
	res, err := in.call(fn, ir.NoNodeID, args)
	span.WithExtra("steps", fmt.Sprint(in.steps)).End(errDetail(err))
	return res, err
}

// RunRoot executes the session-level statements of the graph.
func (in *Interpreter) RunRoot(ctx context.Context) error {
	in.reset(ctx)
	span := trace.Begin(in.opts.Tracer, trace.ScopePhase, "eval root", trace.ParentSpan(ctx))
	in.stack = append(in.stack, &frame{site: ir.NoNodeID, vars: make(map[ir.VarID]ir.Const)})
	err := in.execBlock(in.g.Root)
	in.stack = in.stack[:0]
	span.WithExtra("steps", fmt.Sprint(in.steps)).End(errDetail(err))
	return err
}

func errDetail(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}

func (in *Interpreter) reset(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	in.ctx = ctx
	in.stack = in.stack[:0]
	in.steps = 0
}

func (in *Interpreter) top() *frame { return in.stack[len(in.stack)-1] }

func (in *Interpreter) call(fn *ir.Function, site ir.NodeID, args []ir.Const) (ir.Const, error) {
	if len(in.stack) >= in.opts.MaxDepth {
		return ir.Const{}, in.eb.depthExceeded(site, in.opts.MaxDepth)
	}
	if !fn.Defined {
		return ir.Const{}, in.eb.badGraph(site, "%s has no body", fn)
	}
	var span *trace.Span
	if in.tracing {
		span = trace.Begin(in.opts.Tracer, trace.ScopeFunction, "call "+fn.String(), 0)
	}

	fr := &frame{fn: fn, site: site, vars: make(map[ir.VarID]ir.Const, len(fn.Params))}
	for i, pid := range fn.Params {
		fr.vars[pid] = args[i]
	}
	in.stack = append(in.stack, fr)
	res, err := in.runBody(fn)
	in.stack = in.stack[:len(in.stack)-1]

	if span != nil {
		span.End(res.String())
	}
	return res, err
}

func (in *Interpreter) runBody(fn *ir.Function) (ir.Const, error) {
	if err := in.execBlock(fn.Body); err != nil {
		return ir.Const{}, err
	}
	if fn.Value == ir.NoNodeID {
		return ir.UnitConst(), nil
	}
	return in.eval(fn.Value)
}

func (in *Interpreter) execBlock(id ir.BlockID) error {
	b := in.g.Block(id)
	if b == nil {
		return in.eb.badGraph(ir.NoNodeID, "unknown block b%d", id)
	}
	for _, st := range b.Stmts {
		if err := in.exec(st); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(st ir.Stmt) error {
	v, err := in.eval(st.Value)
	if err != nil {
		return err
	}
	switch st.Kind {
	case ir.StmtLet, ir.StmtAssign:
		in.top().vars[st.Var] = v
	case ir.StmtBranch:
		if v.Type != types.Bool {
			return in.eb.badGraph(st.Value, "branch condition is %s", v.Type)
		}
		if v.Bool {
			return in.execBlock(st.Then)
		}
		if st.Else != ir.NoBlockID {
			return in.execBlock(st.Else)
		}
	case ir.StmtEmit:
		in.emitted = append(in.emitted, v)
		if in.opts.Output != nil {
			if _, err := fmt.Fprintln(in.opts.Output, v); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	case ir.StmtExec:
	default:
		return in.eb.badGraph(st.Value, "invalid statement kind %d", st.Kind)
	}
	return nil
}

func (in *Interpreter) tick(id ir.NodeID) error {
	in.steps++
	if in.opts.MaxSteps > 0 && in.steps > in.opts.MaxSteps {
		return in.eb.stepLimit(id, in.opts.MaxSteps)
	}
	if in.steps%cancelEvery == 0 {
		if err := in.ctx.Err(); err != nil {
			return in.eb.canceled(id, err)
		}
	}
	return nil
}

func (in *Interpreter) eval(id ir.NodeID) (ir.Const, error) {
	if err := in.tick(id); err != nil {
		return ir.Const{}, err
	}
	n := in.g.Node(id)
	if n == nil {
		return ir.Const{}, in.eb.badGraph(id, "unknown node")
	}
	switch n.Kind {
	case ir.NodeConst:
		return n.Const, nil
	case ir.NodeVarRef:
		v, ok := in.top().vars[n.Var]
		if !ok {
			name := fmt.Sprintf("v%d", n.Var)
			if vr := in.g.Var(n.Var); vr != nil {
				name = vr.Name
			}
			return ir.Const{}, in.eb.unsetVariable(id, name)
		}
		return v, nil
	case ir.NodeBinary:
		l, err := in.eval(n.Binary.Left)
		if err != nil {
			return ir.Const{}, err
		}
		r, err := in.eval(n.Binary.Right)
		if err != nil {
			return ir.Const{}, err
		}
		return in.binary(id, n.Binary.Op, l, r)
	case ir.NodeCall:
		fn := in.g.Func(n.Call.Func)
		if fn == nil {
			return ir.Const{}, in.eb.badGraph(id, "call to unknown fn#%d", n.Call.Func)
		}
		args := make([]ir.Const, len(n.Call.Args))
		for i, a := range n.Call.Args {
			v, err := in.eval(a)
			if err != nil {
				return ir.Const{}, err
			}
			args[i] = v
		}
		return in.call(fn, id, args)
	case ir.NodeSwitch:
		return in.evalSwitch(id, &n.Switch)
	}
	return ir.Const{}, in.eb.badGraph(id, "invalid node kind %s", n.Kind)
}

// evalSwitch runs the first arm whose pattern matches.
func (in *Interpreter) evalSwitch(id ir.NodeID, sw *ir.SwitchNode) (ir.Const, error) {
	v, err := in.eval(sw.Scrutinee)
	if err != nil {
		return ir.Const{}, err
	}
	for _, arm := range sw.Arms {
		if !arm.Wildcard {
			p := in.g.Node(arm.Pattern)
			if p == nil || p.Kind != ir.NodeConst {
				return ir.Const{}, in.eb.badGraph(id, "arm pattern %%%d is not a constant", arm.Pattern)
			}
			if !p.Const.Equal(v) {
				continue
			}
		}
		if err := in.execBlock(arm.Body); err != nil {
			return ir.Const{}, err
		}
		if arm.Result == ir.NoNodeID {
			return ir.UnitConst(), nil
		}
		return in.eval(arm.Result)
	}
	return ir.Const{}, in.eb.noMatchingArm(id, v)
}
