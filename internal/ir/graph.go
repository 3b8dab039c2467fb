package ir

import (
	"fmt"

	"fortio.org/safecast"

	"graphir/internal/trace"
	"graphir/internal/types"
)

// Graph is the arena of one construction session. It owns every node,
// variable, block and function, plus the first error recorded.
//
// A Graph is written by a single goroutine while it is being built and is
// read-only afterwards.
type Graph struct {
	Nodes  []Node // Nodes[0] is reserved
	Vars   []*Variable
	Blocks []*Block
	Funcs  []*Function
	Root   BlockID // session-level statements

	scopes      []*scope // parallel to Nodes
	varScopes   []*scope // parallel to Vars
	funcNames   map[string]FuncID
	constraints []constraint
	active      []*Context
	err         error
	tracer      trace.Tracer
}

func newGraph(tracer trace.Tracer) *Graph {
	g := &Graph{
		Nodes:     make([]Node, 1, 64),
		scopes:    make([]*scope, 1, 64),
		funcNames: make(map[string]FuncID),
		tracer:    tracer,
	}
	g.Root = g.newBlock()
	return g
}

// Assemble wraps decoded tables in a Graph and validates them. The result
// can be dumped and evaluated but not extended.
func Assemble(nodes []Node, vars []*Variable, blocks []*Block, funcs []*Function, root BlockID) (*Graph, error) {
	if len(nodes) == 0 {
		nodes = []Node{{}}
	}
	g := &Graph{
		Nodes:     nodes,
		Vars:      vars,
		Blocks:    blocks,
		Funcs:     funcs,
		Root:      root,
		funcNames: make(map[string]FuncID),
		tracer:    trace.Nop,
	}
	for _, f := range funcs {
		if f != nil && f.Name != "" {
			g.funcNames[f.Name] = f.ID
		}
	}
	if err := Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Err returns the first error recorded by any builder call.
func (g *Graph) Err() error { return g.err }

// Node returns the node with the given ID or nil.
func (g *Graph) Node(id NodeID) *Node {
	if id == NoNodeID || int(id) >= len(g.Nodes) {
		return nil
	}
	return &g.Nodes[id]
}

func (g *Graph) Var(id VarID) *Variable {
	if id < 0 || int(id) >= len(g.Vars) {
		return nil
	}
	return g.Vars[id]
}

func (g *Graph) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(g.Blocks) {
		return nil
	}
	return g.Blocks[id]
}

func (g *Graph) Func(id FuncID) *Function {
	if id < 0 || int(id) >= len(g.Funcs) {
		return nil
	}
	return g.Funcs[id]
}

// FuncByName looks a function up by its NFC-normalized name.
func (g *Graph) FuncByName(name string) (*Function, bool) {
	id, ok := g.funcNames[normalizeName(name)]
	if !ok {
		return nil, false
	}
	return g.Funcs[id], true
}

// TypeOf returns the type of node id, or types.Invalid.
func (g *Graph) TypeOf(id NodeID) types.Type {
	if n := g.Node(id); n != nil {
		return n.Type
	}
	return types.Invalid
}

// fail records err as the session's first error and returns the recorded one.
func (g *Graph) fail(err error) error {
	if g.err != nil {
		return g.err
	}
	if _, ok := err.(*BuildError); !ok {
		err = &BuildError{Code: CodeUser, Kind: err, Detail: "returned by body callback"}
	}
	g.err = err
	trace.Point(g.tracer, trace.ScopePhase, "build error", err.Error(), 0)
	return err
}

func (g *Graph) addNode(n Node, s *scope) (NodeID, error) {
	id, err := safecast.Conv[NodeID](len(g.Nodes))
	if err != nil {
		return NoNodeID, g.fail(newError(ErrInvalidValue, "arena", fmt.Sprintf("node table full: %v", err)))
	}
	n.ID = id
	g.Nodes = append(g.Nodes, n)
	g.scopes = append(g.scopes, s)
	return id, nil
}

func (g *Graph) newBlock() BlockID {
	value, err := safecast.Conv[int32](len(g.Blocks))
	if err != nil {
		panic(fmt.Errorf("block table overflow: %w", err))
	}
	id := BlockID(value)
	g.Blocks = append(g.Blocks, &Block{ID: id})
	return id
}

func (g *Graph) addVar(v *Variable, s *scope) VarID {
	value, err := safecast.Conv[int32](len(g.Vars))
	if err != nil {
		panic(fmt.Errorf("variable table overflow: %w", err))
	}
	v.ID = VarID(value)
	g.Vars = append(g.Vars, v)
	g.varScopes = append(g.varScopes, s)
	return v.ID
}

func (g *Graph) append(b BlockID, st Stmt) {
	blk := g.Blocks[b]
	blk.Stmts = append(blk.Stmts, st)
}

func (g *Graph) push(c *Context) { g.active = append(g.active, c) }

func (g *Graph) pop() { g.active = g.active[:len(g.active)-1] }

// current is the innermost context whose body is running.
func (g *Graph) current() *Context {
	if len(g.active) == 0 {
		return nil
	}
	return g.active[len(g.active)-1]
}
