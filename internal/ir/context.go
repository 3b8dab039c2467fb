package ir

import (
	"fmt"

	"graphir/internal/trace"
	"graphir/internal/types"
)

// Context is a view on a Graph: the enclosing function, the lexical scope and
// the block that receives statements. Child contexts handed to body callbacks
// share the graph and are closed when their callback returns.
type Context struct {
	g      *Graph
	fn     *Function // nil at session level
	scope  *scope
	block  BlockID
	closed bool
}

// Option configures NewContext.
type Option func(*Graph)

// WithTracer reports builder activity to t.
func WithTracer(t trace.Tracer) Option {
	return func(g *Graph) {
		if t != nil {
			g.tracer = t
		}
	}
}

// NewContext starts a construction session with an empty graph.
func NewContext(opts ...Option) *Context {
	g := newGraph(trace.Nop)
	for _, opt := range opts {
		opt(g)
	}
	c := &Context{g: g, scope: newScope(nil, NoFuncID), block: g.Root}
	g.push(c)
	return c
}

// Graph returns the arena shared by all views of this session.
func (c *Context) Graph() *Graph { return c.g }

// Function returns the function whose body c builds, or nil at session level.
func (c *Context) Function() *Function { return c.fn }

// Err returns the session's first error.
func (c *Context) Err() error { return c.g.err }

func (c *Context) usable() error {
	if c.g.err != nil {
		return c.g.err
	}
	if c.closed {
		return c.g.fail(newError(ErrInvalidValue, "context", "used after its body callback returned"))
	}
	return nil
}

// operand checks that v belongs to this graph and is visible from c.
func (c *Context) operand(site string, v Value) error {
	if v.g == nil || v.ID == NoNodeID {
		return c.g.fail(newError(ErrInvalidValue, site, "zero value"))
	}
	if v.g != c.g {
		return c.g.fail(newError(ErrInvalidValue, site, "value belongs to another context"))
	}
	if int(v.ID) >= len(c.g.Nodes) {
		return c.g.fail(newError(ErrInvalidValue, site, fmt.Sprintf("unknown node %%%d", v.ID)))
	}
	if !encloses(c.g.scopes[v.ID], c.scope) {
		return c.g.fail(newError(ErrUnresolvedVariable, site, "value refers to a variable outside the current scope"))
	}
	return nil
}

// child opens a nested view writing to a fresh block.
func (c *Context) child() *Context {
	return &Context{
		g:     c.g,
		fn:    c.fn,
		scope: newScope(c.scope, c.scope.fn),
		block: c.g.newBlock(),
	}
}

// run invokes body with child pushed as the active context.
func (c *Context) run(child *Context, body func(*Context) error) error {
	c.g.push(child)
	err := body(child)
	c.g.pop()
	child.closed = true
	if err != nil {
		return c.g.fail(err)
	}
	return c.g.err
}

func (c *Context) value(id NodeID) Value { return Value{ID: id, g: c.g} }

func (c *Context) owner() FuncID {
	if c.fn == nil {
		return NoFuncID
	}
	return c.fn.ID
}

// Let declares a variable in the current scope and initialises it.
// Shadowing a name from an enclosing scope is allowed; redeclaring it in the
// same scope is not.
func (c *Context) Let(name string, init Value) (*Variable, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	name = normalizeName(name)
	site := fmt.Sprintf("let %s", name)
	if name == "" {
		return nil, c.g.fail(newError(ErrInvalidValue, site, "empty variable name"))
	}
	if err := c.operand(site, init); err != nil {
		return nil, err
	}
	if _, exists := c.scope.names[name]; exists {
		return nil, c.g.fail(newError(ErrDuplicateName, site, "already declared in this scope"))
	}
	t := c.g.TypeOf(init.ID)
	if t == types.Unit {
		return nil, c.g.fail(newError(ErrInvalidValue, site, "cannot bind a unit value"))
	}
	v := &Variable{Name: name, Type: t, Owner: c.owner()}
	id := c.g.addVar(v, c.scope)
	c.scope.bind(name, id)
	c.g.append(c.block, Stmt{Kind: StmtLet, Var: id, Value: init.ID})
	return v, nil
}

// Assign overwrites a variable visible from c.
func (c *Context) Assign(v *Variable, value Value) error {
	if err := c.usable(); err != nil {
		return err
	}
	if err := c.visibleVar(v); err != nil {
		return err
	}
	site := fmt.Sprintf("assign %s", v.Name)
	if err := c.operand(site, value); err != nil {
		return err
	}
	if err := c.g.unify(v.Type, c.g.TypeOf(value.ID), site); err != nil {
		return err
	}
	c.g.append(c.block, Stmt{Kind: StmtAssign, Var: v.ID, Value: value.ID})
	return nil
}

func (c *Context) visibleVar(v *Variable) error {
	if v == nil || c.g.Var(v.ID) != v {
		return c.g.fail(newError(ErrInvalidValue, "variable", "not declared in this context"))
	}
	if !encloses(c.g.varScopes[v.ID], c.scope) {
		return c.g.fail(newError(ErrUnresolvedVariable, "variable "+v.Name, "declared outside the current scope"))
	}
	return nil
}

// Var resolves name in the current scope chain and reads it.
func (c *Context) Var(name string) (Value, error) {
	if err := c.usable(); err != nil {
		return Value{}, err
	}
	name = normalizeName(name)
	id, ok := c.scope.lookup(name)
	if !ok {
		return Value{}, c.g.fail(newError(ErrUnresolvedVariable, "variable "+name, "no such name in scope"))
	}
	return c.ref(id)
}

// Ref reads a variable handle previously returned by Let.
func (c *Context) Ref(v *Variable) (Value, error) {
	if err := c.usable(); err != nil {
		return Value{}, err
	}
	if err := c.visibleVar(v); err != nil {
		return Value{}, err
	}
	return c.ref(v.ID)
}

func (c *Context) ref(id VarID) (Value, error) {
	v := c.g.Vars[id]
	nid, err := c.g.addNode(Node{Kind: NodeVarRef, Type: v.Type, Var: id}, c.g.varScopes[id])
	if err != nil {
		return Value{}, err
	}
	return c.value(nid), nil
}

// Emit hands v to the backend's output stream.
func (c *Context) Emit(v Value) error { return c.stmt(StmtEmit, v) }

// Exec evaluates v for its effects, e.g. a call or switch whose result is unused.
func (c *Context) Exec(v Value) error { return c.stmt(StmtExec, v) }

func (c *Context) stmt(kind StmtKind, v Value) error {
	if err := c.usable(); err != nil {
		return err
	}
	if err := c.operand(kind.String(), v); err != nil {
		return err
	}
	c.g.append(c.block, Stmt{Kind: kind, Value: v.ID})
	return nil
}

// Const adds a literal. Failures are recorded on the graph and yield a zero
// Value, so constants can be used inline.
func (c *Context) Const(k Const) Value {
	if c.usable() != nil {
		return Value{}
	}
	if !k.Type.IsValid() || k.Type.IsPending() {
		c.g.fail(newError(ErrInvalidValue, "constant", "invalid type "+k.Type.String()))
		return Value{}
	}
	if err := k.inRange(); err != nil {
		c.g.fail(newError(ErrTypeMismatch, "constant", err.Error()))
		return Value{}
	}
	id, err := c.g.addNode(Node{Kind: NodeConst, Type: k.Type, Const: k}, nil)
	if err != nil {
		return Value{}
	}
	return c.value(id)
}

// Uint adds an unsigned literal of type t; n must fit.
func (c *Context) Uint(t types.Type, n uint64) Value {
	if err := types.CheckUint(t, n); err != nil {
		c.g.fail(newError(ErrTypeMismatch, "constant", err.Error()))
		return Value{}
	}
	return c.Const(UintConst(t, n))
}

// Int adds a signed literal of type t; n must fit.
func (c *Context) Int(t types.Type, n int64) Value {
	if err := types.CheckInt(t, n); err != nil {
		c.g.fail(newError(ErrTypeMismatch, "constant", err.Error()))
		return Value{}
	}
	return c.Const(IntConst(t, n))
}

func (c *Context) U32(n uint32) Value { return c.Const(UintConst(types.U32, uint64(n))) }

func (c *Context) U64(n uint64) Value { return c.Const(UintConst(types.U64, n)) }

func (c *Context) I32(n int32) Value { return c.Const(IntConst(types.I32, int64(n))) }

func (c *Context) Bool(b bool) Value { return c.Const(BoolConst(b)) }
