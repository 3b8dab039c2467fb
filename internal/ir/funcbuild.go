package ir

import (
	"fmt"

	"fortio.org/safecast"

	"graphir/internal/trace"
	"graphir/internal/types"
)

// FuncBody builds a function body. self is the function being defined, args
// read its parameters in declaration order. The returned Value is the
// function result; a zero Value makes the function return unit.
type FuncBody func(self *Function, c *Context, args []Value) (Value, error)

// RecursiveFunction declares a function and builds its body at once. The
// body may call self before it returns; the return type is inferred from the
// body result unless Returns pins it.
func (c *Context) RecursiveFunction(name string, params []Param, body FuncBody, opts ...FuncOption) (*Function, error) {
	fn, err := c.DeclareFunction(name, params, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.DefineFunction(fn, body); err != nil {
		return nil, err
	}
	return fn, nil
}

// DeclareFunction allocates a function handle without a body, so several
// functions can call each other before any of them is defined.
func (c *Context) DeclareFunction(name string, params []Param, opts ...FuncOption) (*Function, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	g := c.g
	name = normalizeName(name)
	site := "fn " + name
	if name != "" {
		if _, exists := g.funcNames[name]; exists {
			return nil, g.fail(newError(ErrDuplicateName, site, "function already declared"))
		}
	}
	var cfg funcConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	value, err := safecast.Conv[int32](len(g.Funcs))
	if err != nil {
		panic(fmt.Errorf("function table overflow: %w", err))
	}
	fn := &Function{
		ID:     FuncID(value),
		Name:   name,
		Result: types.Pending(value),
		Body:   NoBlockID,
		Value:  NoNodeID,
	}
	if cfg.result != types.Invalid {
		if !cfg.result.IsValid() || cfg.result.IsPending() {
			return nil, g.fail(newError(ErrInvalidValue, site, "invalid return type "+cfg.result.String()))
		}
		fn.Result = cfg.result
		fn.pinned = true
	}

	fn.scope = newScope(nil, fn.ID)
	seen := make(map[string]struct{}, len(params))
	for i, p := range params {
		pname := normalizeName(p.Name)
		psite := fmt.Sprintf("%s param %d", site, i)
		if pname == "" {
			return nil, g.fail(newError(ErrInvalidValue, psite, "empty parameter name"))
		}
		if _, dup := seen[pname]; dup {
			return nil, g.fail(newError(ErrDuplicateName, psite, "parameter "+pname+" repeated"))
		}
		seen[pname] = struct{}{}
		if !p.Type.IsValid() || p.Type.IsPending() || p.Type == types.Unit {
			return nil, g.fail(newError(ErrInvalidValue, psite, "invalid parameter type "+p.Type.String()))
		}
		id := g.addVar(&Variable{Name: pname, Type: p.Type, Owner: fn.ID, Param: true}, fn.scope)
		fn.scope.bind(pname, id)
		fn.Params = append(fn.Params, id)
	}

	g.Funcs = append(g.Funcs, fn)
	if name != "" {
		g.funcNames[name] = fn.ID
	}
	return fn, nil
}

// DefineFunction builds the body of a declared function. Each function is
// defined exactly once.
func (c *Context) DefineFunction(fn *Function, body FuncBody) error {
	if err := c.usable(); err != nil {
		return err
	}
	g := c.g
	if fn == nil || g.Func(fn.ID) != fn {
		return g.fail(newError(ErrInvalidValue, "define", "function does not belong to this context"))
	}
	site := fmt.Sprintf("fn %s", fn)
	if fn.Defined || fn.building {
		return g.fail(newError(ErrRedefinedFunction, site, ""))
	}
	if body == nil {
		return g.fail(newError(ErrInvalidValue, site, "nil body"))
	}

	span := trace.Begin(g.tracer, trace.ScopeFunction, site, 0)
	defer span.End("")

	fn.building = true
	fn.Body = g.newBlock()
	inner := &Context{g: g, fn: fn, scope: fn.scope, block: fn.Body}
	args := make([]Value, len(fn.Params))
	for i, pid := range fn.Params {
		v, err := inner.ref(pid)
		if err != nil {
			return err
		}
		args[i] = v
	}

	g.push(inner)
	result, err := body(fn, inner, args)
	g.pop()
	inner.closed = true
	fn.building = false
	if err != nil {
		return g.fail(err)
	}
	if g.err != nil {
		return g.err
	}

	t := types.Unit
	if result != (Value{}) {
		if err := inner.operand(site+" result", result); err != nil {
			return err
		}
		fn.Value = result.ID
		t = g.TypeOf(result.ID)
	}
	r, err := g.inferResult(fn, t)
	if err != nil {
		return err
	}
	fn.Defined = true
	if err := g.finalize(fn, r); err != nil {
		return err
	}
	span.WithExtra("result", r.String())
	return nil
}

// Call invokes fn with args. The argument count and types must match the
// parameters.
func (c *Context) Call(fn *Function, args ...Value) (Value, error) {
	if err := c.usable(); err != nil {
		return Value{}, err
	}
	g := c.g
	if fn == nil || g.Func(fn.ID) != fn {
		return Value{}, g.fail(newError(ErrInvalidValue, "call", "function does not belong to this context"))
	}
	site := fmt.Sprintf("call %s", fn)
	if len(args) != len(fn.Params) {
		return Value{}, g.fail(newError(ErrArityMismatch, site,
			fmt.Sprintf("expected %d arguments, got %d", len(fn.Params), len(args))))
	}

	ids := make([]NodeID, len(args))
	var s *scope
	for i, a := range args {
		asite := fmt.Sprintf("%s arg %d", site, i)
		if err := c.operand(asite, a); err != nil {
			return Value{}, err
		}
		want := g.Vars[fn.Params[i]].Type
		if err := g.unify(want, g.TypeOf(a.ID), asite); err != nil {
			return Value{}, err
		}
		ids[i] = a.ID
		s = deeper(s, g.scopes[a.ID])
	}

	n := Node{Kind: NodeCall, Type: fn.resultType(), Call: CallNode{Func: fn.ID, Args: ids}}
	id, err := g.addNode(n, s)
	if err != nil {
		return Value{}, err
	}
	return c.value(id), nil
}
