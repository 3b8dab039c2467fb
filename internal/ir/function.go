package ir

import (
	"fmt"

	"graphir/internal/types"
)

// Variable is a named, typed storage slot owned by a function, or by the
// session when Owner is NoFuncID.
type Variable struct {
	ID    VarID
	Name  string
	Type  types.Type
	Owner FuncID
	Param bool
}

// Param declares one function parameter.
type Param struct {
	Name string
	Type types.Type
}

// Function is a stable handle to a function definition. It is allocated
// before its body is built so the body can call it.
type Function struct {
	ID      FuncID
	Name    string
	Params  []VarID
	Result  types.Type // Pending(ID) until the return type is known
	Body    BlockID
	Value   NodeID // body result; NoNodeID for unit
	Defined bool

	pinned   bool // result fixed by Returns
	building bool
	scope    *scope // parameters; root of the body's scope chain
}

// Arity returns the number of parameters.
func (f *Function) Arity() int { return len(f.Params) }

func (f *Function) String() string {
	if f.Name == "" {
		return fmt.Sprintf("fn#%d", f.ID)
	}
	return f.Name
}

// FuncOption configures DeclareFunction and RecursiveFunction.
type FuncOption func(*funcConfig)

type funcConfig struct {
	result types.Type
}

// Returns fixes the return type up front. Callers of a function whose body
// is still being built then see t instead of an inferred placeholder.
func Returns(t types.Type) FuncOption {
	return func(c *funcConfig) { c.result = t }
}
