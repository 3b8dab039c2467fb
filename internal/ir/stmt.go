package ir

// StmtKind enumerates block statements.
type StmtKind uint8

const (
	// StmtLet binds a new variable to its initial value.
	StmtLet StmtKind = iota + 1
	// StmtAssign overwrites a visible variable.
	StmtAssign
	// StmtBranch runs Then or Else depending on a bool condition.
	StmtBranch
	// StmtEmit hands a value to the backend's output.
	StmtEmit
	// StmtExec evaluates a value for its effects and drops it.
	StmtExec
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "let"
	case StmtAssign:
		return "assign"
	case StmtBranch:
		return "branch"
	case StmtEmit:
		return "emit"
	case StmtExec:
		return "exec"
	default:
		return "invalid"
	}
}

type Stmt struct {
	Kind  StmtKind
	Var   VarID   // let, assign
	Value NodeID  // let/assign value, branch condition, emit, exec
	Then  BlockID // branch
	Else  BlockID // branch; NoBlockID for a no-op else
}

type Block struct {
	ID    BlockID
	Stmts []Stmt
}
