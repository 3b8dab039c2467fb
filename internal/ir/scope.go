package ir

import "golang.org/x/text/unicode/norm"

// scope is one level of lexical name resolution. Function bodies start a
// fresh chain, so nothing outside a function is visible inside it.
type scope struct {
	parent *scope
	fn     FuncID
	depth  int
	names  map[string]VarID
}

func newScope(parent *scope, fn FuncID) *scope {
	s := &scope{parent: parent, fn: fn}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	return s
}

// encloses reports whether s is inner or one of its ancestors.
// A nil scope (pure value) is visible everywhere.
func encloses(s, inner *scope) bool {
	if s == nil {
		return true
	}
	for cur := inner; cur != nil; cur = cur.parent {
		if cur == s {
			return true
		}
	}
	return false
}

// deeper returns the innermost of a and b. Both must be visible from the
// same context, which puts them on one chain.
func deeper(a, b *scope) *scope {
	if a == nil {
		return b
	}
	if b == nil || a.depth >= b.depth {
		return a
	}
	return b
}

func (s *scope) lookup(name string) (VarID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.names[name]; ok {
			return id, true
		}
	}
	return NoVarID, false
}

func (s *scope) bind(name string, id VarID) bool {
	if _, exists := s.names[name]; exists {
		return false
	}
	if s.names == nil {
		s.names = make(map[string]VarID)
	}
	s.names[name] = id
	return true
}

// normalizeName folds equivalent Unicode spellings to NFC.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}
