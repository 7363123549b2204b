// Package sema implements the semantic/type checker (C3): it walks the AST
// built by C2, builds the scoped symbol table of spec.md §3, validates
// types per §4.3, and accumulates warnings. Grounded in the scope-tracking
// shape of sentra-language-sentra's internal/compregister.Scope (a depth +
// parent-chain local table) generalized to the block-id/scope-depth model
// spec.md actually specifies.
package sema

import "fmt"

// Type is one of the four scalar types the language supports.
type Type string

const (
	IntT    Type = "int"
	CharT   Type = "char"
	DoubleT Type = "double"
	BoolT   Type = "bool"
)

// Symbol is one entry of spec.md §3's append-only symbol table.
type Symbol struct {
	Name        string
	Type        Type
	IsArray     bool
	ArraySize   int
	Initialized bool
	ScopeDepth  int
	BlockID     int
}

func (s Symbol) String() string {
	if s.IsArray {
		return fmt.Sprintf("%s %s[%d]", s.Type, s.Name, s.ArraySize)
	}
	return fmt.Sprintf("%s %s", s.Type, s.Name)
}

// Table is the append-only sequence of symbols described in spec.md §3.
// Lookup resolves a name by scanning for the innermost enclosing entry
// whose BlockID is in the active block stack and whose ScopeDepth is <=
// the current scope.
type Table struct {
	Symbols []Symbol
}

// Declare appends a new symbol, enforcing spec.md's invariant that
// (name, is_array, active block stack) is unique: a name already visible
// in the currently active block stack is a redeclaration error.
func (t *Table) Declare(sym Symbol, activeBlocks []int) error {
	if _, ok := t.lookupIn(sym.Name, activeBlocks, sym.ScopeDepth+1); ok {
		return fmt.Errorf("variable %q already exists in this scope", sym.Name)
	}
	t.Symbols = append(t.Symbols, sym)
	return nil
}

// Lookup resolves name against the active block stack at currentScope.
func (t *Table) Lookup(name string, activeBlocks []int, currentScope int) (*Symbol, bool) {
	return t.lookupIn(name, activeBlocks, currentScope+1)
}

// lookupIn scans backward (innermost declaration wins) for the nearest
// symbol named `name` whose BlockID is active and ScopeDepth < scopeCeil.
func (t *Table) lookupIn(name string, activeBlocks []int, scopeCeil int) (*Symbol, bool) {
	active := make(map[int]bool, len(activeBlocks))
	for _, b := range activeBlocks {
		active[b] = true
	}
	for i := len(t.Symbols) - 1; i >= 0; i-- {
		s := &t.Symbols[i]
		if s.Name != name {
			continue
		}
		if !active[s.BlockID] {
			continue
		}
		if s.ScopeDepth >= scopeCeil {
			continue
		}
		return s, true
	}
	return nil, false
}

// MarkInitialized flips Initialized on the most recently declared matching
// symbol, used when an assignment target is a plain variable.
func (t *Table) MarkInitialized(sym *Symbol) {
	sym.Initialized = true
}
