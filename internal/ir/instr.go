// Package ir implements the three-address-code layer (C4) and its
// operand/instruction vocabulary from spec.md §3. A TAC instruction is
// modeled as one struct with every field any variant might need — the
// idiomatic Go rendering of the source's tagged union, per SPEC_FULL.md's
// design notes: "every switch over type should become exhaustive."
package ir

import "fmt"

type Op int

const (
	Assign Op = iota
	Binop
	Unop
	Goto
	IfFalse
	IfTrue
	Label
	ArrayRead
	ArrayWrite
)

func (o Op) String() string {
	switch o {
	case Assign:
		return "ASSIGN"
	case Binop:
		return "BINOP"
	case Unop:
		return "UNOP"
	case Goto:
		return "GOTO"
	case IfFalse:
		return "IFFALSE"
	case IfTrue:
		return "IFTRUE"
	case Label:
		return "LABEL"
	case ArrayRead:
		return "ARRAY_READ"
	case ArrayWrite:
		return "ARRAY_WRITE"
	default:
		return "?"
	}
}

// Instr is one TAC instruction. Field meaning depends on Op:
//
//	ASSIGN       Result = Arg1
//	BINOP        Result = Arg1 Operator Arg2
//	UNOP         Result = Operator Arg1
//	GOTO         jump to Label
//	IFFALSE      if not Cond, jump to Label
//	IFTRUE       if Cond, jump to Label
//	LABEL        defines Label at this point
//	ARRAY_READ   Result = Array[Index]
//	ARRAY_WRITE  Array[Index] = Value
type Instr struct {
	Op       Op
	Result   string
	Arg1     string
	Operator string
	Arg2     string
	Cond     string
	Label    string
	Array    string
	Index    string
	Value    string
}

func (i Instr) String() string {
	switch i.Op {
	case Assign:
		return fmt.Sprintf("%s = %s", i.Result, i.Arg1)
	case Binop:
		return fmt.Sprintf("%s = %s %s %s", i.Result, i.Arg1, i.Operator, i.Arg2)
	case Unop:
		return fmt.Sprintf("%s = %s%s", i.Result, i.Operator, i.Arg1)
	case Goto:
		return fmt.Sprintf("GOTO %s", i.Label)
	case IfFalse:
		return fmt.Sprintf("IFFALSE %s GOTO %s", i.Cond, i.Label)
	case IfTrue:
		return fmt.Sprintf("IFTRUE %s GOTO %s", i.Cond, i.Label)
	case Label:
		return fmt.Sprintf("%s:", i.Label)
	case ArrayRead:
		return fmt.Sprintf("%s = %s[%s]", i.Result, i.Array, i.Index)
	case ArrayWrite:
		return fmt.Sprintf("%s[%s] = %s", i.Array, i.Index, i.Value)
	default:
		return "?"
	}
}

// IsDefinitionKind reports whether i is one of the five "definition" kinds
// spec.md §4.5 drives reaching-definitions analysis from.
func (i Instr) IsDefinitionKind() bool {
	switch i.Op {
	case Assign, Binop, Unop, ArrayRead, ArrayWrite:
		return true
	default:
		return false
	}
}

// ReachingDefName returns the name this instruction defines for reaching-
// definitions purposes (spec.md §4.5's KILL rule keys on this name).
func (i Instr) ReachingDefName() (string, bool) {
	switch i.Op {
	case Assign, Binop, Unop, ArrayRead:
		return i.Result, true
	case ArrayWrite:
		return i.Array, true
	default:
		return "", false
	}
}

// LiveKillName returns the name this instruction contributes to a block's
// live-variable KILL set. Array writes are deliberately excluded: spec.md
// §4.5 states "Array-write does not add the array name to KILL (array
// mutation is never dead)."
func (i Instr) LiveKillName() (string, bool) {
	switch i.Op {
	case Assign, Binop, Unop, ArrayRead:
		return i.Result, true
	default:
		return "", false
	}
}

// UsedOperands returns every operand this instruction reads, in evaluation
// order, for liveness GEN sets and for the optimizer's resolve() walk.
// Literals (recognized by IsLiteral) are excluded; only variable/temp names
// matter for dataflow.
func (i Instr) UsedOperands() []string {
	var used []string
	add := func(s string) {
		if s != "" && !IsLiteral(s) {
			used = append(used, s)
		}
	}
	switch i.Op {
	case Assign:
		add(i.Arg1)
	case Binop:
		add(i.Arg1)
		add(i.Arg2)
	case Unop:
		add(i.Arg1)
	case IfFalse, IfTrue:
		add(i.Cond)
	case ArrayRead:
		add(i.Index)
	case ArrayWrite:
		add(i.Index)
		add(i.Value)
	}
	return used
}

// IsNeverDead reports whether i must survive dead-code elimination
// regardless of liveness: array reads and writes are treated as
// side-effectful per spec.md §4.6's DCE safety rule.
func (i Instr) IsNeverDead() bool {
	return i.Op == ArrayRead || i.Op == ArrayWrite
}

// IsTemp reports whether operand s is a compiler-generated temporary T<k>.
func IsTemp(s string) bool {
	return len(s) > 1 && s[0] == 'T' && isDigits(s[1:])
}

// IsLabelOperand reports whether s is a generated label L<k>.
func IsLabelOperand(s string) bool {
	return len(s) > 1 && s[0] == 'L' && isDigits(s[1:])
}

// IsLiteral reports whether s is a recognized constant literal: an integer,
// a double, or true/false. Char literals count as integers because the
// lowerer encodes them as their decimal character code.
func IsLiteral(s string) bool {
	if s == "" {
		return false
	}
	if s == "true" || s == "false" {
		return true
	}
	if isDigits(s) {
		return true
	}
	if isDoubleLiteral(s) {
		return true
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' {
		start = 1
	}
	if start >= len(s) {
		return false
	}
	for _, c := range s[start:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isDoubleLiteral(s string) bool {
	dot := -1
	for i, c := range s {
		if c == '.' {
			if dot != -1 {
				return false
			}
			dot = i
		} else if c < '0' || c > '9' {
			if !(i == 0 && c == '-') {
				return false
			}
		}
	}
	return dot > 0
}
