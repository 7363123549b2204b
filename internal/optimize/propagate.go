// Package optimize implements C6: the constant/copy-propagation-and-folding
// pass and the dead-code-elimination pass spec.md §4.6 runs to a fixed
// point over the alternating pair.
package optimize

import (
	"strconv"

	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
)

// propagate runs one local constant/copy-propagation-and-folding sweep.
// Substitution is intra-block only: the working set of known values resets
// at every block boundary, so a value never crosses from one block into
// another even when reaching-definitions analysis would allow it — this is
// the "no cross-block-boundary substitution" safety rule.
func propagate(blocks [][]ir.Instr) ([][]ir.Instr, bool) {
	changed := false
	out := make([][]ir.Instr, len(blocks))
	for bi, block := range blocks {
		known := map[string]string{}
		result := make([]ir.Instr, 0, len(block))
		for _, instr := range block {
			orig := instr
			instr = substitute(instr, known)
			if folded, ok := fold(instr); ok {
				instr = folded
			}
			if instr != orig {
				changed = true
			}
			invalidateCopiesOf(known, definedName(instr))
			if instr.Op == ir.Assign {
				known[instr.Result] = instr.Arg1
			} else if name, ok := instr.ReachingDefName(); ok {
				delete(known, name)
			}
			result = append(result, instr)
		}
		out[bi] = result
	}
	return out, changed
}

func definedName(i ir.Instr) string {
	name, _ := i.ReachingDefName()
	return name
}

func invalidateCopiesOf(known map[string]string, name string) {
	if name == "" {
		return
	}
	for k, v := range known {
		if v == name {
			delete(known, k)
		}
	}
}

func resolveOperand(operand string, known map[string]string) string {
	if operand == "" || ir.IsLiteral(operand) {
		return operand
	}
	if v, ok := known[operand]; ok {
		return v
	}
	return operand
}

func substitute(i ir.Instr, known map[string]string) ir.Instr {
	switch i.Op {
	case ir.Assign:
		i.Arg1 = resolveOperand(i.Arg1, known)
	case ir.Binop:
		i.Arg1 = resolveOperand(i.Arg1, known)
		i.Arg2 = resolveOperand(i.Arg2, known)
	case ir.Unop:
		i.Arg1 = resolveOperand(i.Arg1, known)
	case ir.IfFalse, ir.IfTrue:
		i.Cond = resolveOperand(i.Cond, known)
	case ir.ArrayRead:
		i.Index = resolveOperand(i.Index, known)
	case ir.ArrayWrite:
		i.Index = resolveOperand(i.Index, known)
		i.Value = resolveOperand(i.Value, known)
	}
	return i
}

// fold collapses a BINOP/UNOP whose operands are now literal constants into
// a single ASSIGN carrying the computed literal.
func fold(i ir.Instr) (ir.Instr, bool) {
	switch i.Op {
	case ir.Binop:
		return foldBinop(i)
	case ir.Unop:
		return foldUnop(i)
	default:
		return i, false
	}
}

func foldBinop(i ir.Instr) (ir.Instr, bool) {
	if !ir.IsLiteral(i.Arg1) || !ir.IsLiteral(i.Arg2) {
		return i, false
	}
	lv, lok := asInt(i.Arg1)
	rv, rok := asInt(i.Arg2)
	if !lok || !rok {
		return i, false
	}
	var lit string
	switch i.Operator {
	case "+":
		lit = strconv.FormatInt(lv+rv, 10)
	case "-":
		lit = strconv.FormatInt(lv-rv, 10)
	case "*":
		lit = strconv.FormatInt(lv*rv, 10)
	case "/":
		if rv == 0 {
			return i, false
		}
		lit = strconv.FormatInt(lv/rv, 10)
	case "==":
		lit = boolLit(lv == rv)
	case "!=":
		lit = boolLit(lv != rv)
	case "<":
		lit = boolLit(lv < rv)
	case ">":
		lit = boolLit(lv > rv)
	case "<=":
		lit = boolLit(lv <= rv)
	case ">=":
		lit = boolLit(lv >= rv)
	case "&&":
		lit = boolLit(lv != 0 && rv != 0)
	case "||":
		lit = boolLit(lv != 0 || rv != 0)
	default:
		return i, false
	}
	return ir.Instr{Op: ir.Assign, Result: i.Result, Arg1: lit}, true
}

func foldUnop(i ir.Instr) (ir.Instr, bool) {
	if !ir.IsLiteral(i.Arg1) {
		return i, false
	}
	switch i.Operator {
	case "-":
		v, ok := asInt(i.Arg1)
		if !ok {
			return i, false
		}
		return ir.Instr{Op: ir.Assign, Result: i.Result, Arg1: strconv.FormatInt(-v, 10)}, true
	case "!":
		if i.Arg1 != "true" && i.Arg1 != "false" {
			return i, false
		}
		return ir.Instr{Op: ir.Assign, Result: i.Result, Arg1: boolLit(i.Arg1 == "false")}, true
	default:
		return i, false
	}
}

func asInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func boolLit(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
