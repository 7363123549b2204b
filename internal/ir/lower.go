package ir

import (
	"strconv"

	"github.com/rmkhurana28/RM-C-Compilor/internal/ast"
)

// Lowerer walks a validated *ast.Program and appends TAC instructions to
// Stream, per spec.md §4.4: every expression node contributes exactly one
// instruction naming its own result, built from the results its children
// already produced; temporaries and labels are drawn from two disjoint,
// never-reused monotonic counters.
type Lowerer struct {
	Stream   []Instr
	nextTemp int
	nextLbl  int
}

func NewLowerer() *Lowerer { return &Lowerer{} }

// Lower runs the full pass and returns the resulting TAC stream.
func Lower(prog *ast.Program) []Instr {
	l := NewLowerer()
	for _, s := range prog.Stmts {
		l.lowerStmt(s)
	}
	return l.Stream
}

func (l *Lowerer) newTemp() string {
	l.nextTemp++
	return "T" + strconv.Itoa(l.nextTemp)
}

func (l *Lowerer) newLabel() string {
	l.nextLbl++
	return "L" + strconv.Itoa(l.nextLbl)
}

func (l *Lowerer) emit(i Instr) { l.Stream = append(l.Stream, i) }

// ---- statements ----

func (l *Lowerer) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Declaration:
		l.lowerDeclaration(n)
	case *ast.If:
		l.lowerIf(n.Cond, n.Then, nil)
	case *ast.IfElse:
		l.lowerIf(n.Cond, n.Then, n.Else)
	case *ast.While:
		l.lowerWhile(n)
	case *ast.For:
		l.lowerFor(n)
	case *ast.Block:
		for _, st := range n.Stmts {
			l.lowerStmt(st)
		}
	case *ast.ExprStmt:
		if a, ok := n.Expr.(*ast.Assignment); ok {
			l.lowerAssignment(a)
		} else {
			l.lowerExpr(n.Expr)
		}
	}
}

func (l *Lowerer) lowerDeclaration(d *ast.Declaration) {
	switch {
	case d.InitList != nil:
		for idx, e := range d.InitList {
			v := l.lowerExpr(e)
			l.emit(Instr{Op: ArrayWrite, Array: d.Name, Index: strconv.Itoa(idx), Value: v})
		}
	case d.Init != nil:
		v := l.lowerExpr(d.Init)
		l.emit(Instr{Op: Assign, Result: d.Name, Arg1: v})
	default:
		// `T x;` — no initializer, no TAC emitted (spec.md §8 boundary case).
	}
}

func (l *Lowerer) lowerIf(cond ast.Expr, then, els *ast.Block) {
	ct := l.lowerExpr(cond)
	if els == nil {
		end := l.newLabel()
		l.emit(Instr{Op: IfFalse, Cond: ct, Label: end})
		l.lowerStmt(then)
		l.emit(Instr{Op: Label, Label: end})
		return
	}
	elseLbl := l.newLabel()
	endLbl := l.newLabel()
	l.emit(Instr{Op: IfFalse, Cond: ct, Label: elseLbl})
	l.lowerStmt(then)
	l.emit(Instr{Op: Goto, Label: endLbl})
	l.emit(Instr{Op: Label, Label: elseLbl})
	l.lowerStmt(els)
	l.emit(Instr{Op: Label, Label: endLbl})
}

func (l *Lowerer) lowerWhile(n *ast.While) {
	top := l.newLabel()
	end := l.newLabel()
	l.emit(Instr{Op: Label, Label: top})
	ct := l.lowerExpr(n.Cond)
	l.emit(Instr{Op: IfFalse, Cond: ct, Label: end})
	l.lowerStmt(n.Body)
	l.emit(Instr{Op: Goto, Label: top})
	l.emit(Instr{Op: Label, Label: end})
}

func (l *Lowerer) lowerFor(n *ast.For) {
	if n.Init != nil {
		l.lowerStmt(n.Init)
	}
	top := l.newLabel()
	end := l.newLabel()
	l.emit(Instr{Op: Label, Label: top})
	ct := l.lowerExpr(n.Cond)
	l.emit(Instr{Op: IfFalse, Cond: ct, Label: end})
	l.lowerStmt(n.Body)
	if n.Update != nil {
		l.lowerStmt(n.Update)
	}
	l.emit(Instr{Op: Goto, Label: top})
	l.emit(Instr{Op: Label, Label: end})
}

// lowerAssignment handles both `x = e;` and `arr[i] = e;`. Its result
// operand is the assigned value; no caller uses it, since the parser
// rejects assignment-as-expression and never lets this node appear nested
// inside another expression.
func (l *Lowerer) lowerAssignment(a *ast.Assignment) string {
	v := l.lowerExpr(a.Value)
	l.storeLvalue(a.Target, v)
	return v
}

func (l *Lowerer) storeLvalue(target ast.Lvalue, value string) {
	switch t := target.(type) {
	case *ast.Variable:
		l.emit(Instr{Op: Assign, Result: t.Name, Arg1: value})
	case *ast.ArrayAccess:
		idx := l.lowerExpr(t.Index)
		l.emit(Instr{Op: ArrayWrite, Array: t.Name, Index: idx, Value: value})
	}
}

// ---- expressions: each node emits exactly one instruction and returns the
// operand naming its result, per spec.md §4.4's lowering table. ----

func (l *Lowerer) lowerExpr(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IntLiteral:
		t := l.newTemp()
		l.emit(Instr{Op: Assign, Result: t, Arg1: strconv.FormatInt(n.Value, 10)})
		return t
	case *ast.DoubleLiteral:
		t := l.newTemp()
		l.emit(Instr{Op: Assign, Result: t, Arg1: strconv.FormatFloat(n.Value, 'g', -1, 64)})
		return t
	case *ast.BoolLiteral:
		t := l.newTemp()
		lit := "false"
		if n.Value {
			lit = "true"
		}
		l.emit(Instr{Op: Assign, Result: t, Arg1: lit})
		return t
	case *ast.CharLiteral:
		// Encoded as its decimal ASCII code, not the raw character, so
		// IsLiteral recognizes it the same way it recognizes int literals;
		// char is a one-byte integer type all the way down to codegen.
		t := l.newTemp()
		l.emit(Instr{Op: Assign, Result: t, Arg1: strconv.Itoa(int(n.Value))})
		return t
	case *ast.StringLiteral:
		t := l.newTemp()
		l.emit(Instr{Op: Assign, Result: t, Arg1: n.Value})
		return t
	case *ast.Variable:
		t := l.newTemp()
		l.emit(Instr{Op: Assign, Result: t, Arg1: n.Name})
		return t
	case *ast.ArrayAccess:
		idx := l.lowerExpr(n.Index)
		t := l.newTemp()
		l.emit(Instr{Op: ArrayRead, Result: t, Array: n.Name, Index: idx})
		return t
	case *ast.BinaryOp:
		lhs := l.lowerExpr(n.Left)
		rhs := l.lowerExpr(n.Right)
		t := l.newTemp()
		l.emit(Instr{Op: Binop, Result: t, Arg1: lhs, Operator: n.Op, Arg2: rhs})
		return t
	case *ast.UnaryOp:
		return l.lowerUnary(n)
	case *ast.Assignment:
		return l.lowerAssignment(n)
	default:
		return ""
	}
}

func (l *Lowerer) lowerUnary(n *ast.UnaryOp) string {
	switch n.Op {
	case "!", "-":
		v := l.lowerExpr(n.Operand)
		t := l.newTemp()
		l.emit(Instr{Op: Unop, Result: t, Operator: n.Op, Arg1: v})
		return t
	case "++", "--":
		lv := n.Operand.(ast.Lvalue)
		old := l.lowerExpr(lv)
		delta := "1"
		op := "+"
		if n.Op == "--" {
			op = "-"
		}
		updated := l.newTemp()
		l.emit(Instr{Op: Binop, Result: updated, Arg1: old, Operator: op, Arg2: delta})
		l.storeLvalue(lv, updated)
		if n.Prefix {
			return updated
		}
		return old
	default:
		return ""
	}
}
