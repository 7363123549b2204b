// Package ast defines the tagged tree nodes produced by the parser (C2),
// consulted by the semantic checker (C3) and IR lowerer (C4), and never
// mutated afterward. The Expr/Stmt split and visitor shape are grounded on
// sentra-language-sentra's internal/parser/ast.go and stmt.go.
package ast

// Node is the common interface implemented by every AST node, expression or
// statement, so the report printer (SPEC_FULL.md §6) can walk a uniform
// tree.
type Node interface {
	node()
}

// Expr is any rvalue-producing AST node.
type Expr interface {
	Node
	Accept(v ExprVisitor) interface{}
}

// Stmt is any top-level or nested statement node.
type Stmt interface {
	Node
	Accept(v StmtVisitor) interface{}
}

// Lvalue is implemented only by Variable and ArrayAccess, per spec.md §3:
// "An lvalue is either a variable reference or an array access; any other
// node is an rvalue."
type Lvalue interface {
	Expr
	lvalue()
}

// ---- Expressions ----

type IntLiteral struct{ Value int64 }
type DoubleLiteral struct{ Value float64 }
type BoolLiteral struct{ Value bool }
type CharLiteral struct{ Value byte }
type StringLiteral struct{ Value string }

type Variable struct{ Name string }

type ArrayAccess struct {
	Name  string
	Index Expr
}

// UnaryOp covers both prefix (!x, ++x, --x) and postfix (x++, x--) forms;
// Prefix distinguishes them exactly as spec.md §3 requires.
type UnaryOp struct {
	Op      string
	Operand Expr
	Prefix  bool
}

type BinaryOp struct {
	Op    string
	Left  Expr
	Right Expr
}

// Assignment is an expression node, but the parser builds it only in
// statement position (x = e;, arr[i] = e;, and a for-loop update); it never
// appears nested inside another expression or as a declaration initializer.
type Assignment struct {
	Target Lvalue
	Value  Expr
}

func (*IntLiteral) node()    {}
func (*DoubleLiteral) node() {}
func (*BoolLiteral) node()   {}
func (*CharLiteral) node()   {}
func (*StringLiteral) node() {}
func (*Variable) node()      {}
func (*ArrayAccess) node()   {}
func (*UnaryOp) node()       {}
func (*BinaryOp) node()      {}
func (*Assignment) node()    {}

func (*Variable) lvalue()    {}
func (*ArrayAccess) lvalue() {}

func (n *IntLiteral) Accept(v ExprVisitor) interface{}    { return v.VisitIntLiteral(n) }
func (n *DoubleLiteral) Accept(v ExprVisitor) interface{} { return v.VisitDoubleLiteral(n) }
func (n *BoolLiteral) Accept(v ExprVisitor) interface{}   { return v.VisitBoolLiteral(n) }
func (n *CharLiteral) Accept(v ExprVisitor) interface{}   { return v.VisitCharLiteral(n) }
func (n *StringLiteral) Accept(v ExprVisitor) interface{} { return v.VisitStringLiteral(n) }
func (n *Variable) Accept(v ExprVisitor) interface{}      { return v.VisitVariable(n) }
func (n *ArrayAccess) Accept(v ExprVisitor) interface{}   { return v.VisitArrayAccess(n) }
func (n *UnaryOp) Accept(v ExprVisitor) interface{}       { return v.VisitUnaryOp(n) }
func (n *BinaryOp) Accept(v ExprVisitor) interface{}      { return v.VisitBinaryOp(n) }
func (n *Assignment) Accept(v ExprVisitor) interface{}    { return v.VisitAssignment(n) }

type ExprVisitor interface {
	VisitIntLiteral(*IntLiteral) interface{}
	VisitDoubleLiteral(*DoubleLiteral) interface{}
	VisitBoolLiteral(*BoolLiteral) interface{}
	VisitCharLiteral(*CharLiteral) interface{}
	VisitStringLiteral(*StringLiteral) interface{}
	VisitVariable(*Variable) interface{}
	VisitArrayAccess(*ArrayAccess) interface{}
	VisitUnaryOp(*UnaryOp) interface{}
	VisitBinaryOp(*BinaryOp) interface{}
	VisitAssignment(*Assignment) interface{}
}

// ---- Statements ----

// Declaration covers all four declaration forms of spec.md §4.2: plain,
// initialized, array, array-with-initializer-list.
type Declaration struct {
	Name        string
	BaseType    string // "int" | "char" | "double" | "bool"
	Init        Expr   // nil if no initializer
	IsArray     bool
	ArraySize   string // literal text; required to be an int literal when InitList is set
	InitList    []Expr // non-nil for `T arr[n] = {e1, e2, ...};`
}

type If struct {
	Cond Expr
	Then *Block
}

type IfElse struct {
	Cond Expr
	Then *Block
	Else *Block
}

type While struct {
	Cond Expr
	Body *Block
}

type For struct {
	Init   Stmt
	Cond   Expr
	Update Stmt
	Body   *Block
}

// Block is a sequence of statements introduced by { ... }.
type Block struct {
	Stmts []Stmt
}

// ExprStmt wraps an expression used in statement position (an assignment,
// or a prefix/postfix ++/-- used for effect).
type ExprStmt struct {
	Expr Expr
}

// Program is the whole translation unit: the top-level statement sequence
// inside `main`'s body.
type Program struct {
	Stmts []Stmt
}

func (*Declaration) node() {}
func (*If) node()          {}
func (*IfElse) node()      {}
func (*While) node()       {}
func (*For) node()         {}
func (*Block) node()       {}
func (*ExprStmt) node()    {}
func (*Program) node()     {}

func (n *Declaration) Accept(v StmtVisitor) interface{} { return v.VisitDeclaration(n) }
func (n *If) Accept(v StmtVisitor) interface{}          { return v.VisitIf(n) }
func (n *IfElse) Accept(v StmtVisitor) interface{}      { return v.VisitIfElse(n) }
func (n *While) Accept(v StmtVisitor) interface{}       { return v.VisitWhile(n) }
func (n *For) Accept(v StmtVisitor) interface{}         { return v.VisitFor(n) }
func (n *Block) Accept(v StmtVisitor) interface{}       { return v.VisitBlock(n) }
func (n *ExprStmt) Accept(v StmtVisitor) interface{}    { return v.VisitExprStmt(n) }
func (n *Program) Accept(v StmtVisitor) interface{}     { return v.VisitProgram(n) }

type StmtVisitor interface {
	VisitDeclaration(*Declaration) interface{}
	VisitIf(*If) interface{}
	VisitIfElse(*IfElse) interface{}
	VisitWhile(*While) interface{}
	VisitFor(*For) interface{}
	VisitBlock(*Block) interface{}
	VisitExprStmt(*ExprStmt) interface{}
	VisitProgram(*Program) interface{}
}
