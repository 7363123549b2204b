package parser

import (
	"testing"

	"github.com/rmkhurana28/RM-C-Compilor/internal/ast"
	"github.com/rmkhurana28/RM-C-Compilor/internal/lexer"
)

func parseString(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func assertParseError(t *testing.T, src, description string) {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err == nil {
		_, err = New(toks).Parse()
	}
	if err == nil {
		t.Fatalf("%s: expected a parse error, got none", description)
	}
}

func TestParseSimpleDeclarations(t *testing.T) {
	prog := parseString(t, "{ int a = 5; int b = 10; int c = a + b; }")
	if len(prog.Stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Stmts))
	}
	for i, s := range prog.Stmts {
		if _, ok := s.(*ast.Declaration); !ok {
			t.Fatalf("stmt %d: got %T, want *ast.Declaration", i, s)
		}
	}
}

func TestParseArrayDeclarationWithInitList(t *testing.T) {
	prog := parseString(t, "{ int arr[3] = {1, 2, 3}; }")
	decl := prog.Stmts[0].(*ast.Declaration)
	if !decl.IsArray || len(decl.InitList) != 3 {
		t.Fatalf("got %+v, want array decl with 3-element init list", decl)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parseString(t, "{ int a = 1; if (a == 1) { a = 2; } else { a = 3; } }")
	if _, ok := prog.Stmts[1].(*ast.IfElse); !ok {
		t.Fatalf("got %T, want *ast.IfElse", prog.Stmts[1])
	}
}

func TestParseForLoopWithArrayAccess(t *testing.T) {
	prog := parseString(t, "{ int arr[3] = {1,2,3}; int s = 0; for (int i = 0; i < 3; i = i + 1) { s = s + arr[i]; } }")
	forStmt, ok := prog.Stmts[2].(*ast.For)
	if !ok {
		t.Fatalf("got %T, want *ast.For", prog.Stmts[2])
	}
	body := forStmt.Body.Stmts[0].(*ast.ExprStmt)
	assign := body.Expr.(*ast.Assignment)
	bin := assign.Value.(*ast.BinaryOp)
	if _, ok := bin.Right.(*ast.ArrayAccess); !ok {
		t.Fatalf("rhs of s = s + arr[i] should end in an ArrayAccess, got %T", bin.Right)
	}
}

func TestParsePrecedenceClimbing(t *testing.T) {
	prog := parseString(t, "{ int a = 1; int b = 2; int c = a + b * 2; }")
	decl := prog.Stmts[2].(*ast.Declaration)
	top := decl.Init.(*ast.BinaryOp)
	if top.Op != "+" {
		t.Fatalf("top operator = %s, want +", top.Op)
	}
	if _, ok := top.Right.(*ast.BinaryOp); !ok {
		t.Fatalf("right side of + should be the * subexpression, got %T", top.Right)
	}
}

func TestNestedAssignmentIsRejected(t *testing.T) {
	assertParseError(t, "{ int a; int b; a = (b = 3); }", "assignment used as an expression operand")
}

func TestForUpdateRejectsNot(t *testing.T) {
	assertParseError(t, "{ for (int i = 0; i < 3; !i) { } }", "'!' is not valid in a for-loop update clause")
}

func TestUnterminatedBlockIsParseError(t *testing.T) {
	assertParseError(t, "{ int a = 1;", "missing closing brace")
}

func TestArraySizeAcceptsVariableName(t *testing.T) {
	prog := parseString(t, "{ int n; int arr[n]; }")
	decl := prog.Stmts[1].(*ast.Declaration)
	if !decl.IsArray || decl.ArraySize != "n" {
		t.Fatalf("got %+v, want array decl with size \"n\"", decl)
	}
}

func TestArraySizeRejectsMultiTokenExpression(t *testing.T) {
	assertParseError(t, "{ int n; int arr[n+1]; }", "array size must be a single token, not an expression")
}
