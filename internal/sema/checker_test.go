package sema

import (
	"testing"

	cerrors "github.com/rmkhurana28/RM-C-Compilor/internal/errors"
	"github.com/rmkhurana28/RM-C-Compilor/internal/lexer"
	"github.com/rmkhurana28/RM-C-Compilor/internal/parser"
)

func checkString(t *testing.T, src string) (*Table, []cerrors.Warning, error) {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Check(prog)
}

func assertSemanticErrorCode(t *testing.T, src, wantCode string) {
	t.Helper()
	_, _, err := checkString(t, src)
	if err == nil {
		t.Fatalf("%s: expected a semantic error, got none", src)
	}
	ce, ok := err.(*cerrors.CompilerError)
	if !ok {
		t.Fatalf("%s: got error of type %T, want *cerrors.CompilerError", src, err)
	}
	if ce.Code != wantCode {
		t.Fatalf("%s: got code %q, want %q (%v)", src, ce.Code, wantCode, err)
	}
}

func TestDivisionByIntLiteralZeroIsRejected(t *testing.T) {
	assertSemanticErrorCode(t, "{ int a; a = 1 / 0; }", "03.51")
}

func TestDivisionByDoubleLiteralZeroIsRejected(t *testing.T) {
	assertSemanticErrorCode(t, "{ double d; d = 1.0 / 0.0; }", "03.55")
}

func TestDivisionByNonZeroLiteralIsAllowed(t *testing.T) {
	if _, _, err := checkString(t, "{ int a; a = 1 / 2; }"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDivisionByVariableIsNotFlaggedAsLiteralZero(t *testing.T) {
	if _, _, err := checkString(t, "{ int a; int b; a = a / b; }"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
