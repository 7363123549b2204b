package lexer

import (
	"testing"

	"github.com/rmkhurana28/RM-C-Compilor/internal/token"
)

func TestScanBasicDeclaration(t *testing.T) {
	src := "{ int a = 5; int b = 10; }"

	tests := []struct {
		typ token.Type
		lex string
	}{
		{token.Int, "int"},
		{token.Ident, "a"},
		{token.Assign, "="},
		{token.IntLit, "5"},
		{token.Semi, ";"},
		{token.Int, "int"},
		{token.Ident, "b"},
		{token.Assign, "="},
		{token.IntLit, "10"},
		{token.Semi, ";"},
		{token.RBrace, "}"},
		{token.EOF, ""},
	}

	toks, err := New(src).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != len(tests) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tests), toks)
	}
	for i, tt := range tests {
		if toks[i].Type != tt.typ {
			t.Fatalf("token %d: type = %s, want %s", i, toks[i].Type, tt.typ)
		}
	}
}

func TestScanOperatorRuns(t *testing.T) {
	src := "{ a==b; a!=b; a<=b; a>=b; a&&b; a||b; a++; a--; a=b; }"
	toks, err := New(src).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []token.Type{
		token.Ident, token.Eq, token.Ident, token.Semi,
		token.Ident, token.NotEq, token.Ident, token.Semi,
		token.Ident, token.LE, token.Ident, token.Semi,
		token.Ident, token.GE, token.Ident, token.Semi,
		token.Ident, token.AndAnd, token.Ident, token.Semi,
		token.Ident, token.OrOr, token.Ident, token.Semi,
		token.Ident, token.Incr, token.Semi,
		token.Ident, token.Decr, token.Semi,
		token.Ident, token.Assign, token.Ident, token.Semi,
		token.RBrace, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: type = %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestScanDoubleLiteral(t *testing.T) {
	toks, err := New("{ double x = 3.14; }").Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, tk := range toks {
		if tk.Type == token.DoubleLit {
			found = true
			if tk.DoubleVal < 3.139 || tk.DoubleVal > 3.141 {
				t.Fatalf("double value = %v, want ~3.14", tk.DoubleVal)
			}
		}
	}
	if !found {
		t.Fatalf("no DOUBLE_LIT token produced")
	}
}

func TestUnterminatedStringIsSyntaxError(t *testing.T) {
	_, err := New(`{ "abc }`).Scan()
	if err == nil {
		t.Fatalf("expected a SyntaxError for unterminated string literal")
	}
}

func TestPreambleSkippedBeforeFirstBrace(t *testing.T) {
	src := "#include <stdio.h>\n// a comment\n/* block\ncomment */\nvoid main() {\n  int x;\n}"
	toks, err := New(src).Scan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Type != token.Int || toks[0].Lexeme != "int" {
		t.Fatalf("first token after preamble = %v, want int", toks[0])
	}
}
