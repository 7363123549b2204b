package ir_test

import (
	"testing"

	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
	"github.com/rmkhurana28/RM-C-Compilor/internal/lexer"
	"github.com/rmkhurana28/RM-C-Compilor/internal/parser"
)

func lowerSource(t *testing.T, src string) []ir.Instr {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return ir.Lower(prog)
}

func TestLowerSimpleDeclarationsEndInAssigns(t *testing.T) {
	stream := lowerSource(t, "{ int a = 5; int b = 10; int c = a + b; }")
	var assignsTo = map[string]bool{}
	for _, in := range stream {
		if in.Op == ir.Assign && !ir.IsTemp(in.Result) {
			assignsTo[in.Result] = true
		}
	}
	for _, name := range []string{"a", "b", "c"} {
		if !assignsTo[name] {
			t.Fatalf("expected a final ASSIGN targeting %q, stream: %v", name, stream)
		}
	}
}

func TestLowerUninitializedDeclarationEmitsNothing(t *testing.T) {
	stream := lowerSource(t, "{ int x; }")
	if len(stream) != 0 {
		t.Fatalf("got %d instructions for bare declaration, want 0: %v", len(stream), stream)
	}
}

func TestLowerArrayInitListEmitsArrayWrites(t *testing.T) {
	stream := lowerSource(t, "{ int arr[3] = {1, 2, 3}; }")
	count := 0
	for _, in := range stream {
		if in.Op == ir.ArrayWrite && in.Array == "arr" {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("got %d ARRAY_WRITE to arr, want 3: %v", count, stream)
	}
}

func TestLowerIfElseProducesTwoLabelsAndAGoto(t *testing.T) {
	stream := lowerSource(t, "{ int a = 1; if (a == 1) { a = 2; } else { a = 3; } }")
	var labels, gotos, iffalses int
	for _, in := range stream {
		switch in.Op {
		case ir.Label:
			labels++
		case ir.Goto:
			gotos++
		case ir.IfFalse:
			iffalses++
		}
	}
	if labels != 2 || gotos != 1 || iffalses != 1 {
		t.Fatalf("got labels=%d gotos=%d iffalses=%d, want 2/1/1: %v", labels, gotos, iffalses, stream)
	}
}

func TestLowerWhileLoopsBackToTopLabel(t *testing.T) {
	stream := lowerSource(t, "{ int i = 0; while (i < 3) { i = i + 1; } }")
	last := stream[len(stream)-2] // GOTO precedes the trailing end label
	if last.Op != ir.Goto {
		t.Fatalf("expected GOTO before the loop's end label, got %v", last)
	}
}

func TestLowerPostfixIncrementReturnsOldValue(t *testing.T) {
	stream := lowerSource(t, "{ int i = 0; int j = i++; }")
	var sawWriteback bool
	for _, in := range stream {
		if in.Op == ir.Assign && in.Result == "i" {
			sawWriteback = true
		}
	}
	if !sawWriteback {
		t.Fatalf("expected a write-back ASSIGN to i from the postfix increment: %v", stream)
	}
	var oldValue, jSource string
	for _, in := range stream {
		if in.Op == ir.Binop && in.Operator == "+" {
			oldValue = in.Arg1
		}
		if in.Op == ir.Assign && in.Result == "j" {
			jSource = in.Arg1
		}
	}
	if jSource == "" || jSource != oldValue {
		t.Fatalf("j should be assigned the pre-increment value %q, got %q: %v", oldValue, jSource, stream)
	}
}

func TestLowerArrayReadNeverDead(t *testing.T) {
	stream := lowerSource(t, "{ int arr[2] = {1,2}; int x = arr[0]; }")
	for _, in := range stream {
		if in.Op == ir.ArrayRead && !in.IsNeverDead() {
			t.Fatalf("ARRAY_READ must report IsNeverDead() == true")
		}
	}
}
