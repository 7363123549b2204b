package codegen_test

import (
	"strings"
	"testing"

	"github.com/rmkhurana28/RM-C-Compilor/internal/codegen"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
	"github.com/rmkhurana28/RM-C-Compilor/internal/lexer"
	"github.com/rmkhurana28/RM-C-Compilor/internal/optimize"
	"github.com/rmkhurana28/RM-C-Compilor/internal/parser"
	"github.com/rmkhurana28/RM-C-Compilor/internal/sema"
)

func compileFixture(t *testing.T, src string) (*sema.Table, []ir.Instr) {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	table, _, err := sema.Check(prog)
	if err != nil {
		t.Fatalf("semantic error: %v", err)
	}
	stream := ir.Lower(prog)
	res, err := optimize.Optimize(stream)
	if err != nil {
		t.Fatalf("optimize error: %v", err)
	}
	return table, res.Optimized
}

func TestGenerateEmitsPrologueAndEpilogue(t *testing.T) {
	table, stream := compileFixture(t, "{ int a = 5; int b = 10; int c = a + b; }")
	res, err := codegen.Generate(table, stream)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{"main:", "pushq %rbp", "movq %rsp, %rbp", "popq %rbp", "ret"} {
		if !strings.Contains(res.Assembly, want) {
			t.Fatalf("assembly missing %q:\n%s", want, res.Assembly)
		}
	}
}

func TestGenerateRejectsDoubleVariables(t *testing.T) {
	table, stream := compileFixture(t, "{ double d = 1; }")
	_, err := codegen.Generate(table, stream)
	if err == nil {
		t.Fatalf("expected a CodegenError for a double-typed variable reaching codegen")
	}
}

func TestGenerateFrameSizeIsSixteenByteAligned(t *testing.T) {
	table, stream := compileFixture(t, "{ int a = 1; int b = 2; int c = 3; }")
	res, err := codegen.Generate(table, stream)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Stack.FrameSize%16 != 0 {
		t.Fatalf("frame size %d is not 16-byte aligned", res.Stack.FrameSize)
	}
}

func TestGenerateArrayWriteUsesScaledIndexAddressing(t *testing.T) {
	table, stream := compileFixture(t, "{ int arr[3] = {1, 2, 3}; }")
	res, err := codegen.Generate(table, stream)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(res.Assembly, "(%rbp,%rcx,8)") {
		t.Fatalf("expected scaled-index array addressing in:\n%s", res.Assembly)
	}
}
