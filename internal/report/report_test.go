package report_test

import (
	"strings"
	"testing"

	"github.com/rmkhurana28/RM-C-Compilor/internal/cfg"
	"github.com/rmkhurana28/RM-C-Compilor/internal/codegen"
	"github.com/rmkhurana28/RM-C-Compilor/internal/compileunit"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
	"github.com/rmkhurana28/RM-C-Compilor/internal/lexer"
	"github.com/rmkhurana28/RM-C-Compilor/internal/optimize"
	"github.com/rmkhurana28/RM-C-Compilor/internal/parser"
	"github.com/rmkhurana28/RM-C-Compilor/internal/report"
	"github.com/rmkhurana28/RM-C-Compilor/internal/sema"
)

func fullUnit(t *testing.T, src string) *compileunit.Unit {
	t.Helper()
	u := compileunit.New("fixture.rmc", "compiler_output.txt", src)

	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	u.Tokens = toks

	prog, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	u.Program = prog

	table, warnings, err := sema.Check(prog)
	if err != nil {
		t.Fatalf("sema: %v", err)
	}
	u.Table = table
	u.Warnings = warnings

	u.TAC = ir.Lower(prog)
	u.Graph = cfg.Build(u.TAC)

	opt, err := optimize.Optimize(u.TAC)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	u.Opt = opt

	code, err := codegen.Generate(table, opt.Optimized)
	if err != nil {
		t.Fatalf("codegen: %v", err)
	}
	u.Code = code

	u.Finish()
	return u
}

func TestRenderIncludesAllNineSections(t *testing.T) {
	u := fullUnit(t, "{ int a = 5; int b = 10; int c = a + b; }")
	out := report.Render(u)

	for _, want := range []string{
		"SECTION 1: LEXICAL ANALYSIS",
		"SECTION 2: SYNTAX ANALYSIS",
		"SECTION 3: SEMANTIC ANALYSIS",
		"SECTION 4: IR LOWERING",
		"SECTION 5: CONTROL-FLOW GRAPH",
		"SECTION 6: BASIC BLOCKS",
		"SECTION 7: OPTIMIZATION",
		"SECTION 8: CODE GENERATION",
		"SECTION 9: COMPILATION SUMMARY",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestRenderSummaryReportsRunMetadata(t *testing.T) {
	u := fullUnit(t, "{ int a = 1; }")
	out := report.Render(u)

	if !strings.Contains(out, u.RunID) {
		t.Fatalf("summary should contain the run id %q:\n%s", u.RunID, out)
	}
	if !strings.Contains(out, "fixture.rmc") {
		t.Fatalf("summary should contain the source path:\n%s", out)
	}
}

func TestRenderArrayProgramShowsDataflowSets(t *testing.T) {
	u := fullUnit(t, "{ int arr[3] = {1, 2, 3}; int i = 0; while (i < 3) { i = i + 1; } }")
	out := report.Render(u)

	if !strings.Contains(out, "LiveIn:") || !strings.Contains(out, "LiveOut:") {
		t.Fatalf("basic-block section should print dataflow sets:\n%s", out)
	}
}

func TestRenderToleratesMissingLatePhases(t *testing.T) {
	u := compileunit.New("partial.rmc", "compiler_output.txt", "{ int a = 1; }")
	toks, err := lexer.New(u.Source).Scan()
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	u.Tokens = toks

	// Stop after lexing: Program/Table/TAC/Graph/Opt/Code are all nil, as
	// they would be for a run that failed at C2. Render must not panic.
	out := report.Render(u)
	if !strings.Contains(out, "SECTION 9: COMPILATION SUMMARY") {
		t.Fatalf("expected a summary section even for a partial run:\n%s", out)
	}
}
