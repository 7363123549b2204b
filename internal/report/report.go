// Package report renders the nine human-readable sections a compiler run
// produces (SPEC_FULL.md §6): tokens, AST, semantic analysis, TAC, CFG,
// basic blocks with their dataflow sets, optimized TAC with reduction
// stats, x86-64 assembly, and a closing compilation summary.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rmkhurana28/RM-C-Compilor/internal/ast"
	"github.com/rmkhurana28/RM-C-Compilor/internal/compileunit"
)

func banner(w *strings.Builder, title string) {
	line := strings.Repeat("=", 78)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, line)
}

// Render produces the full compiler_output.txt contents for a completed
// (or partially completed, up to the phase that ran) CompilationUnit.
func Render(u *compileunit.Unit) string {
	var w strings.Builder

	renderTokens(&w, u)
	renderAST(&w, u)
	renderSemantic(&w, u)
	renderTAC(&w, u)
	renderCFG(&w, u)
	renderBlocks(&w, u)
	renderOptimized(&w, u)
	renderAssembly(&w, u)
	renderSummary(&w, u)

	return w.String()
}

func renderTokens(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 1: LEXICAL ANALYSIS — TOKEN STREAM")
	for _, t := range u.Tokens {
		fmt.Fprintf(w, "%4d:%-3d %-12s %s\n", t.Line, t.Col, t.Type, t.Lexeme)
	}
	fmt.Fprintln(w)
}

func renderAST(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 2: SYNTAX ANALYSIS — ABSTRACT SYNTAX TREE")
	if u.Program != nil {
		w.WriteString(ast.Print(u.Program))
	}
	fmt.Fprintln(w)
}

func renderSemantic(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 3: SEMANTIC ANALYSIS — SYMBOL TABLE & WARNINGS")
	if u.Table != nil {
		fmt.Fprintf(w, "%-16s %-8s %-6s %-8s %s\n", "NAME", "TYPE", "ARRAY", "BLOCK", "SCOPE")
		for _, s := range u.Table.Symbols {
			fmt.Fprintf(w, "%-16s %-8s %-6v %-8d %d\n", s.Name, s.Type, s.IsArray, s.BlockID, s.ScopeDepth)
		}
	}
	fmt.Fprintln(w)
	if len(u.Warnings) == 0 {
		fmt.Fprintln(w, "(no warnings)")
	}
	for _, warning := range u.Warnings {
		fmt.Fprintln(w, warning.String())
	}
	fmt.Fprintln(w)
}

func renderTAC(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 4: IR LOWERING — THREE-ADDRESS CODE")
	for i, in := range u.TAC {
		fmt.Fprintf(w, "%4d: %s\n", i, in.String())
	}
	fmt.Fprintln(w)
}

func renderCFG(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 5: CONTROL-FLOW GRAPH")
	if u.Graph == nil {
		fmt.Fprintln(w)
		return
	}
	for _, b := range u.Graph.Blocks {
		fmt.Fprintf(w, "B%d: preds=%v succs=%v\n", b.ID, b.Preds, b.Succs)
	}
	fmt.Fprintln(w)
}

func renderBlocks(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 6: BASIC BLOCKS — DATAFLOW SETS")
	if u.Graph == nil {
		fmt.Fprintln(w)
		return
	}
	for _, b := range u.Graph.Blocks {
		fmt.Fprintf(w, "B%d:\n", b.ID)
		for i, in := range b.Instrs {
			fmt.Fprintf(w, "    %4d: %s\n", b.Start+i, in.String())
		}
		fmt.Fprintf(w, "    LiveIn:  %s\n", sortedJoin(b.LiveIn.Keys()))
		fmt.Fprintf(w, "    LiveOut: %s\n", sortedJoin(b.LiveOut.Keys()))
		fmt.Fprintf(w, "    ReachIn:  %d definitions\n", len(b.ReachIn))
		fmt.Fprintf(w, "    ReachOut: %d definitions\n", len(b.ReachOut))
	}
	fmt.Fprintln(w)
}

func renderOptimized(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 7: OPTIMIZATION — FOLDED / PROPAGATED TAC")
	if u.Opt == nil {
		fmt.Fprintln(w)
		return
	}
	for i, in := range u.Opt.Optimized {
		fmt.Fprintf(w, "%4d: %s\n", i, in.String())
	}
	reduced := u.Opt.Before - u.Opt.After
	pct := 0.0
	if u.Opt.Before > 0 {
		pct = 100 * float64(reduced) / float64(u.Opt.Before)
	}
	fmt.Fprintf(w, "\n%d -> %d instructions (%.1f%% reduction) in %s\n",
		u.Opt.Before, u.Opt.After, pct, humanize.Comma(int64(u.Opt.Passes))+" pass(es)")
	fmt.Fprintln(w)
}

func renderAssembly(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 8: CODE GENERATION — X86-64 ASSEMBLY")
	if u.Code != nil {
		w.WriteString(u.Code.Assembly)
	}
	fmt.Fprintln(w)
}

func renderSummary(w *strings.Builder, u *compileunit.Unit) {
	banner(w, "SECTION 9: COMPILATION SUMMARY")
	fmt.Fprintf(w, "Run ID:       %s\n", u.RunID)
	fmt.Fprintf(w, "Source:       %s\n", u.SourcePath)
	fmt.Fprintf(w, "Output:       %s\n", u.OutputPath)
	fmt.Fprintf(w, "Source size:  %s\n", humanize.Bytes(uint64(len(u.Source))))
	fmt.Fprintf(w, "Tokens:       %s\n", humanize.Comma(int64(len(u.Tokens))))
	fmt.Fprintf(w, "Warnings:     %s\n", humanize.Comma(int64(len(u.Warnings))))
	if u.Table != nil {
		fmt.Fprintf(w, "Symbols:      %s\n", humanize.Comma(int64(len(u.Table.Symbols))))
	}
	fmt.Fprintf(w, "TAC (pre-opt):  %s\n", humanize.Comma(int64(len(u.TAC))))
	if u.Opt != nil {
		fmt.Fprintf(w, "TAC (post-opt): %s\n", humanize.Comma(int64(u.Opt.After)))
	}
	if u.Code != nil {
		fmt.Fprintf(w, "Stack frame:    %s\n", humanize.Bytes(uint64(u.Code.Stack.FrameSize)))
	}
	fmt.Fprintf(w, "Elapsed:      %s\n", humanize.RelTime(u.StartedAt, u.FinishedAt, "", ""))
}

func sortedJoin(items []string) string {
	if len(items) == 0 {
		return "(empty)"
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}
