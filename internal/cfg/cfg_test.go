package cfg_test

import (
	"testing"

	"github.com/rmkhurana28/RM-C-Compilor/internal/cfg"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
	"github.com/rmkhurana28/RM-C-Compilor/internal/lexer"
	"github.com/rmkhurana28/RM-C-Compilor/internal/parser"
)

func buildFromSource(t *testing.T, src string) *cfg.Graph {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	stream := ir.Lower(prog)
	return cfg.Build(stream)
}

func TestBuildStraightLineIsOneBlock(t *testing.T) {
	g := buildFromSource(t, "{ int a = 5; int b = 10; int c = a + b; }")
	if len(g.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1 for straight-line code", len(g.Blocks))
	}
}

func TestBuildIfElseProducesBranchingEdges(t *testing.T) {
	g := buildFromSource(t, "{ int a = 1; if (a == 1) { a = 2; } else { a = 3; } }")
	if len(g.Blocks) < 3 {
		t.Fatalf("got %d blocks, want at least 3 for an if/else", len(g.Blocks))
	}
	entry := g.Blocks[0]
	if len(entry.Succs) != 2 {
		t.Fatalf("entry block has %d successors, want 2 (then/else)", len(entry.Succs))
	}
}

func TestBuildWhileLoopHasBackEdge(t *testing.T) {
	g := buildFromSource(t, "{ int i = 0; while (i < 3) { i = i + 1; } }")
	found := false
	for _, b := range g.Blocks {
		for _, s := range b.Succs {
			if s <= b.ID {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected at least one back edge for the while loop")
	}
}

func TestReachingDefinitionsConverges(t *testing.T) {
	g := buildFromSource(t, "{ int i = 0; while (i < 3) { i = i + 1; } }")
	if err := cfg.ReachingDefinitions(g); err != nil {
		t.Fatalf("ReachingDefinitions: %v", err)
	}
	for _, b := range g.Blocks {
		if b.ReachOut == nil {
			t.Fatalf("block %d has nil ReachOut after solving", b.ID)
		}
	}
}

func TestLiveVariablesConverges(t *testing.T) {
	g := buildFromSource(t, "{ int a = 1; int b = 2; int c = a + b; }")
	if err := cfg.LiveVariables(g, cfg.NewSet[string]()); err != nil {
		t.Fatalf("LiveVariables: %v", err)
	}
	entry := g.Blocks[0]
	if entry.LiveIn.Has("a") {
		t.Fatalf("LiveIn of the entry block should not require 'a' before it is declared")
	}
}

func TestDeadDeclarationIsLiveOutFalse(t *testing.T) {
	g := buildFromSource(t, "{ int a = 1; int b = 2; }")
	if err := cfg.LiveVariables(g, cfg.NewSet[string]()); err != nil {
		t.Fatalf("LiveVariables: %v", err)
	}
	entry := g.Blocks[0]
	if entry.LiveOut.Has("a") || entry.LiveOut.Has("b") {
		t.Fatalf("neither a nor b is used after declaration; LiveOut should be empty of them")
	}
}
