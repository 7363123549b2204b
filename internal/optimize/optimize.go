package optimize

import (
	"github.com/rmkhurana28/RM-C-Compilor/internal/cfg"
	cerrors "github.com/rmkhurana28/RM-C-Compilor/internal/errors"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
)

// maxOuterPasses bounds the alternation between propagation and dead-code
// elimination. The cap is a fixed 64 passes whatever the stream length,
// and hitting it is treated as an internal error rather than returning a
// partially optimized stream silently.
const maxOuterPasses = 64

// Result bundles the optimized stream with before/after counts for the
// report's reduction-statistics line.
type Result struct {
	Optimized []ir.Instr
	Before    int
	After     int
	Passes    int
}

// Optimize alternates constant/copy propagation+folding (pass A) with
// dead-code elimination (pass B) until neither changes the stream.
func Optimize(stream []ir.Instr) (*Result, error) {
	before := len(stream)
	current := stream
	namedVars := namedVariables(stream)
	passes := 0
	for ; passes < maxOuterPasses; passes++ {
		blocksIn := cfg.Build(current).Blocks
		grouped := make([][]ir.Instr, len(blocksIn))
		for i, b := range blocksIn {
			grouped[i] = b.Instrs
		}
		afterProp, changedA := propagate(grouped)
		current = flatten(afterProp)

		g2 := cfg.Build(current)
		if err := cfg.LiveVariables(g2, namedVars); err != nil {
			return nil, err
		}
		afterDCE, changedB := eliminate(g2)
		current = flatten(afterDCE)

		if !changedA && !changedB {
			return &Result{Optimized: current, Before: before, After: len(current), Passes: passes + 1}, nil
		}
	}
	return nil, cerrors.NewOptError("optimizer failed to reach a fixed point within %d passes", maxOuterPasses)
}

func flatten(blocks [][]ir.Instr) []ir.Instr {
	var out []ir.Instr
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// namedVariables collects every declared (non-temporary) name this stream
// ever defines. Named stack variables hold the compiled program's final
// observable state, so dead-code elimination treats them as live at every
// program exit point; see cfg.LiveVariables's alwaysLive parameter.
func namedVariables(stream []ir.Instr) cfg.Set[string] {
	names := cfg.NewSet[string]()
	for _, in := range stream {
		if name, ok := in.ReachingDefName(); ok && !ir.IsTemp(name) {
			names.Add(name)
		}
	}
	return names
}
