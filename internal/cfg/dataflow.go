package cfg

import (
	cerrors "github.com/rmkhurana28/RM-C-Compilor/internal/errors"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
)

// maxFixedPointExtra bounds the iterative dataflow solvers below. A
// monotone set-transfer system over a CFG with B blocks stabilizes within
// B+1 passes in the worst case (one pass per block on the longest acyclic
// chain, plus one to observe no change); each solver caps its passes at
// B+maxFixedPointExtra as headroom for the cyclic loops this language's
// WHILE/FOR actually produce, and treats exceeding it as an internal error
// rather than silently returning a partial, unconverged result.
const maxFixedPointExtra = 8

// ReachingDefinitions runs the forward GEN/KILL/IN/OUT solver of spec.md
// §4.5, identifying each definition by the index of its instruction in the
// original stream.
func ReachingDefinitions(g *Graph) error {
	allDefs := map[string][]int{}
	for i, instr := range g.Stream {
		if name, ok := instr.ReachingDefName(); ok {
			allDefs[name] = append(allDefs[name], i)
		}
	}

	for _, b := range g.Blocks {
		gen := NewSet[int]()
		definedHere := map[string]bool{}
		for i, instr := range b.Instrs {
			if name, ok := instr.ReachingDefName(); ok {
				// A later definition of the same name within this block
				// supersedes an earlier one for GEN purposes.
				for other := range gen {
					if sameDefName(g.Stream[other], name) {
						delete(gen, other)
					}
				}
				gen.Add(b.Start + i)
				definedHere[name] = true
			}
		}
		kill := NewSet[int]()
		for name := range definedHere {
			for _, d := range allDefs[name] {
				if !gen.Has(d) {
					kill.Add(d)
				}
			}
		}
		b.ReachIn = NewSet[int]()
		b.ReachOut = gen
		b.reachGen = gen
		b.reachKill = kill
	}

	passCap := len(g.Blocks) + maxFixedPointExtra
	for pass := 0; ; pass++ {
		if pass > passCap {
			return cerrors.NewOptError("reaching-definitions solver failed to converge within %d passes", passCap)
		}
		changed := false
		for _, b := range g.Blocks {
			in := NewSet[int]()
			for _, p := range b.Preds {
				in = in.Union(g.Blocks[p].ReachOut)
			}
			out := b.reachGen.Union(in.Minus(b.reachKill))
			if !in.Equal(b.ReachIn) || !out.Equal(b.ReachOut) {
				changed = true
			}
			b.ReachIn = in
			b.ReachOut = out
		}
		if !changed {
			return nil
		}
	}
}

// LiveVariables runs the backward GEN/KILL/IN/OUT solver of spec.md §4.5.
// alwaysLive seeds the LiveOut of every block with no successor (a program
// exit point): named stack variables hold the compiled program's final
// observable state, so they are conservatively treated as live there even
// when nothing inside this translation unit reads them again. Compiler
// temporaries are never part of alwaysLive and remain fully eligible for
// dead-code elimination.
func LiveVariables(g *Graph, alwaysLive Set[string]) error {
	for _, b := range g.Blocks {
		gen := NewSet[string]()
		kill := NewSet[string]()
		for _, instr := range b.Instrs {
			for _, used := range instr.UsedOperands() {
				if !kill.Has(used) {
					gen.Add(used)
				}
			}
			if name, ok := instr.LiveKillName(); ok {
				kill.Add(name)
			}
		}
		b.LiveIn = gen
		b.LiveOut = NewSet[string]()
		b.liveGen = gen
		b.liveKill = kill
	}

	passCap := len(g.Blocks) + maxFixedPointExtra
	for pass := 0; ; pass++ {
		if pass > passCap {
			return cerrors.NewOptError("live-variable solver failed to converge within %d passes", passCap)
		}
		changed := false
		for _, b := range g.Blocks {
			out := NewSet[string]()
			for _, s := range b.Succs {
				out = out.Union(g.Blocks[s].LiveIn)
			}
			if len(b.Succs) == 0 {
				out = out.Union(alwaysLive)
			}
			in := b.liveGen.Union(out.Minus(b.liveKill))
			if !out.Equal(b.LiveOut) || !in.Equal(b.LiveIn) {
				changed = true
			}
			b.LiveOut = out
			b.LiveIn = in
		}
		if !changed {
			return nil
		}
	}
}

func sameDefName(i ir.Instr, name string) bool {
	n, ok := i.ReachingDefName()
	return ok && n == name
}
