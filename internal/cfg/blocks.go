// Package cfg builds the basic-block graph (C5) from a TAC stream and runs
// the two forward/backward dataflow analyses spec.md §4.5 drives the
// optimizer from: reaching definitions and live variables.
package cfg

import "github.com/rmkhurana28/RM-C-Compilor/internal/ir"

// Block is one maximal straight-line run of TAC instructions: no jump into
// its middle, no jump out except from its last instruction.
type Block struct {
	ID       int
	Start    int // index into the original stream of the block's first instruction
	Instrs   []ir.Instr
	Succs    []int
	Preds    []int
	ReachIn  Set[int]
	ReachOut Set[int]
	LiveIn   Set[string]
	LiveOut  Set[string]

	reachGen  Set[int]
	reachKill Set[int]
	liveGen   Set[string]
	liveKill  Set[string]
}

// Graph is the full basic-block CFG for one TAC stream.
type Graph struct {
	Blocks []*Block
	Stream []ir.Instr
}

// Build partitions stream into basic blocks and wires successor/predecessor
// edges, following the standard leader algorithm: a leader is the first
// instruction, any LABEL (a block can only be entered at its start), and
// any instruction immediately following a GOTO/IFFALSE/IFTRUE.
func Build(stream []ir.Instr) *Graph {
	if len(stream) == 0 {
		return &Graph{Stream: stream}
	}
	leaders := map[int]bool{0: true}
	for i, instr := range stream {
		switch instr.Op {
		case ir.Goto, ir.IfFalse, ir.IfTrue:
			if i+1 < len(stream) {
				leaders[i+1] = true
			}
		case ir.Label:
			leaders[i] = true
		}
	}

	var starts []int
	for idx := range leaders {
		starts = append(starts, idx)
	}
	sortInts(starts)

	g := &Graph{Stream: stream}
	labelBlock := map[string]int{}
	for bi, start := range starts {
		end := len(stream)
		if bi+1 < len(starts) {
			end = starts[bi+1]
		}
		b := &Block{ID: bi, Start: start, Instrs: stream[start:end]}
		g.Blocks = append(g.Blocks, b)
		if len(b.Instrs) > 0 && b.Instrs[0].Op == ir.Label {
			labelBlock[b.Instrs[0].Label] = bi
		}
	}

	for bi, b := range g.Blocks {
		if len(b.Instrs) == 0 {
			continue
		}
		last := b.Instrs[len(b.Instrs)-1]
		switch last.Op {
		case ir.Goto:
			g.addEdge(bi, labelBlock[last.Label])
		case ir.IfFalse, ir.IfTrue:
			g.addEdge(bi, labelBlock[last.Label])
			if bi+1 < len(g.Blocks) {
				g.addEdge(bi, bi+1)
			}
		default:
			if bi+1 < len(g.Blocks) {
				g.addEdge(bi, bi+1)
			}
		}
	}
	return g
}

func (g *Graph) addEdge(from, to int) {
	g.Blocks[from].Succs = append(g.Blocks[from].Succs, to)
	g.Blocks[to].Preds = append(g.Blocks[to].Preds, from)
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
