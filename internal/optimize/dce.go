package optimize

import (
	"github.com/rmkhurana28/RM-C-Compilor/internal/cfg"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
)

// eliminate drops instructions whose result is not live at the point it is
// defined. ARRAY_READ and ARRAY_WRITE are never removed (spec.md §4.6:
// "array mutation is never dead"), and GOTO/IFFALSE/IFTRUE/LABEL have no
// result to judge so they always survive.
func eliminate(g *cfg.Graph) ([][]ir.Instr, bool) {
	changed := false
	out := make([][]ir.Instr, len(g.Blocks))
	for bi, b := range g.Blocks {
		live := b.LiveOut.Clone()
		kept := make([]ir.Instr, 0, len(b.Instrs))
		for i := len(b.Instrs) - 1; i >= 0; i-- {
			instr := b.Instrs[i]
			if instr.IsNeverDead() {
				kept = append(kept, instr)
				for _, u := range instr.UsedOperands() {
					live.Add(u)
				}
				continue
			}
			name, isDef := instr.LiveKillName()
			if isDef && !live.Has(name) {
				changed = true
				continue
			}
			kept = append(kept, instr)
			if isDef {
				delete(live, name)
			}
			for _, u := range instr.UsedOperands() {
				live.Add(u)
			}
		}
		for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
			kept[l], kept[r] = kept[r], kept[l]
		}
		out[bi] = kept
	}
	return out, changed
}
