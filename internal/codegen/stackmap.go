// Package codegen implements C7: translation of an optimized TAC stream
// into x86-64 AT&T assembly, using a flat per-variable/per-temp stack frame
// (spec.md §4.7). Every slot is one quadword; arrays occupy ArraySize
// contiguous quadwords starting at their own slot's offset.
package codegen

import (
	cerrors "github.com/rmkhurana28/RM-C-Compilor/internal/errors"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
	"github.com/rmkhurana28/RM-C-Compilor/internal/sema"
)

const slotSize = 8

// Slot describes one stack-resident name: its displacement from %rbp
// (always negative) and, for arrays, the number of quadwords it spans.
type Slot struct {
	Name   string
	Offset int
	Words  int
}

// StackMap assigns every symbol-table variable and every TAC temporary a
// unique, disjoint stack slot.
type StackMap struct {
	Slots     map[string]Slot
	FrameSize int
}

// BuildStackMap runs the two-pass allocation spec.md §4.7 describes: first
// every declared symbol-table variable (in declaration order, so the
// layout is deterministic and matches the report's symbol table listing),
// then every TAC temporary discovered by scanning the optimized stream in
// order of first occurrence. It rejects any double-typed symbol outright:
// this backend only has integer general-purpose registers, so a double
// that survives all the way to codegen is an internal error, not a
// silently-truncated float.
func BuildStackMap(table *sema.Table, stream []ir.Instr) (*StackMap, error) {
	m := &StackMap{Slots: map[string]Slot{}}
	offset := 0

	for _, sym := range table.Symbols {
		if sym.Type == sema.DoubleT {
			return nil, cerrors.NewCodegenError("variable %q has type double, which this backend cannot place in a general-purpose register", sym.Name)
		}
		words := 1
		if sym.IsArray {
			if sym.ArraySize <= 0 {
				return nil, cerrors.NewCodegenError("array %q has a non-positive size", sym.Name)
			}
			words = sym.ArraySize
		}
		offset -= slotSize * words
		m.Slots[sym.Name] = Slot{Name: sym.Name, Offset: offset, Words: words}
	}

	seen := map[string]bool{}
	var temps []string
	noteTemp := func(op string) {
		if op == "" || !ir.IsTemp(op) || seen[op] {
			return
		}
		seen[op] = true
		temps = append(temps, op)
	}
	for _, in := range stream {
		noteTemp(in.Result)
		noteTemp(in.Arg1)
		noteTemp(in.Arg2)
		noteTemp(in.Cond)
		noteTemp(in.Index)
		noteTemp(in.Value)
	}
	for _, t := range temps {
		offset -= slotSize
		m.Slots[t] = Slot{Name: t, Offset: offset, Words: 1}
	}

	frame := -offset
	if rem := frame % 16; rem != 0 {
		frame += 16 - rem
	}
	m.FrameSize = frame
	return m, nil
}
