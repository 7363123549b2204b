package codegen

import (
	"strconv"
	"strings"

	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
	"github.com/rmkhurana28/RM-C-Compilor/internal/sema"
)

// Result is the generated assembly text plus the stack map that produced
// it, kept around so the report (SPEC_FULL.md §6) can print the frame
// size alongside the listing.
type Result struct {
	Assembly string
	Stack    *StackMap
}

// Generate lowers an optimized TAC stream to a single x86-64 AT&T function
// named main, per spec.md §4.7: push/move/sub prologue, one instruction
// group per TAC instruction, then a fixed epilogue that always returns 0.
func Generate(table *sema.Table, stream []ir.Instr) (*Result, error) {
	m, err := BuildStackMap(table, stream)
	if err != nil {
		return nil, err
	}

	e := &emitter{m: m}
	for _, in := range stream {
		if err := e.emitInstr(in); err != nil {
			return nil, err
		}
	}

	var out strings.Builder
	out.WriteString(".text\n")
	out.WriteString(".globl main\n")
	out.WriteString("main:\n")
	out.WriteString("\tpushq %rbp\n")
	out.WriteString("\tmovq %rsp, %rbp\n")
	if m.FrameSize > 0 {
		out.WriteString("\tsubq $" + strconv.Itoa(m.FrameSize) + ", %rsp\n")
	}
	for _, line := range e.asm {
		out.WriteString(line)
		out.WriteString("\n")
	}
	out.WriteString("\tmovq $0, %rax\n")
	out.WriteString("\tmovq %rbp, %rsp\n")
	out.WriteString("\tpopq %rbp\n")
	out.WriteString("\tret\n")

	return &Result{Assembly: out.String(), Stack: m}, nil
}
