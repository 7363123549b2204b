package codegen

import (
	"fmt"
	"strings"

	cerrors "github.com/rmkhurana28/RM-C-Compilor/internal/errors"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
)

// emitter renders one TAC stream against a fixed StackMap.
type emitter struct {
	m    *StackMap
	asm  []string
}

func (e *emitter) line(format string, args ...interface{}) {
	e.asm = append(e.asm, "\t"+fmt.Sprintf(format, args...))
}

// operand renders a literal or stack slot as an AT&T source/dest operand.
func (e *emitter) operand(op string) (string, error) {
	switch op {
	case "true":
		return "$1", nil
	case "false":
		return "$0", nil
	}
	if ir.IsLiteral(op) {
		if strings.Contains(op, ".") {
			return "", cerrors.NewCodegenError("double literal %q reached integer codegen", op)
		}
		return "$" + op, nil
	}
	slot, ok := e.m.Slots[op]
	if !ok {
		return "", cerrors.NewCodegenError("operand %q has no stack slot", op)
	}
	return fmt.Sprintf("%d(%%rbp)", slot.Offset), nil
}

func (e *emitter) slot(name string) (Slot, error) {
	s, ok := e.m.Slots[name]
	if !ok {
		return Slot{}, cerrors.NewCodegenError("%q has no stack slot", name)
	}
	return s, nil
}

// arrayAddr computes the memory operand for arr[index]. The index, literal
// or computed, is always loaded into %rcx first, so %rax stays free for
// the value being moved by the same ARRAY_READ/ARRAY_WRITE instruction.
func (e *emitter) arrayAddr(array, index string) (string, error) {
	base, err := e.slot(array)
	if err != nil {
		return "", err
	}
	src, err := e.operand(index)
	if err != nil {
		return "", err
	}
	e.line("movq %s, %%rcx", src)
	return fmt.Sprintf("%d(%%rbp,%%rcx,8)", base.Offset), nil
}

func (e *emitter) emitInstr(in ir.Instr) error {
	switch in.Op {
	case ir.Label:
		e.asm = append(e.asm, in.Label+":")
		return nil
	case ir.Goto:
		e.line("jmp %s", in.Label)
		return nil
	case ir.IfFalse:
		src, err := e.operand(in.Cond)
		if err != nil {
			return err
		}
		e.line("movq %s, %%rax", src)
		e.line("cmpq $0, %%rax")
		e.line("je %s", in.Label)
		return nil
	case ir.IfTrue:
		src, err := e.operand(in.Cond)
		if err != nil {
			return err
		}
		e.line("movq %s, %%rax", src)
		e.line("cmpq $0, %%rax")
		e.line("jne %s", in.Label)
		return nil
	case ir.Assign:
		src, err := e.operand(in.Arg1)
		if err != nil {
			return err
		}
		dst, err := e.slot(in.Result)
		if err != nil {
			return err
		}
		e.line("movq %s, %%rax", src)
		e.line("movq %%rax, %d(%%rbp)", dst.Offset)
		return nil
	case ir.Unop:
		return e.emitUnop(in)
	case ir.Binop:
		return e.emitBinop(in)
	case ir.ArrayRead:
		addr, err := e.arrayAddr(in.Array, in.Index)
		if err != nil {
			return err
		}
		dst, err := e.slot(in.Result)
		if err != nil {
			return err
		}
		e.line("movq %s, %%rax", addr)
		e.line("movq %%rax, %d(%%rbp)", dst.Offset)
		return nil
	case ir.ArrayWrite:
		addr, err := e.arrayAddr(in.Array, in.Index)
		if err != nil {
			return err
		}
		src, err := e.operand(in.Value)
		if err != nil {
			return err
		}
		e.line("movq %s, %%rax", src)
		e.line("movq %%rax, %s", addr)
		return nil
	default:
		return cerrors.NewCodegenError("unrecognized TAC op %v", in.Op)
	}
}

func (e *emitter) emitUnop(in ir.Instr) error {
	src, err := e.operand(in.Arg1)
	if err != nil {
		return err
	}
	dst, err := e.slot(in.Result)
	if err != nil {
		return err
	}
	e.line("movq %s, %%rax", src)
	switch in.Operator {
	case "-":
		e.line("negq %%rax")
	case "!":
		e.line("xorq $1, %%rax")
	default:
		return cerrors.NewCodegenError("unrecognized unary operator %q", in.Operator)
	}
	e.line("movq %%rax, %d(%%rbp)", dst.Offset)
	return nil
}

func (e *emitter) emitBinop(in ir.Instr) error {
	lhs, err := e.operand(in.Arg1)
	if err != nil {
		return err
	}
	rhs, err := e.operand(in.Arg2)
	if err != nil {
		return err
	}
	dst, err := e.slot(in.Result)
	if err != nil {
		return err
	}
	e.line("movq %s, %%rax", lhs)
	e.line("movq %s, %%rcx", rhs)
	switch in.Operator {
	case "+":
		e.line("addq %%rcx, %%rax")
	case "-":
		e.line("subq %%rcx, %%rax")
	case "*":
		e.line("imulq %%rcx, %%rax")
	case "/":
		e.line("cqto")
		e.line("idivq %%rcx")
	case "&&":
		e.line("andq %%rcx, %%rax")
	case "||":
		e.line("orq %%rcx, %%rax")
	case "==":
		e.line("cmpq %%rcx, %%rax")
		e.line("sete %%al")
		e.line("movzbq %%al, %%rax")
	case "!=":
		e.line("cmpq %%rcx, %%rax")
		e.line("setne %%al")
		e.line("movzbq %%al, %%rax")
	case "<":
		e.line("cmpq %%rcx, %%rax")
		e.line("setl %%al")
		e.line("movzbq %%al, %%rax")
	case ">":
		e.line("cmpq %%rcx, %%rax")
		e.line("setg %%al")
		e.line("movzbq %%al, %%rax")
	case "<=":
		e.line("cmpq %%rcx, %%rax")
		e.line("setle %%al")
		e.line("movzbq %%al, %%rax")
	case ">=":
		e.line("cmpq %%rcx, %%rax")
		e.line("setge %%al")
		e.line("movzbq %%al, %%rax")
	default:
		return cerrors.NewCodegenError("unrecognized binary operator %q", in.Operator)
	}
	e.line("movq %%rax, %d(%%rbp)", dst.Offset)
	return nil
}
