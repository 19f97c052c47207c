package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the function in a textual form close to Cranelift's:
//
//	function add(i64, i64) -> i64 {
//	block0(v0: i64, v1: i64):
//	    def_var var0, v0
//	    ...
//	}
func (f *Function) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "function %s%s {\n", f.Name, f.Signature)
	for _, blk := range f.layout {
		b.WriteString(f.BlockHeader(blk))
		b.WriteString(":\n")
		for _, inst := range f.blocks[blk].insts {
			b.WriteString("    ")
			b.WriteString(inst.String())
			b.WriteString("\n")
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// BlockHeader returns the block name with its typed parameter list, e.g.
// "block0(v0: i64)".
func (f *Function) BlockHeader(blk Block) string {
	params := f.block(blk).params
	if len(params) == 0 {
		return blk.String()
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s", p, f.ValueType(p))
	}
	return fmt.Sprintf("%s(%s)", blk, strings.Join(parts, ", "))
}

// String renders the instruction, e.g. "v4, v5 = iadd_ifcout v2, v3".
func (i Inst) String() string {
	var b strings.Builder
	if len(i.Results) > 0 {
		b.WriteString(joinValues(i.Results))
		b.WriteString(" = ")
	}
	b.WriteString(i.Op.String())
	if operands := i.Operands(); operands != "" {
		b.WriteString(" ")
		b.WriteString(operands)
	}
	return b.String()
}

// Operands renders the instruction's operand list without the opcode.
func (i Inst) Operands() string {
	switch i.Op {
	case OpIconst:
		return strconv.FormatInt(i.Imm, 10)
	case OpF64const:
		return strconv.FormatFloat(i.FImm, 'g', -1, 64)
	case OpUseVar:
		return i.Var.String()
	case OpDefVar:
		return fmt.Sprintf("%s, %s", i.Var, joinValues(i.Args))
	case OpIcmp:
		return fmt.Sprintf("%s %s", i.Cond, joinValues(i.Args))
	case OpTrapif:
		return fmt.Sprintf("%s %s, %s", i.Cond, joinValues(i.Args), i.Trap)
	case OpBrz, OpBrnz:
		return fmt.Sprintf("%s, %s", joinValues(i.Args), i.Target)
	case OpJump, OpFallthrough:
		return i.Target.String()
	default:
		return joinValues(i.Args)
	}
}

func joinValues(vals []Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
