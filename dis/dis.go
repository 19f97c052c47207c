// Package dis renders bytecode programs and compiled IR as tables.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/pyjit/bytecode"
	"github.com/deepnoodle-ai/pyjit/internal/table"
	"github.com/deepnoodle-ai/pyjit/ir"
	"github.com/deepnoodle-ai/pyjit/op"
	"github.com/fatih/color"
)

// Instruction is a disassembled bytecode instruction.
type Instruction struct {
	Offset   int
	Labels   []bytecode.Label
	Name     string
	Opcode   op.Code
	Operand  string
	Info     string
	Constant *bytecode.Constant

	// Unresolved is set for jumps to a label missing from the label map.
	Unresolved bool
}

// Disassemble returns one entry per instruction of code, annotated with
// the labels bound at its offset and resolved operands.
func Disassemble(code *bytecode.Code) []Instruction {
	offsetLabels := code.OffsetLabels()
	instructions := make([]Instruction, 0, code.InstructionCount())
	for offset := 0; offset < code.InstructionCount(); offset++ {
		instr := code.InstructionAt(offset)
		d := Instruction{
			Offset: offset,
			Labels: offsetLabels[offset],
			Name:   instr.Op.String(),
			Opcode: instr.Op,
		}
		switch instr.Op {
		case op.LoadName, op.StoreName:
			d.Info = instr.Name
			if instr.Scope != bytecode.ScopeLocal {
				d.Info = fmt.Sprintf("%s (%s)", instr.Name, instr.Scope)
			}
		case op.LoadConst:
			c := instr.Const
			d.Constant = &c
			d.Info = c.String()
		case op.BinaryOp:
			d.Info = instr.BinOp.String()
		case op.CompareOp:
			d.Info = instr.CmpOp.String()
		case op.Call, op.BuildList, op.BuildTuple:
			d.Operand = strconv.Itoa(instr.Arg)
		}
		if op.GetInfo(instr.Op).HasTarget {
			d.Operand = instr.Target.String()
			if target, ok := code.LabelOffset(instr.Target); ok {
				d.Info = fmt.Sprintf("to %d", target)
			} else {
				d.Info, d.Unresolved = "undefined", true
			}
		}
		instructions = append(instructions, d)
	}
	return instructions
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

// Print writes the instructions as a table.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		values := []string{
			strconv.Itoa(instr.Offset),
			formatLabels(instr.Labels),
			bold(instr.Name),
			instr.Operand,
		}
		switch {
		case instr.Constant != nil:
			values = append(values, formatConstant(*instr.Constant))
		case instr.Unresolved:
			values = append(values, color.RedString("%s", instr.Info))
		case instr.Info != "":
			values = append(values, color.HiCyanString("%s", instr.Info))
		default:
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "LABEL", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// PrintFunction writes the blocks and instructions of fn as a table, one
// row per instruction, in layout order.
func PrintFunction(fn *ir.Function, writer io.Writer) {
	var lines [][]string
	for _, blk := range fn.Layout() {
		header := fn.BlockHeader(blk)
		for i, inst := range fn.Insts(blk) {
			name := ""
			if i == 0 {
				name = header
			}
			var results []string
			for _, r := range inst.Results {
				results = append(results, r.String())
			}
			opcode := bold(inst.Op.String())
			if inst.Op == ir.OpTrapif {
				opcode = color.New(color.Bold, color.FgRed).Sprint(inst.Op.String())
			}
			lines = append(lines, []string{
				name,
				strings.Join(results, ", "),
				opcode,
				inst.Operands(),
			})
		}
	}

	table.NewTable(writer).
		WithHeader([]string{"BLOCK", "RESULTS", "OPCODE", "OPERANDS"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

func formatLabels(labels []bytecode.Label) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}

func formatConstant(c bytecode.Constant) string {
	switch c.Kind() {
	case bytecode.ConstInteger, bytecode.ConstFloat:
		return color.YellowString("%s", c.String())
	case bytecode.ConstString:
		s := c.String()
		if len(s) > 80 {
			s = s[:77] + "..."
		}
		return color.GreenString("%s", s)
	default:
		return bold(c.String())
	}
}
