package main

import (
	"github.com/deepnoodle-ai/pyjit/dis"
	"github.com/spf13/cobra"
)

type disRowJSON struct {
	Offset  int      `json:"offset"`
	Labels  []string `json:"labels,omitempty"`
	Opcode  string   `json:"opcode"`
	Operand string   `json:"operand,omitempty"`
	Info    string   `json:"info,omitempty"`
}

func (a *app) disCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dis FILE",
		Short: "Disassemble a bytecode program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			code, err := a.loadProgram(args[0])
			if err != nil {
				return err
			}
			instructions := dis.Disassemble(code)
			if format == "json" {
				rows := make([]disRowJSON, len(instructions))
				for i, instr := range instructions {
					rows[i] = disRowJSON{
						Offset:  instr.Offset,
						Opcode:  instr.Name,
						Operand: instr.Operand,
						Info:    instr.Info,
					}
					for _, l := range instr.Labels {
						rows[i].Labels = append(rows[i].Labels, l.String())
					}
				}
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			dis.Print(instructions, cmd.OutOrStdout())
			return nil
		},
	}
}
