package main

import (
	"fmt"

	"github.com/deepnoodle-ai/pyjit/dis"
	"github.com/deepnoodle-ai/pyjit/jit"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type compileJSON struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Signature signatureJSON `json:"signature"`
	IR        string        `json:"ir"`
}

func (a *app) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile FILE",
		Short: "Compile a bytecode program and print its IR",
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
			compiled, err := jit.CompileAnnotated(code, a.compileOptions()...)
			if err != nil {
				return fmt.Errorf("%s: %w", code.Name(), err)
			}
			a.logger.Info().
				Str("function", code.Name()).
				Str("signature", compiled.Signature().String()).
				Int("blocks", len(compiled.Function().Layout())).
				Msg("compiled")

			out := cmd.OutOrStdout()
			fn := compiled.Function()
			if format == "json" {
				return writeJSON(out, compileJSON{
					ID:        code.ID(),
					Name:      code.Name(),
					Signature: signatureOutput(compiled.Signature()),
					IR:        fn.String(),
				})
			}
			if raw, _ := cmd.Flags().GetBool("raw"); raw {
				_, err := fmt.Fprint(out, fn.String())
				return err
			}
			fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint(code.Name()), compiled.Signature())
			dis.PrintFunction(fn, out)
			return nil
		},
	}
	cmd.Flags().Bool("raw", false, "print the IR as text instead of a table")
	return cmd
}
