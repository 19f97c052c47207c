package main

import (
	"context"
	"fmt"
	"time"

	"github.com/deepnoodle-ai/pyjit/jit"
	"github.com/spf13/cobra"
)

type runJSON struct {
	Result *string `json:"result"`
	Type   *string `json:"type"`
}

func (a *app) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Compile a bytecode program and execute it",
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

			rawArgs, _ := cmd.Flags().GetStringArray("arg")
			sig := compiled.Signature()
			if len(rawArgs) != len(sig.Args) {
				return fmt.Errorf("%w: %s takes %d, got %d",
					jit.ErrWrongArgCount, code.Name(), len(sig.Args), len(rawArgs))
			}
			values := make([]jit.AbiValue, len(rawArgs))
			for i, raw := range rawArgs {
				if values[i], err = jit.ParseValue(sig.Args[i], raw); err != nil {
					return fmt.Errorf("argument %d: %w", i, err)
				}
			}

			ctx := cmd.Context()
			if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			start := time.Now()
			result, err := compiled.Invoke(ctx, values...)
			a.logger.Debug().
				Str("function", code.Name()).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("invoked")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				var payload runJSON
				if result != nil {
					s, t := result.String(), result.Type().String()
					payload.Result, payload.Type = &s, &t
				}
				return writeJSON(out, payload)
			}
			if result == nil {
				_, err = fmt.Fprintln(out, "none")
				return err
			}
			_, err = fmt.Fprintln(out, result.String())
			return err
		},
	}
	cmd.Flags().StringArray("arg", nil, "argument value, repeated once per argument")
	cmd.Flags().Duration("timeout", 0, "abort execution after this long")
	return cmd
}
