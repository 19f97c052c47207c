package main

import (
	"runtime"

	"github.com/deepnoodle-ai/pyjit/internal/table"
	"github.com/deepnoodle-ai/pyjit/jit"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

type batchJSON struct {
	File      string         `json:"file"`
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Signature *signatureJSON `json:"signature,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func (a *app) batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Compile many bytecode programs in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			var loadErrs *multierror.Error
			var requests []jit.Request
			var files []string
			for _, path := range args {
				code, err := a.loadProgram(path)
				if err != nil {
					loadErrs = multierror.Append(loadErrs, err)
					continue
				}
				requests = append(requests, jit.Request{Code: code})
				files = append(files, path)
			}

			jobs, _ := cmd.Flags().GetInt("jobs")
			opts := append(a.compileOptions(), jit.WithConcurrency(jobs))
			results, compileErr := jit.CompileAll(cmd.Context(), requests, opts...)

			out := cmd.OutOrStdout()
			if format == "json" {
				rows := make([]batchJSON, len(results))
				for i, r := range results {
					rows[i] = batchJSON{File: files[i], ID: r.Request.Code.ID(), Name: r.Request.Code.Name()}
					if r.Err != nil {
						rows[i].Error = r.Err.Error()
					} else {
						sig := signatureOutput(r.Compiled.Signature())
						rows[i].Signature = &sig
					}
				}
				if err := writeJSON(out, rows); err != nil {
					return err
				}
			} else {
				var lines [][]string
				for i, r := range results {
					status, detail := color.GreenString("ok"), ""
					if r.Err != nil {
						status, detail = color.RedString("FAIL"), r.Err.Error()
					} else {
						detail = r.Compiled.Signature().String()
					}
					lines = append(lines, []string{files[i], r.Request.Code.Name(), status, detail})
				}
				table.NewTable(out).
					WithHeader([]string{"FILE", "FUNCTION", "STATUS", "DETAIL"}).
					WithHeaderAlignment([]table.Alignment{
						table.AlignCenter,
						table.AlignCenter,
						table.AlignCenter,
						table.AlignCenter,
					}).
					WithRows(lines).
					Render()
			}

			if compileErr != nil {
				loadErrs = multierror.Append(loadErrs, compileErr)
			}
			a.logger.Info().
				Int("files", len(args)).
				Int("failed", countFailed(results)+len(args)-len(requests)).
				Msg("batch finished")
			return loadErrs.ErrorOrNil()
		},
	}
	cmd.Flags().IntP("jobs", "j", runtime.GOMAXPROCS(0), "number of functions to compile in parallel")
	return cmd
}

func countFailed(results []jit.Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
