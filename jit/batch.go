package jit

import (
	"context"
	"fmt"
	"time"

	"github.com/deepnoodle-ai/pyjit/bytecode"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Request asks CompileAll to compile one function. When ArgTypes is nil
// the types are taken from the code's argument annotations.
type Request struct {
	Code     *bytecode.Code
	ArgTypes []Type
}

// Result is the outcome of compiling one Request.
type Result struct {
	Request  Request
	Compiled *CompiledCode
	Err      error
	Duration time.Duration
}

// CompileAll compiles independent functions in parallel, each with its own
// compiler and IR function. Results are returned in request order. The
// returned error aggregates every failure, each prefixed with the function
// name, and also reports cancellation of ctx. Requests not started before
// ctx is cancelled fail with the context's error.
func CompileAll(ctx context.Context, requests []Request, opts ...Option) ([]Result, error) {
	cfg := newConfig(opts...)
	logger := cfg.logger.With().Str("component", "compile_all").Logger()

	results := make([]Result, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, req := range requests {
		i, req := i, req
		results[i].Request = req
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			compiled, err := compileRequest(req, opts)
			results[i].Compiled = compiled
			results[i].Err = err
			results[i].Duration = time.Since(start)

			level := zerolog.DebugLevel
			if err != nil {
				level = zerolog.WarnLevel
			}
			logger.WithLevel(level).Err(err).
				Str("function", req.Code.Name()).
				Str("id", req.Code.ID()).
				Dur("duration", results[i].Duration).
				Msg("compiled function")
			return nil
		})
	}
	_ = g.Wait()

	var errs *multierror.Error
	for _, r := range results {
		if r.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", r.Request.Code.Name(), r.Err))
		}
	}
	if err := ctx.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return results, errs.ErrorOrNil()
}

func compileRequest(req Request, opts []Option) (*CompiledCode, error) {
	if req.ArgTypes == nil {
		return CompileAnnotated(req.Code, opts...)
	}
	return Compile(req.Code, req.ArgTypes, opts...)
}
