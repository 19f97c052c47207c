package jit

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Option configures compilation.
type Option func(*config)

type config struct {
	legacyGreaterOrEqual bool
	logger               zerolog.Logger
	concurrency          int
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:      zerolog.Nop(),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

// WithLegacyGreaterOrEqual translates >= to a signed <= comparison, which
// is what the reference implementation emitted. Only useful to reproduce its
// output exactly.
func WithLegacyGreaterOrEqual() Option {
	return func(cfg *config) {
		cfg.legacyGreaterOrEqual = true
	}
}

// WithLogger sets the logger used by CompileAll. The compiler itself never
// logs.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithConcurrency limits how many functions CompileAll compiles at once.
// Defaults to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(cfg *config) {
		cfg.concurrency = n
	}
}
