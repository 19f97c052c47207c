package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/pyjit/bytecode"
	"github.com/deepnoodle-ai/pyjit/jit"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
)

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminalOut() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// loadProgram reads a JSON bytecode program from path.
func (a *app) loadProgram(path string) (*bytecode.Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	code, err := bytecode.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug().
		Str("file", path).
		Str("id", code.ID()).
		Str("function", code.Name()).
		Int("instructions", code.InstructionCount()).
		Msg("loaded program")
	return code, nil
}

func (a *app) compileOptions() []jit.Option {
	opts := []jit.Option{jit.WithLogger(a.logger)}
	if a.v.GetBool("legacy-ge") {
		opts = append(opts, jit.WithLegacyGreaterOrEqual())
	}
	return opts
}

var outputFormats = []string{"json", "text"}

// outputFormat returns the validated --output value.
func (a *app) outputFormat() (string, error) {
	format := strings.ToLower(a.v.GetString("output"))
	for _, f := range outputFormats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

func writeJSON(w io.Writer, value any) error {
	var data []byte
	var err error
	if color.NoColor {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = prettyjson.Marshal(value)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type signatureJSON struct {
	Args   []string `json:"args"`
	Return *string  `json:"return"`
}

func signatureOutput(sig jit.Signature) signatureJSON {
	out := signatureJSON{Args: make([]string, len(sig.Args))}
	for i, t := range sig.Args {
		out.Args[i] = t.String()
	}
	if ret, ok := sig.Return(); ok {
		s := ret.String()
		out.Return = &s
	}
	return out
}
