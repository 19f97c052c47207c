package jit

import (
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/pyjit/op"
)

var (
	// ErrBadBytecode matches errors caused by structurally invalid bytecode.
	ErrBadBytecode = errors.New("bad bytecode")

	// ErrNotSupported matches errors caused by valid bytecode that uses
	// constructs the compiler does not handle. Callers are expected to fall
	// back to interpretation.
	ErrNotSupported = errors.New("not supported")

	ErrWrongArgCount = errors.New("wrong number of arguments")
	ErrWrongArgType  = errors.New("wrong argument type")
)

// NoOffset is the Offset of a CompileError not tied to an instruction.
const NoOffset = -1

// ErrorKind classifies a CompileError.
type ErrorKind int

const (
	KindBadBytecode ErrorKind = iota + 1
	KindNotSupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadBytecode:
		return "bad bytecode"
	case KindNotSupported:
		return "not supported"
	default:
		return "error"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindBadBytecode:
		return ErrBadBytecode
	case KindNotSupported:
		return ErrNotSupported
	default:
		return nil
	}
}

// CompileError is returned when a function cannot be compiled. It unwraps
// to ErrBadBytecode or ErrNotSupported according to its Kind.
type CompileError struct {
	Kind    ErrorKind
	Offset  int
	Op      op.Code
	Message string
}

func (e *CompileError) Error() string {
	switch {
	case e.Offset < 0:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Op == op.Invalid:
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Message)
	default:
		return fmt.Sprintf("%s at offset %d (%s): %s", e.Kind, e.Offset, e.Op, e.Message)
	}
}

// Unwrap returns the sentinel matching the error kind.
func (e *CompileError) Unwrap() error {
	return e.Kind.sentinel()
}
