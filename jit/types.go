package jit

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/pyjit/ir"
)

// Type is one of the value kinds the compiler models.
type Type uint8

const (
	// Int is a 64-bit signed integer. It also stands in for booleans.
	Int Type = iota + 1
	// Float is a double precision float.
	Float
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "invalid"
	}
}

// IR returns the machine type used to represent values of this type.
func (t Type) IR() ir.Type {
	switch t {
	case Int:
		return ir.I64
	case Float:
		return ir.F64
	default:
		return ir.InvalidType
	}
}

// ParseType maps an argument annotation such as "int" to a Type.
func ParseType(annotation string) (Type, error) {
	switch annotation {
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	default:
		return 0, &CompileError{
			Kind:    KindNotSupported,
			Offset:  NoOffset,
			Message: fmt.Sprintf("unsupported type annotation %q", annotation),
		}
	}
}

// TypedValue is an IR value paired with the type it was produced as.
type TypedValue struct {
	Val  ir.Value
	Type Type
}

// Local is a named variable slot. Its type is fixed by the first store.
type Local struct {
	Var  ir.Variable
	Type Type
}

// Signature is the argument types of a compiled function and its inferred
// return type, if any.
type Signature struct {
	Args   []Type
	Ret    Type
	HasRet bool
}

// Return returns the inferred return type. ok is false when the function
// never returns a value.
func (s Signature) Return() (t Type, ok bool) {
	return s.Ret, s.HasRet
}

// String formats the signature as "(int, float) -> int".
func (s Signature) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	ret := "none"
	if s.HasRet {
		ret = s.Ret.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(args, ", "), ret)
}
