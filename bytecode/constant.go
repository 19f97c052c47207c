package bytecode

import (
	"fmt"
	"math/big"
	"strconv"
)

// ConstantKind identifies the kind of a literal constant.
type ConstantKind uint8

const (
	ConstNone ConstantKind = iota
	ConstInteger
	ConstFloat
	ConstBoolean
	ConstString
)

// String returns the name of the constant kind as used in serialized code.
func (k ConstantKind) String() string {
	switch k {
	case ConstNone:
		return "none"
	case ConstInteger:
		return "int"
	case ConstFloat:
		return "float"
	case ConstBoolean:
		return "bool"
	case ConstString:
		return "str"
	default:
		return "unknown"
	}
}

// Constant is a literal operand of a LOAD_CONST instruction. Integers are
// arbitrary precision, matching the source language; consumers decide which
// values they can represent.
type Constant struct {
	kind ConstantKind
	i    *big.Int
	f    float64
	b    bool
	s    string
}

// None returns the none constant.
func None() Constant {
	return Constant{kind: ConstNone}
}

// Int returns an integer constant.
func Int(v int64) Constant {
	return Constant{kind: ConstInteger, i: big.NewInt(v)}
}

// BigInt returns an integer constant of arbitrary size. The value is copied.
func BigInt(v *big.Int) Constant {
	return Constant{kind: ConstInteger, i: new(big.Int).Set(v)}
}

// Float returns a floating point constant.
func Float(v float64) Constant {
	return Constant{kind: ConstFloat, f: v}
}

// Bool returns a boolean constant.
func Bool(v bool) Constant {
	return Constant{kind: ConstBoolean, b: v}
}

// Str returns a string constant.
func Str(v string) Constant {
	return Constant{kind: ConstString, s: v}
}

// Kind returns the kind of the constant.
func (c Constant) Kind() ConstantKind {
	return c.kind
}

// BigInt returns a copy of the integer value, or nil if the constant is not
// an integer.
func (c Constant) BigInt() *big.Int {
	if c.kind != ConstInteger || c.i == nil {
		return nil
	}
	return new(big.Int).Set(c.i)
}

// Int64 returns the integer value if it is representable as an int64.
func (c Constant) Int64() (int64, bool) {
	if c.kind != ConstInteger || c.i == nil || !c.i.IsInt64() {
		return 0, false
	}
	return c.i.Int64(), true
}

// Float64 returns the floating point value.
func (c Constant) Float64() (float64, bool) {
	return c.f, c.kind == ConstFloat
}

// Bool returns the boolean value.
func (c Constant) Bool() (bool, bool) {
	return c.b, c.kind == ConstBoolean
}

// Str returns the string value.
func (c Constant) Str() (string, bool) {
	return c.s, c.kind == ConstString
}

// String returns the constant formatted as a source literal.
func (c Constant) String() string {
	switch c.kind {
	case ConstInteger:
		if c.i == nil {
			return "0"
		}
		return c.i.String()
	case ConstFloat:
		return strconv.FormatFloat(c.f, 'g', -1, 64)
	case ConstBoolean:
		if c.b {
			return "True"
		}
		return "False"
	case ConstString:
		return strconv.Quote(c.s)
	case ConstNone:
		return "None"
	default:
		return fmt.Sprintf("<constant %d>", c.kind)
	}
}
