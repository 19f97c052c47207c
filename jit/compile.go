package jit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/pyjit/bytecode"
	"github.com/deepnoodle-ai/pyjit/ir"
)

// CompiledCode is a successfully compiled and verified function.
type CompiledCode struct {
	code *bytecode.Code
	fn   *ir.Function
	sig  Signature
}

// Compile compiles code with the given argument types, one per declared
// argument. The returned function has been verified.
func Compile(code *bytecode.Code, argTypes []Type, opts ...Option) (*CompiledCode, error) {
	if len(argTypes) != code.ArgCount() {
		return nil, fmt.Errorf("%w: %s declares %d arguments, got %d types",
			ErrWrongArgCount, code.Name(), code.ArgCount(), len(argTypes))
	}
	params := make([]ir.AbiParam, len(argTypes))
	for i, t := range argTypes {
		if t.IR() == ir.InvalidType {
			return nil, fmt.Errorf("%w: argument %d has type %s", ErrWrongArgType, i, t)
		}
		params[i] = ir.AbiParam{Type: t.IR()}
	}
	fn := ir.NewFunction(code.Name(), ir.Signature{Params: params})
	b := ir.NewBuilder(fn)
	entry := b.CreateBlock()
	b.AppendBlockParamsForFunctionParams(entry)

	compiler := NewFunctionCompiler(b, code.ArgNames(), argTypes, entry, opts...)
	if err := compiler.Compile(code); err != nil {
		return nil, err
	}
	if err := ir.Verify(fn); err != nil {
		return nil, fmt.Errorf("jit: %s produced invalid ir: %w", code.Name(), err)
	}
	return &CompiledCode{code: code, fn: fn, sig: compiler.Signature()}, nil
}

// CompileAnnotated compiles code using the types named by its argument
// annotations.
func CompileAnnotated(code *bytecode.Code, opts ...Option) (*CompiledCode, error) {
	argTypes, err := ResolveArgTypes(code)
	if err != nil {
		return nil, err
	}
	return Compile(code, argTypes, opts...)
}

// ResolveArgTypes returns the argument types named by the code's argument
// annotations. A missing or unknown annotation is not supported.
func ResolveArgTypes(code *bytecode.Code) ([]Type, error) {
	types := make([]Type, code.ArgCount())
	for i := range types {
		annotation := code.ArgAnnotationAt(i)
		if annotation == "" {
			return nil, &CompileError{
				Kind:    KindNotSupported,
				Offset:  NoOffset,
				Message: fmt.Sprintf("argument %q has no type annotation", code.ArgNameAt(i)),
			}
		}
		t, err := ParseType(annotation)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// Code returns the bytecode the function was compiled from.
func (c *CompiledCode) Code() *bytecode.Code {
	return c.code
}

// Function returns the compiled IR.
func (c *CompiledCode) Function() *ir.Function {
	return c.fn
}

// Signature returns the function's signature.
func (c *CompiledCode) Signature() Signature {
	sig := c.sig
	sig.Args = append([]Type(nil), c.sig.Args...)
	return sig
}

// Invoke runs the compiled function on the IR interpreter. It returns nil
// when the function has no return type. An integer overflow surfaces as an
// *ir.TrapError.
func (c *CompiledCode) Invoke(ctx context.Context, args ...AbiValue) (*AbiValue, error) {
	if len(args) != len(c.sig.Args) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d",
			ErrWrongArgCount, c.fn.Name, len(c.sig.Args), len(args))
	}
	scalars := make([]ir.Scalar, len(args))
	for i, arg := range args {
		if arg.typ != c.sig.Args[i] {
			return nil, fmt.Errorf("%w: argument %d is %s, expected %s",
				ErrWrongArgType, i, arg.typ, c.sig.Args[i])
		}
		scalars[i] = arg.scalar()
	}
	results, err := ir.Execute(ctx, c.fn, scalars...)
	if err != nil {
		return nil, err
	}
	if !c.sig.HasRet || len(results) == 0 {
		return nil, nil
	}
	ret := abiValueOf(c.sig.Ret, results[0])
	return &ret, nil
}

// AbiValue is an argument or return value of a compiled function.
type AbiValue struct {
	typ Type
	i   int64
	f   float64
}

// IntValue returns an int AbiValue.
func IntValue(v int64) AbiValue {
	return AbiValue{typ: Int, i: v}
}

// FloatValue returns a float AbiValue.
func FloatValue(v float64) AbiValue {
	return AbiValue{typ: Float, f: v}
}

// ParseValue parses s as a value of type t.
func ParseValue(t Type, s string) (AbiValue, error) {
	switch t {
	case Int:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return AbiValue{}, fmt.Errorf("%w: %q is not an int", ErrWrongArgType, s)
		}
		return IntValue(v), nil
	case Float:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return AbiValue{}, fmt.Errorf("%w: %q is not a float", ErrWrongArgType, s)
		}
		return FloatValue(v), nil
	default:
		return AbiValue{}, fmt.Errorf("%w: %s", ErrWrongArgType, t)
	}
}

// Type returns the value's type.
func (v AbiValue) Type() Type {
	return v.typ
}

// Int returns the value if it is an int.
func (v AbiValue) Int() (int64, bool) {
	return v.i, v.typ == Int
}

// Float returns the value if it is a float.
func (v AbiValue) Float() (float64, bool) {
	return v.f, v.typ == Float
}

func (v AbiValue) String() string {
	if v.typ == Float {
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return strconv.FormatInt(v.i, 10)
}

func (v AbiValue) scalar() ir.Scalar {
	if v.typ == Float {
		return ir.FloatScalar(v.f)
	}
	return ir.IntScalar(v.i)
}

func abiValueOf(t Type, s ir.Scalar) AbiValue {
	if t == Float {
		return FloatValue(s.Float())
	}
	return IntValue(s.Int())
}
