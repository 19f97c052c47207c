package ir

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNoEntry is returned when executing a function that has no blocks.
var ErrNoEntry = errors.New("ir: function has no entry block")

// How many instructions run between context checks.
const checkInterval = 1024

// Scalar is a typed machine value passed to or returned from Execute.
type Scalar struct {
	Type Type
	bits uint64
}

// IntScalar returns an i64 scalar.
func IntScalar(v int64) Scalar {
	return Scalar{Type: I64, bits: uint64(v)}
}

// FloatScalar returns an f64 scalar.
func FloatScalar(v float64) Scalar {
	return Scalar{Type: F64, bits: math.Float64bits(v)}
}

// Int returns the value as a signed integer.
func (s Scalar) Int() int64 {
	return int64(s.bits)
}

// Float returns the value as a float.
func (s Scalar) Float() float64 {
	return math.Float64frombits(s.bits)
}

func (s Scalar) String() string {
	switch s.Type {
	case I64:
		return strconv.FormatInt(s.Int(), 10)
	case F64:
		return strconv.FormatFloat(s.Float(), 'g', -1, 64)
	default:
		return fmt.Sprintf("%s(%#x)", s.Type, s.bits)
	}
}

// TrapError is returned by Execute when a trapif instruction fires.
type TrapError struct {
	Code  TrapCode
	Block Block
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("ir: trap %s in %s", e.Code, e.Block)
}

// Execute interprets the function with the given arguments and returns the
// values of the return instruction that ends execution. Execution stops
// with the context's error when ctx is cancelled. Variables that are read
// before being assigned read as zero.
func Execute(ctx context.Context, fn *Function, args ...Scalar) ([]Scalar, error) {
	entry, ok := fn.Entry()
	if !ok {
		return nil, ErrNoEntry
	}
	params := fn.blocks[entry].params
	if len(args) != len(params) {
		return nil, fmt.Errorf("ir: %s takes %d arguments, got %d", fn.Name, len(params), len(args))
	}
	regs := make([]uint64, len(fn.values))
	for i, p := range params {
		if args[i].Type != fn.values[p] {
			return nil, fmt.Errorf("ir: argument %d has type %s, expected %s", i, args[i].Type, fn.values[p])
		}
		regs[p] = args[i].bits
	}
	vars := make(map[Variable]uint64, len(fn.vars))

	steps := 0
	blk := entry
blocks:
	for {
		for _, inst := range fn.blocks[blk].insts {
			steps++
			if steps%checkInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			switch inst.Op {
			case OpIconst:
				regs[inst.Results[0]] = uint64(inst.Imm)
			case OpF64const:
				regs[inst.Results[0]] = math.Float64bits(inst.FImm)
			case OpUseVar:
				regs[inst.Results[0]] = vars[inst.Var]
			case OpDefVar:
				vars[inst.Var] = regs[inst.Args[0]]
			case OpIaddIfcout:
				x, y := int64(regs[inst.Args[0]]), int64(regs[inst.Args[1]])
				sum := x + y
				overflow := (x > 0 && y > 0 && sum < 0) || (x < 0 && y < 0 && sum >= 0)
				regs[inst.Results[0]] = uint64(sum)
				regs[inst.Results[1]] = flag(overflow)
			case OpIsubIfbout:
				x, y := int64(regs[inst.Args[0]]), int64(regs[inst.Args[1]])
				diff := x - y
				overflow := (x >= 0 && y < 0 && diff < 0) || (x < 0 && y > 0 && diff >= 0)
				regs[inst.Results[0]] = uint64(diff)
				regs[inst.Results[1]] = flag(overflow)
			case OpIcmp:
				x, y := int64(regs[inst.Args[0]]), int64(regs[inst.Args[1]])
				regs[inst.Results[0]] = flag(compare(inst.Cond, x, y))
			case OpFadd, OpFsub, OpFmul, OpFdiv:
				x := math.Float64frombits(regs[inst.Args[0]])
				y := math.Float64frombits(regs[inst.Args[1]])
				regs[inst.Results[0]] = math.Float64bits(floatOp(inst.Op, x, y))
			case OpFneg:
				regs[inst.Results[0]] = math.Float64bits(-math.Float64frombits(regs[inst.Args[0]]))
			case OpTrapif:
				set := regs[inst.Args[0]] != 0
				if (inst.Cond == Overflow) == set {
					return nil, &TrapError{Code: inst.Trap, Block: blk}
				}
			case OpBrz:
				if regs[inst.Args[0]] == 0 {
					blk = inst.Target
					continue blocks
				}
			case OpBrnz:
				if regs[inst.Args[0]] != 0 {
					blk = inst.Target
					continue blocks
				}
			case OpJump, OpFallthrough:
				blk = inst.Target
				continue blocks
			case OpReturn:
				results := make([]Scalar, len(inst.Args))
				for i, v := range inst.Args {
					results[i] = Scalar{Type: fn.values[v], bits: regs[v]}
				}
				return results, nil
			default:
				return nil, fmt.Errorf("ir: cannot execute %s", inst.Op)
			}
		}
		return nil, fmt.Errorf("ir: execution fell off the end of %s", blk)
	}
}

func flag(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func compare(cc IntCC, x, y int64) bool {
	switch cc {
	case Equal:
		return x == y
	case NotEqual:
		return x != y
	case SignedLessThan:
		return x < y
	case SignedLessThanOrEqual:
		return x <= y
	case SignedGreaterThan:
		return x > y
	case SignedGreaterThanOrEqual:
		return x >= y
	}
	return false
}

func floatOp(opc Opcode, x, y float64) float64 {
	switch opc {
	case OpFadd:
		return x + y
	case OpFsub:
		return x - y
	case OpFmul:
		return x * y
	default:
		return x / y
	}
}
