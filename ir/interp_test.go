package ir

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteAdd(t *testing.T) {
	fn := buildAdd()
	out, err := Execute(context.Background(), fn, IntScalar(40), IntScalar(2))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, I64, out[0].Type)
	assert.Equal(t, int64(42), out[0].Int())
}

func TestExecuteOverflowTraps(t *testing.T) {
	fn := buildAdd()
	_, err := Execute(context.Background(), fn, IntScalar(math.MaxInt64), IntScalar(1))
	var trap *TrapError
	require.ErrorAs(t, err, &trap)
	assert.Equal(t, TrapIntegerOverflow, trap.Code)
	assert.Equal(t, "ir: trap int_ovf in block0", err.Error())

	_, err = Execute(context.Background(), fn, IntScalar(math.MinInt64), IntScalar(-1))
	require.ErrorAs(t, err, &trap)

	out, err := Execute(context.Background(), fn, IntScalar(math.MinInt64), IntScalar(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), out[0].Int())
}

func TestExecuteSubtractOverflow(t *testing.T) {
	fn := NewFunction("sub", Signature{Params: []AbiParam{{Type: I64}, {Type: I64}}})
	b := NewBuilder(fn)
	entry := b.CreateBlock()
	b.AppendBlockParamsForFunctionParams(entry)
	b.SwitchToBlock(entry)
	params := b.BlockParams(entry)
	diff, flags := b.IsubIfbout(params[0], params[1])
	b.Trapif(Overflow, flags, TrapIntegerOverflow)
	b.AddReturn(I64)
	b.Return(diff)
	require.NoError(t, Verify(fn))

	out, err := Execute(context.Background(), fn, IntScalar(-5), IntScalar(7))
	require.NoError(t, err)
	assert.Equal(t, int64(-12), out[0].Int())

	_, err = Execute(context.Background(), fn, IntScalar(math.MinInt64), IntScalar(1))
	var trap *TrapError
	assert.ErrorAs(t, err, &trap)
	_, err = Execute(context.Background(), fn, IntScalar(0), IntScalar(math.MinInt64))
	assert.ErrorAs(t, err, &trap)
}

func TestExecuteBranches(t *testing.T) {
	// max(a, b) with a conditional branch and two returns.
	fn := NewFunction("max", Signature{Params: []AbiParam{{Type: I64}, {Type: I64}}})
	b := NewBuilder(fn)
	entry := b.CreateBlock()
	other := b.CreateBlock()
	next := b.CreateBlock()
	b.AppendBlockParamsForFunctionParams(entry)
	b.SwitchToBlock(entry)
	params := b.BlockParams(entry)
	c := b.Icmp(SignedGreaterThanOrEqual, params[0], params[1])
	b.Brz(c, other)
	b.Fallthrough(next)
	b.SwitchToBlock(next)
	b.AddReturn(I64)
	b.Return(params[0])
	b.SwitchToBlock(other)
	b.Return(params[1])
	require.NoError(t, Verify(fn))

	for _, tc := range [][3]int64{{1, 2, 2}, {5, 3, 5}, {4, 4, 4}, {-1, -9, -1}} {
		out, err := Execute(context.Background(), fn, IntScalar(tc[0]), IntScalar(tc[1]))
		require.NoError(t, err)
		assert.Equal(t, tc[2], out[0].Int(), "max(%d, %d)", tc[0], tc[1])
	}
}

func TestExecuteFloat(t *testing.T) {
	fn := NewFunction("f", Signature{Params: []AbiParam{{Type: F64}}})
	b := NewBuilder(fn)
	entry := b.CreateBlock()
	b.AppendBlockParamsForFunctionParams(entry)
	b.SwitchToBlock(entry)
	x := b.BlockParams(entry)[0]
	y := b.Fdiv(b.Fmul(b.Fadd(x, b.F64const(1)), b.F64const(3)), b.F64const(2))
	b.AddReturn(F64)
	b.Return(b.Fneg(b.Fsub(y, b.F64const(0.5))))

	out, err := Execute(context.Background(), fn, FloatScalar(1))
	require.NoError(t, err)
	assert.Equal(t, F64, out[0].Type)
	assert.Equal(t, -2.5, out[0].Float())
	assert.Equal(t, "-2.5", out[0].String())
}

func TestExecuteUnsetVariableReadsZero(t *testing.T) {
	fn := NewFunction("f", Signature{})
	b := NewBuilder(fn)
	b.SwitchToBlock(b.CreateBlock())
	b.DeclareVar(Variable(0), I64)
	b.AddReturn(I64)
	b.Return(b.UseVar(Variable(0)))

	out, err := Execute(context.Background(), fn)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out[0].Int())
}

func TestExecuteArgumentChecks(t *testing.T) {
	fn := buildAdd()
	_, err := Execute(context.Background(), fn, IntScalar(1))
	assert.EqualError(t, err, "ir: add takes 2 arguments, got 1")
	_, err = Execute(context.Background(), fn, IntScalar(1), FloatScalar(1))
	assert.EqualError(t, err, "ir: argument 1 has type f64, expected i64")
	_, err = Execute(context.Background(), NewFunction("empty", Signature{}))
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestExecuteStopsOnCancel(t *testing.T) {
	fn := NewFunction("spin", Signature{})
	b := NewBuilder(fn)
	blk := b.CreateBlock()
	b.SwitchToBlock(blk)
	b.Jump(blk)
	require.NoError(t, Verify(fn))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Execute(ctx, fn)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
