package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAdd builds a function returning x + y with an overflow trap.
func buildAdd() *Function {
	fn := NewFunction("add", Signature{Params: []AbiParam{{Type: I64}, {Type: I64}}})
	b := NewBuilder(fn)
	entry := b.CreateBlock()
	b.AppendBlockParamsForFunctionParams(entry)
	b.SwitchToBlock(entry)
	x, y := Variable(0), Variable(1)
	b.DeclareVar(x, I64)
	b.DeclareVar(y, I64)
	params := b.BlockParams(entry)
	b.DefVar(x, params[0])
	b.DefVar(y, params[1])
	sum, flags := b.IaddIfcout(b.UseVar(x), b.UseVar(y))
	b.Trapif(Overflow, flags, TrapIntegerOverflow)
	b.AddReturn(I64)
	b.Return(sum)
	return fn
}

func TestBuilderLayoutOrder(t *testing.T) {
	fn := NewFunction("f", Signature{})
	b := NewBuilder(fn)
	b0 := b.CreateBlock()
	b1 := b.CreateBlock()
	b2 := b.CreateBlock()

	b.SwitchToBlock(b0)
	b.Fallthrough(b2)
	b.SwitchToBlock(b2)
	b.Jump(b1)
	b.SwitchToBlock(b1)
	b.SwitchToBlock(b2)

	assert.Equal(t, []Block{b0, b2, b1}, fn.Layout())
	assert.Equal(t, 3, fn.BlockCount())
	entry, ok := fn.Entry()
	require.True(t, ok)
	assert.Equal(t, b0, entry)
}

func TestBuilderIsFilled(t *testing.T) {
	fn := NewFunction("f", Signature{})
	b := NewBuilder(fn)
	assert.False(t, b.IsFilled())

	blk := b.CreateBlock()
	next := b.CreateBlock()
	b.SwitchToBlock(blk)
	assert.False(t, b.IsFilled())
	c := b.Iconst(I64, 1)
	b.Brz(c, next)
	assert.False(t, b.IsFilled())
	b.Fallthrough(next)
	assert.True(t, b.IsFilled())
	assert.True(t, fn.IsTerminated(blk))
	assert.False(t, fn.IsTerminated(next))
}

func TestBuilderPanics(t *testing.T) {
	newPositioned := func() (*Builder, Block) {
		fn := NewFunction("f", Signature{})
		b := NewBuilder(fn)
		blk := b.CreateBlock()
		b.SwitchToBlock(blk)
		return b, blk
	}

	t.Run("append after terminator", func(t *testing.T) {
		b, _ := newPositioned()
		b.Return()
		assert.Panics(t, func() { b.Iconst(I64, 1) })
	})
	t.Run("no current block", func(t *testing.T) {
		b := NewBuilder(NewFunction("f", Signature{}))
		assert.Panics(t, func() { b.F64const(1) })
	})
	t.Run("type mismatch", func(t *testing.T) {
		b, _ := newPositioned()
		f := b.F64const(1)
		i := b.Iconst(I64, 1)
		assert.Panics(t, func() { b.IaddIfcout(f, i) })
		assert.Panics(t, func() { b.Fadd(f, i) })
	})
	t.Run("undeclared variable", func(t *testing.T) {
		b, _ := newPositioned()
		assert.Panics(t, func() { b.UseVar(Variable(3)) })
	})
	t.Run("variable declared twice", func(t *testing.T) {
		b, _ := newPositioned()
		b.DeclareVar(Variable(0), I64)
		assert.Panics(t, func() { b.DeclareVar(Variable(0), F64) })
	})
	t.Run("def_var of wrong type", func(t *testing.T) {
		b, _ := newPositioned()
		b.DeclareVar(Variable(0), I64)
		assert.Panics(t, func() { b.DefVar(Variable(0), b.F64const(2)) })
	})
	t.Run("instruction after branch", func(t *testing.T) {
		b, blk := newPositioned()
		b.Brnz(b.Iconst(I64, 1), blk)
		assert.Panics(t, func() { b.Iconst(I64, 2) })
	})
	t.Run("icmp with flag condition", func(t *testing.T) {
		b, _ := newPositioned()
		x := b.Iconst(I64, 1)
		assert.Panics(t, func() { b.Icmp(Overflow, x, x) })
	})
	t.Run("trapif on a non-flag value", func(t *testing.T) {
		b, _ := newPositioned()
		x := b.Iconst(I64, 1)
		assert.Panics(t, func() { b.Trapif(Overflow, x, TrapIntegerOverflow) })
	})
}

func TestFunctionString(t *testing.T) {
	expected := `function add(i64, i64) -> i64 {
block0(v0: i64, v1: i64):
    def_var var0, v0
    def_var var1, v1
    v2 = use_var var0
    v3 = use_var var1
    v4, v5 = iadd_ifcout v2, v3
    trapif of v5, int_ovf
    return v4
}
`
	assert.Equal(t, expected, buildAdd().String())
}

func TestInstString(t *testing.T) {
	tests := []struct {
		inst Inst
		want string
	}{
		{Inst{Op: OpIconst, Imm: -3, Results: []Value{0}}, "v0 = iconst -3"},
		{Inst{Op: OpF64const, FImm: 2.5, Results: []Value{1}}, "v1 = f64const 2.5"},
		{Inst{Op: OpIcmp, Cond: SignedGreaterThanOrEqual, Args: []Value{1, 2}, Results: []Value{3}}, "v3 = icmp sge v1, v2"},
		{Inst{Op: OpBrz, Args: []Value{3}, Target: 2}, "brz v3, block2"},
		{Inst{Op: OpFallthrough, Target: 1}, "fallthrough block1"},
		{Inst{Op: OpReturn}, "return"},
		{Inst{Op: OpFneg, Args: []Value{4}, Results: []Value{5}}, "v5 = fneg v4"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inst.String())
		})
	}
}
