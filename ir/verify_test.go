package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyValid(t *testing.T) {
	require.NoError(t, Verify(buildAdd()))
}

func TestVerifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		build  func(b *Builder)
		errMsg string
	}{
		{
			name: "unterminated block",
			build: func(b *Builder) {
				b.SwitchToBlock(b.CreateBlock())
				b.Iconst(I64, 1)
			},
			errMsg: "ir: verify: block0: block is not terminated",
		},
		{
			name: "empty block",
			build: func(b *Builder) {
				b.SwitchToBlock(b.CreateBlock())
			},
			errMsg: "ir: verify: block0: block is empty",
		},
		{
			name: "target outside the layout",
			build: func(b *Builder) {
				entry := b.CreateBlock()
				orphan := b.CreateBlock()
				b.SwitchToBlock(entry)
				b.Jump(orphan)
			},
			errMsg: "ir: verify: block0: jump targets block1 which is not in the layout",
		},
		{
			name: "fallthrough to a distant block",
			build: func(b *Builder) {
				b0, b1, b2 := b.CreateBlock(), b.CreateBlock(), b.CreateBlock()
				b.SwitchToBlock(b0)
				b.Fallthrough(b2)
				b.SwitchToBlock(b1)
				b.Return()
				b.SwitchToBlock(b2)
				b.Return()
			},
			errMsg: "ir: verify: block0: fallthrough to block2 is not the next block",
		},
		{
			name: "return without a declared return type",
			build: func(b *Builder) {
				b.SwitchToBlock(b.CreateBlock())
				b.Return(b.Iconst(I64, 1))
			},
			errMsg: "ir: verify: block0: return of 1 values, signature has 0",
		},
		{
			name: "return of the wrong type",
			build: func(b *Builder) {
				b.SwitchToBlock(b.CreateBlock())
				b.AddReturn(I64)
				b.Return(b.F64const(1))
			},
			errMsg: "ir: verify: block0: return value 0 has type f64, signature has i64",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := NewFunction("f", Signature{})
			tt.build(NewBuilder(fn))
			err := Verify(fn)
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
			var verr *VerifyError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestVerifyEntryParams(t *testing.T) {
	fn := NewFunction("f", Signature{Params: []AbiParam{{Type: I64}}})
	b := NewBuilder(fn)
	b.SwitchToBlock(b.CreateBlock())
	b.Return()
	err := Verify(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry block has 0 params, signature has 1")
}

func TestVerifyNoBlocks(t *testing.T) {
	err := Verify(NewFunction("empty", Signature{}))
	require.Error(t, err)
	assert.Equal(t, "ir: verify: empty has no blocks", err.Error())
}
