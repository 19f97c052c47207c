package bytecode

import (
	"testing"

	"github.com/deepnoodle-ai/pyjit/op"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblerForwardAndBackwardLabels(t *testing.T) {
	asm := NewAssembler("loop").Arg("n", "int")
	top := asm.NewLabel()
	end := asm.NewLabel()
	asm.Mark(top)
	asm.Emit(
		LoadName("n"),
		JumpIfFalse(end),
		Jump(top),
	)
	asm.Mark(end)
	asm.Emit(LoadName("n"), ReturnValue())
	code := asm.Code()

	require.Equal(t, 5, code.InstructionCount())
	offset, ok := code.LabelOffset(top)
	assert.True(t, ok)
	assert.Equal(t, 0, offset)
	offset, ok = code.LabelOffset(end)
	assert.True(t, ok)
	assert.Equal(t, 3, offset)
	assert.Equal(t, op.JumpIfFalse, code.InstructionAt(1).Op)
	assert.Equal(t, end, code.InstructionAt(1).Target)
	assert.Equal(t, []string{"n"}, code.ArgNames())
	assert.Equal(t, "int", code.ArgAnnotationAt(0))
}

func TestAssemblerAssignsID(t *testing.T) {
	code := NewAssembler("f").Code()
	_, err := uuid.FromString(code.ID())
	assert.NoError(t, err)

	code = NewAssembler("f").WithID("fixed").WithFilename("f.py").Code()
	assert.Equal(t, "fixed", code.ID())
	assert.Equal(t, "f.py", code.Filename())
}

func TestAssemblerMarkTwicePanics(t *testing.T) {
	asm := NewAssembler("f")
	label := asm.NewLabel()
	asm.Mark(label)
	assert.Panics(t, func() { asm.Mark(label) })
}

func TestAssemblerExplicitLabelAdvancesAllocator(t *testing.T) {
	asm := NewAssembler("f")
	asm.Mark(Label(5))
	assert.Equal(t, Label(6), asm.NewLabel())
	assert.Equal(t, 0, asm.Offset())
}
