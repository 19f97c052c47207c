package bytecode

import (
	"math/big"
	"testing"

	"github.com/deepnoodle-ai/pyjit/op"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeImmutability(t *testing.T) {
	instructions := []Instruction{LoadName("x"), ReturnValue()}
	labels := map[Label]int{0: 1}
	argNames := []string{"x"}
	annotations := []string{"int"}

	code := NewCode(CodeParams{
		ID:             "test",
		Name:           "f",
		Instructions:   instructions,
		Labels:         labels,
		ArgNames:       argNames,
		ArgAnnotations: annotations,
	})

	instructions[0] = Simple(op.Nop)
	labels[0] = 99
	labels[7] = 0
	argNames[0] = "modified"
	annotations[0] = "float"

	assert.Equal(t, op.LoadName, code.InstructionAt(0).Op)
	offset, ok := code.LabelOffset(0)
	assert.True(t, ok)
	assert.Equal(t, 1, offset)
	assert.Equal(t, 1, code.LabelCount())
	assert.Equal(t, "x", code.ArgNameAt(0))
	assert.Equal(t, "int", code.ArgAnnotationAt(0))

	names := code.ArgNames()
	names[0] = "changed"
	assert.Equal(t, "x", code.ArgNameAt(0))
}

func TestNewCodeCopiesIntegerConstants(t *testing.T) {
	v := big.NewInt(5)
	instructions := []Instruction{LoadConst(Constant{kind: ConstInteger, i: v})}
	code := NewCode(CodeParams{Instructions: instructions})
	v.SetInt64(6)

	got, ok := code.InstructionAt(0).Const.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(5), got)
}

func TestCodeAccessors(t *testing.T) {
	code := NewCode(CodeParams{
		ID:       "id-1",
		Name:     "g",
		Filename: "g.py",
		ArgNames: []string{"a", "b"},
	})
	assert.Equal(t, "id-1", code.ID())
	assert.Equal(t, "g", code.Name())
	assert.Equal(t, "g.py", code.Filename())
	assert.Equal(t, 2, code.ArgCount())
	assert.Equal(t, "", code.ArgAnnotationAt(1))
	assert.Equal(t, 0, code.InstructionCount())
	assert.Empty(t, code.Labels())
}

func TestOffsetLabels(t *testing.T) {
	code := NewCode(CodeParams{
		Instructions: []Instruction{Simple(op.Nop), Simple(op.Nop), Simple(op.Nop)},
		Labels:       map[Label]int{4: 2, 1: 0, 3: 2},
	})
	assert.Equal(t, []Label{1, 3, 4}, code.Labels())
	assert.Equal(t, map[int][]Label{
		0: {1},
		2: {3, 4},
	}, code.OffsetLabels())
}
