package bytecode

import (
	"testing"

	"github.com/deepnoodle-ai/pyjit/op"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTrip(t *testing.T) {
	asm := NewAssembler("branchy").WithID("abc").WithFilename("b.py").
		Arg("x", "int").Arg("y", "")
	elseLabel := asm.NewLabel()
	asm.Emit(
		LoadName("x"),
		LoadConst(Int(3)),
		CompareOp(op.LessThan),
		JumpIfFalse(elseLabel),
		LoadConst(Float(1.25)),
		ReturnValue(),
	)
	asm.Mark(elseLabel)
	asm.Emit(
		LoadScopedName("g", ScopeGlobal),
		LoadConst(Str("s")),
		BinaryOp(op.Add),
		ReturnValue(),
	)
	code := asm.Code()

	data, err := Marshal(code)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, "abc", decoded.ID())
	assert.Equal(t, "branchy", decoded.Name())
	assert.Equal(t, "b.py", decoded.Filename())
	assert.Equal(t, []string{"x", "y"}, decoded.ArgNames())
	assert.Equal(t, "int", decoded.ArgAnnotationAt(0))
	assert.Equal(t, code.OffsetLabels(), decoded.OffsetLabels())
	require.Equal(t, code.InstructionCount(), decoded.InstructionCount())
	for i := 0; i < code.InstructionCount(); i++ {
		assert.Equal(t, code.InstructionAt(i).String(), decoded.InstructionAt(i).String(), "instruction %d", i)
	}
	assert.Equal(t, ScopeGlobal, decoded.InstructionAt(6).Scope)
}

func TestUnmarshalProgram(t *testing.T) {
	src := `{
		"name": "f",
		"args": [{"name": "x", "type": "int"}],
		"labels": {"0": 3},
		"instructions": [
			{"op": "LOAD_CONST", "const": {"type": "int", "value": 99999999999999999999999}},
			{"op": "LOAD_CONST", "const": {"type": "float", "value": "inf"}},
			{"op": "JUMP", "target": 0},
			{"op": "RETURN_VALUE"}
		]
	}`
	code, err := Unmarshal([]byte(src))
	require.NoError(t, err)

	_, err = uuid.FromString(code.ID())
	assert.NoError(t, err)

	big := code.InstructionAt(0).Const
	assert.Equal(t, ConstInteger, big.Kind())
	assert.Equal(t, "99999999999999999999999", big.String())
	_, ok := big.Int64()
	assert.False(t, ok)

	assert.Equal(t, "+Inf", code.InstructionAt(1).Const.String())
	assert.Equal(t, Label(0), code.InstructionAt(2).Target)
	offset, ok := code.LabelOffset(0)
	assert.True(t, ok)
	assert.Equal(t, 3, offset)
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "unknown opcode",
			input:  `{"instructions": [{"op": "LOAD_FAST"}]}`,
			errMsg: `instruction 0: unknown opcode: "LOAD_FAST"`,
		},
		{
			name:   "jump without target",
			input:  `{"instructions": [{"op": "JUMP"}]}`,
			errMsg: "instruction 0: JUMP requires a target",
		},
		{
			name:   "unknown binary operator",
			input:  `{"instructions": [{"op": "BINARY_OP", "binop": "@"}]}`,
			errMsg: `instruction 0: unknown binary operator: "@"`,
		},
		{
			name:   "unknown comparison operator",
			input:  `{"instructions": [{"op": "COMPARE_OP", "cmpop": "<>"}]}`,
			errMsg: `instruction 0: unknown comparison operator: "<>"`,
		},
		{
			name:   "missing constant",
			input:  `{"instructions": [{"op": "LOAD_CONST"}]}`,
			errMsg: "instruction 0: LOAD_CONST requires a constant",
		},
		{
			name:   "bad integer",
			input:  `{"instructions": [{"op": "LOAD_CONST", "const": {"type": "int", "value": "1.5"}}]}`,
			errMsg: `instruction 0: invalid integer constant: "1.5"`,
		},
		{
			name:   "unknown constant type",
			input:  `{"instructions": [{"op": "LOAD_CONST", "const": {"type": "bytes", "value": ""}}]}`,
			errMsg: "instruction 0: unknown constant type: bytes",
		},
		{
			name:   "unknown scope",
			input:  `{"instructions": [{"op": "LOAD_NAME", "name": "x", "scope": "cell"}]}`,
			errMsg: `instruction 0: unknown scope: "cell"`,
		},
		{
			name:   "unnamed argument",
			input:  `{"args": [{"type": "int"}]}`,
			errMsg: "argument 0 has no name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}
