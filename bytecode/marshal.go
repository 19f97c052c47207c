package bytecode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/deepnoodle-ai/pyjit/op"
)

// Marshal converts a Code object into a JSON representation.
func Marshal(code *Code) ([]byte, error) {
	def, err := defFromCode(code)
	if err != nil {
		return nil, err
	}
	return json.Marshal(def)
}

// Unmarshal converts a JSON representation into a Code object. Code without
// an ID is assigned a random one.
func Unmarshal(data []byte) (*Code, error) {
	var def codeDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return codeFromDef(&def)
}

// Serialization types

type constantDef struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type argDef struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type instructionDef struct {
	Op     string       `json:"op"`
	Name   string       `json:"name,omitempty"`
	Scope  string       `json:"scope,omitempty"`
	Const  *constantDef `json:"const,omitempty"`
	Target *Label       `json:"target,omitempty"`
	BinOp  string       `json:"binop,omitempty"`
	CmpOp  string       `json:"cmpop,omitempty"`
	Arg    int          `json:"arg,omitempty"`
}

type codeDef struct {
	ID           string           `json:"id,omitempty"`
	Name         string           `json:"name"`
	Filename     string           `json:"filename,omitempty"`
	Args         []argDef         `json:"args"`
	Labels       map[Label]int    `json:"labels"`
	Instructions []instructionDef `json:"instructions"`
}

func defFromCode(code *Code) (*codeDef, error) {
	def := &codeDef{
		ID:           code.ID(),
		Name:         code.Name(),
		Filename:     code.Filename(),
		Args:         make([]argDef, code.ArgCount()),
		Labels:       copyLabels(code.labels),
		Instructions: make([]instructionDef, code.InstructionCount()),
	}
	for i := 0; i < code.ArgCount(); i++ {
		def.Args[i] = argDef{Name: code.ArgNameAt(i), Type: code.ArgAnnotationAt(i)}
	}
	for i := 0; i < code.InstructionCount(); i++ {
		instr, err := marshalInstruction(code.InstructionAt(i))
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		def.Instructions[i] = instr
	}
	return def, nil
}

func marshalInstruction(instr Instruction) (instructionDef, error) {
	info := op.GetInfo(instr.Op)
	if info.Name == "" {
		return instructionDef{}, fmt.Errorf("unknown opcode: %d", instr.Op)
	}
	def := instructionDef{Op: info.Name, Arg: instr.Arg}
	switch instr.Op {
	case op.LoadName, op.StoreName:
		def.Name = instr.Name
		if instr.Scope != ScopeLocal {
			def.Scope = instr.Scope.String()
		}
	case op.LoadConst:
		c, err := marshalConstant(instr.Const)
		if err != nil {
			return instructionDef{}, err
		}
		def.Const = c
	case op.BinaryOp:
		def.BinOp = instr.BinOp.String()
	case op.CompareOp:
		def.CmpOp = instr.CmpOp.String()
	}
	if info.HasTarget {
		target := instr.Target
		def.Target = &target
	}
	return def, nil
}

func marshalConstant(c Constant) (*constantDef, error) {
	var value any
	switch c.Kind() {
	case ConstNone:
		return &constantDef{Type: c.Kind().String()}, nil
	case ConstInteger:
		value = c.String()
	case ConstFloat:
		f, _ := c.Float64()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			value = c.String()
		} else {
			value = f
		}
	case ConstBoolean:
		value, _ = c.Bool()
	case ConstString:
		value, _ = c.Str()
	default:
		return nil, fmt.Errorf("unknown constant kind: %d", c.Kind())
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return &constantDef{Type: c.Kind().String(), Value: data}, nil
}

func codeFromDef(def *codeDef) (*Code, error) {
	instructions := make([]Instruction, len(def.Instructions))
	for i, d := range def.Instructions {
		instr, err := unmarshalInstruction(d)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		instructions[i] = instr
	}
	argNames := make([]string, len(def.Args))
	annotations := make([]string, len(def.Args))
	for i, arg := range def.Args {
		if arg.Name == "" {
			return nil, fmt.Errorf("argument %d has no name", i)
		}
		argNames[i] = arg.Name
		annotations[i] = arg.Type
	}
	id := def.ID
	if id == "" {
		id = newID()
	}
	return NewCode(CodeParams{
		ID:             id,
		Name:           def.Name,
		Filename:       def.Filename,
		Instructions:   instructions,
		Labels:         def.Labels,
		ArgNames:       argNames,
		ArgAnnotations: annotations,
	}), nil
}

func unmarshalInstruction(def instructionDef) (Instruction, error) {
	code, ok := op.Lookup(def.Op)
	if !ok {
		return Instruction{}, fmt.Errorf("unknown opcode: %q", def.Op)
	}
	instr := Instruction{Op: code, Arg: def.Arg}
	switch code {
	case op.LoadName, op.StoreName:
		scope, ok := ParseScope(def.Scope)
		if !ok {
			return Instruction{}, fmt.Errorf("unknown scope: %q", def.Scope)
		}
		instr.Name = def.Name
		instr.Scope = scope
	case op.LoadConst:
		if def.Const == nil {
			return Instruction{}, fmt.Errorf("%s requires a constant", def.Op)
		}
		c, err := unmarshalConstant(def.Const)
		if err != nil {
			return Instruction{}, err
		}
		instr.Const = c
	case op.BinaryOp:
		bop, ok := op.ParseBinaryOp(def.BinOp)
		if !ok {
			return Instruction{}, fmt.Errorf("unknown binary operator: %q", def.BinOp)
		}
		instr.BinOp = bop
	case op.CompareOp:
		cop, ok := op.ParseCompareOp(def.CmpOp)
		if !ok {
			return Instruction{}, fmt.Errorf("unknown comparison operator: %q", def.CmpOp)
		}
		instr.CmpOp = cop
	}
	if op.GetInfo(code).HasTarget {
		if def.Target == nil {
			return Instruction{}, fmt.Errorf("%s requires a target", def.Op)
		}
		instr.Target = *def.Target
	}
	return instr, nil
}

func unmarshalConstant(def *constantDef) (Constant, error) {
	switch def.Type {
	case "none":
		return None(), nil
	case "int":
		text, err := rawText(def.Value)
		if err != nil {
			return Constant{}, err
		}
		v, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return Constant{}, fmt.Errorf("invalid integer constant: %q", text)
		}
		return Constant{kind: ConstInteger, i: v}, nil
	case "float":
		text, err := rawText(def.Value)
		if err != nil {
			return Constant{}, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Constant{}, fmt.Errorf("invalid float constant: %q", text)
		}
		return Float(v), nil
	case "bool":
		var v bool
		if err := json.Unmarshal(def.Value, &v); err != nil {
			return Constant{}, err
		}
		return Bool(v), nil
	case "str":
		var v string
		if err := json.Unmarshal(def.Value, &v); err != nil {
			return Constant{}, err
		}
		return Str(v), nil
	default:
		return Constant{}, fmt.Errorf("unknown constant type: %s", def.Type)
	}
}

// rawText returns a JSON number literally, or the contents of a JSON string.
func rawText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("constant has no value")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(raw), nil
}
