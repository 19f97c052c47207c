package ir

import "strings"

// AbiParam describes one parameter or return value of a function signature.
type AbiParam struct {
	Type Type
}

// Signature is the machine-level signature of a Function.
type Signature struct {
	Params  []AbiParam
	Returns []AbiParam
}

// String returns the signature formatted as "(i64, f64) -> i64".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteString("(")
	writeParams(&b, s.Params)
	b.WriteString(")")
	if len(s.Returns) > 0 {
		b.WriteString(" -> ")
		writeParams(&b, s.Returns)
	}
	return b.String()
}

func writeParams(b *strings.Builder, params []AbiParam) {
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.String())
	}
}

// Inst is a single IR instruction. Which fields are meaningful depends on Op.
type Inst struct {
	Op      Opcode
	Args    []Value
	Results []Value

	// Imm and FImm hold the immediate of iconst and f64const.
	Imm  int64
	FImm float64

	Cond   IntCC
	Trap   TrapCode
	Target Block
	Var    Variable
}

type blockData struct {
	params   []Value
	insts    []Inst
	inLayout bool
}

// Function is a control-flow graph of typed instructions. Blocks are laid
// out in the order they are first switched to by a Builder; the first block
// in the layout is the entry block.
type Function struct {
	Name      string
	Signature Signature

	blocks []*blockData
	layout []Block
	values []Type
	vars   map[Variable]Type
}

// NewFunction returns an empty function with the given name and signature.
// Return types may be added later while building.
func NewFunction(name string, sig Signature) *Function {
	return &Function{
		Name: name,
		Signature: Signature{
			Params:  append([]AbiParam(nil), sig.Params...),
			Returns: append([]AbiParam(nil), sig.Returns...),
		},
		vars: map[Variable]Type{},
	}
}

// BlockCount returns the number of created blocks, including blocks that
// were never inserted into the layout.
func (f *Function) BlockCount() int {
	return len(f.blocks)
}

// Layout returns the blocks in layout order.
func (f *Function) Layout() []Block {
	return append([]Block(nil), f.layout...)
}

// Entry returns the entry block, if any block has been laid out.
func (f *Function) Entry() (Block, bool) {
	if len(f.layout) == 0 {
		return 0, false
	}
	return f.layout[0], true
}

// BlockParams returns the parameters of the given block.
func (f *Function) BlockParams(b Block) []Value {
	return append([]Value(nil), f.block(b).params...)
}

// Insts returns the instructions of the given block.
func (f *Function) Insts(b Block) []Inst {
	return append([]Inst(nil), f.block(b).insts...)
}

// Terminator returns the last instruction of the block if it is a terminator.
func (f *Function) Terminator(b Block) (Inst, bool) {
	insts := f.block(b).insts
	if len(insts) == 0 || !insts[len(insts)-1].Op.IsTerminator() {
		return Inst{}, false
	}
	return insts[len(insts)-1], true
}

// IsTerminated reports whether the block ends in a terminator.
func (f *Function) IsTerminated(b Block) bool {
	_, ok := f.Terminator(b)
	return ok
}

// ValueType returns the type of the given value.
func (f *Function) ValueType(v Value) Type {
	if int(v) >= len(f.values) {
		return InvalidType
	}
	return f.values[v]
}

// ValueCount returns the number of values defined in the function.
func (f *Function) ValueCount() int {
	return len(f.values)
}

// VarType returns the declared type of the given variable.
func (f *Function) VarType(v Variable) (Type, bool) {
	t, ok := f.vars[v]
	return t, ok
}

// VarCount returns the number of declared variables.
func (f *Function) VarCount() int {
	return len(f.vars)
}

func (f *Function) block(b Block) *blockData {
	if int(b) >= len(f.blocks) {
		panic("ir: unknown block " + b.String())
	}
	return f.blocks[b]
}

func (f *Function) newValue(t Type) Value {
	f.values = append(f.values, t)
	return Value(len(f.values) - 1)
}
