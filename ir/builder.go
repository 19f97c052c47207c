package ir

import "fmt"

// Builder appends instructions to the blocks of a Function. Misuse, such as
// appending to a terminated block or passing a value of the wrong type,
// is a programming error and panics.
type Builder struct {
	fn         *Function
	current    Block
	positioned bool
}

// NewBuilder returns a builder for the given function.
func NewBuilder(fn *Function) *Builder {
	return &Builder{fn: fn}
}

// Function returns the function being built.
func (b *Builder) Function() *Function {
	return b.fn
}

// CreateBlock creates a new, empty block. The block becomes part of the
// layout the first time the builder switches to it.
func (b *Builder) CreateBlock() Block {
	b.fn.blocks = append(b.fn.blocks, &blockData{})
	return Block(len(b.fn.blocks) - 1)
}

// AppendBlockParam adds a parameter of the given type to the block.
func (b *Builder) AppendBlockParam(blk Block, t Type) Value {
	data := b.fn.block(blk)
	v := b.fn.newValue(t)
	data.params = append(data.params, v)
	return v
}

// AppendBlockParamsForFunctionParams adds one block parameter per function
// parameter, in order. It is used on the entry block.
func (b *Builder) AppendBlockParamsForFunctionParams(blk Block) {
	for _, p := range b.fn.Signature.Params {
		b.AppendBlockParam(blk, p.Type)
	}
}

// BlockParams returns the parameters of the given block.
func (b *Builder) BlockParams(blk Block) []Value {
	return b.fn.BlockParams(blk)
}

// SwitchToBlock makes blk the current block.
func (b *Builder) SwitchToBlock(blk Block) {
	data := b.fn.block(blk)
	if !data.inLayout {
		data.inLayout = true
		b.fn.layout = append(b.fn.layout, blk)
	}
	b.current = blk
	b.positioned = true
}

// CurrentBlock returns the current block.
func (b *Builder) CurrentBlock() (Block, bool) {
	return b.current, b.positioned
}

// IsFilled reports whether the current block ends in a terminator.
func (b *Builder) IsFilled() bool {
	if !b.positioned {
		return false
	}
	return b.fn.IsTerminated(b.current)
}

// DeclareVar declares a variable of the given type. Declaring the same
// variable twice panics.
func (b *Builder) DeclareVar(v Variable, t Type) {
	if _, ok := b.fn.vars[v]; ok {
		panic(fmt.Sprintf("ir: %s declared twice", v))
	}
	if t != I64 && t != F64 {
		panic(fmt.Sprintf("ir: %s cannot have type %s", v, t))
	}
	b.fn.vars[v] = t
}

// DefVar assigns val to the variable.
func (b *Builder) DefVar(v Variable, val Value) {
	t := b.varType(v)
	b.expect(val, t)
	b.append(Inst{Op: OpDefVar, Var: v, Args: []Value{val}})
}

// UseVar reads the current value of the variable.
func (b *Builder) UseVar(v Variable) Value {
	t := b.varType(v)
	r := b.fn.newValue(t)
	b.append(Inst{Op: OpUseVar, Var: v, Results: []Value{r}})
	return r
}

// AddReturn appends a return type to the function signature.
func (b *Builder) AddReturn(t Type) {
	b.fn.Signature.Returns = append(b.fn.Signature.Returns, AbiParam{Type: t})
}

// Iconst materializes an integer constant of type t.
func (b *Builder) Iconst(t Type, imm int64) Value {
	if t != I64 {
		panic(fmt.Sprintf("ir: iconst of type %s", t))
	}
	r := b.fn.newValue(t)
	b.append(Inst{Op: OpIconst, Imm: imm, Results: []Value{r}})
	return r
}

// F64const materializes a float constant.
func (b *Builder) F64const(imm float64) Value {
	r := b.fn.newValue(F64)
	b.append(Inst{Op: OpF64const, FImm: imm, Results: []Value{r}})
	return r
}

// IaddIfcout adds two integers and returns the wrapped sum together with
// the overflow flag.
func (b *Builder) IaddIfcout(x, y Value) (Value, Value) {
	return b.checked(OpIaddIfcout, x, y)
}

// IsubIfbout subtracts y from x and returns the wrapped difference together
// with the overflow flag.
func (b *Builder) IsubIfbout(x, y Value) (Value, Value) {
	return b.checked(OpIsubIfbout, x, y)
}

func (b *Builder) checked(opc Opcode, x, y Value) (Value, Value) {
	b.expect(x, I64)
	b.expect(y, I64)
	r := b.fn.newValue(I64)
	flags := b.fn.newValue(IFlags)
	b.append(Inst{Op: opc, Args: []Value{x, y}, Results: []Value{r, flags}})
	return r, flags
}

// Trapif traps with code when cc holds for flags.
func (b *Builder) Trapif(cc IntCC, flags Value, code TrapCode) {
	if cc != Overflow && cc != NotOverflow {
		panic(fmt.Sprintf("ir: trapif with condition %s", cc))
	}
	b.expect(flags, IFlags)
	b.append(Inst{Op: OpTrapif, Cond: cc, Trap: code, Args: []Value{flags}})
}

// Icmp compares two integers and yields 1 when cc holds and 0 otherwise.
func (b *Builder) Icmp(cc IntCC, x, y Value) Value {
	if !cc.isComparison() {
		panic(fmt.Sprintf("ir: icmp with condition %s", cc))
	}
	b.expect(x, I64)
	b.expect(y, I64)
	r := b.fn.newValue(I64)
	b.append(Inst{Op: OpIcmp, Cond: cc, Args: []Value{x, y}, Results: []Value{r}})
	return r
}

func (b *Builder) Fadd(x, y Value) Value { return b.float2(OpFadd, x, y) }
func (b *Builder) Fsub(x, y Value) Value { return b.float2(OpFsub, x, y) }
func (b *Builder) Fmul(x, y Value) Value { return b.float2(OpFmul, x, y) }
func (b *Builder) Fdiv(x, y Value) Value { return b.float2(OpFdiv, x, y) }

// Fneg negates a float.
func (b *Builder) Fneg(x Value) Value {
	b.expect(x, F64)
	r := b.fn.newValue(F64)
	b.append(Inst{Op: OpFneg, Args: []Value{x}, Results: []Value{r}})
	return r
}

func (b *Builder) float2(opc Opcode, x, y Value) Value {
	b.expect(x, F64)
	b.expect(y, F64)
	r := b.fn.newValue(F64)
	b.append(Inst{Op: opc, Args: []Value{x, y}, Results: []Value{r}})
	return r
}

// Brz branches to target when c is zero.
func (b *Builder) Brz(c Value, target Block) {
	b.branch(OpBrz, c, target)
}

// Brnz branches to target when c is non-zero.
func (b *Builder) Brnz(c Value, target Block) {
	b.branch(OpBrnz, c, target)
}

func (b *Builder) branch(opc Opcode, c Value, target Block) {
	b.expect(c, I64)
	b.fn.block(target)
	b.append(Inst{Op: opc, Args: []Value{c}, Target: target})
}

// Jump unconditionally transfers control to target.
func (b *Builder) Jump(target Block) {
	b.fn.block(target)
	b.append(Inst{Op: OpJump, Target: target})
}

// Fallthrough transfers control to target, which must be the next block in
// the layout.
func (b *Builder) Fallthrough(target Block) {
	b.fn.block(target)
	b.append(Inst{Op: OpFallthrough, Target: target})
}

// Return returns the given values from the function.
func (b *Builder) Return(vals ...Value) {
	for _, v := range vals {
		if b.fn.ValueType(v) == InvalidType {
			panic(fmt.Sprintf("ir: return of unknown value %s", v))
		}
	}
	b.append(Inst{Op: OpReturn, Args: append([]Value(nil), vals...)})
}

func (b *Builder) append(inst Inst) {
	if !b.positioned {
		panic("ir: no current block")
	}
	data := b.fn.block(b.current)
	if b.fn.IsTerminated(b.current) {
		panic(fmt.Sprintf("ir: %s is already terminated", b.current))
	}
	if n := len(data.insts); n > 0 && data.insts[n-1].Op.IsBranch() &&
		!inst.Op.IsBranch() && !inst.Op.IsTerminator() {
		panic(fmt.Sprintf("ir: %s after a branch in %s", inst.Op, b.current))
	}
	data.insts = append(data.insts, inst)
}

func (b *Builder) expect(v Value, t Type) {
	if got := b.fn.ValueType(v); got != t {
		panic(fmt.Sprintf("ir: %s has type %s, expected %s", v, got, t))
	}
}

func (b *Builder) varType(v Variable) Type {
	t, ok := b.fn.vars[v]
	if !ok {
		panic(fmt.Sprintf("ir: %s is not declared", v))
	}
	return t
}
