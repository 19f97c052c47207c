package jit

import (
	"fmt"

	"github.com/deepnoodle-ai/pyjit/bytecode"
	"github.com/deepnoodle-ai/pyjit/ir"
	"github.com/deepnoodle-ai/pyjit/op"
)

// FunctionBuilder is the subset of the IR builder the compiler drives.
// *ir.Builder implements it.
type FunctionBuilder interface {
	CreateBlock() ir.Block
	SwitchToBlock(blk ir.Block)
	IsFilled() bool
	BlockParams(blk ir.Block) []ir.Value
	AddReturn(t ir.Type)

	DeclareVar(v ir.Variable, t ir.Type)
	DefVar(v ir.Variable, val ir.Value)
	UseVar(v ir.Variable) ir.Value

	Iconst(t ir.Type, imm int64) ir.Value
	F64const(imm float64) ir.Value
	IaddIfcout(x, y ir.Value) (ir.Value, ir.Value)
	IsubIfbout(x, y ir.Value) (ir.Value, ir.Value)
	Trapif(cc ir.IntCC, flags ir.Value, code ir.TrapCode)
	Icmp(cc ir.IntCC, x, y ir.Value) ir.Value
	Fadd(x, y ir.Value) ir.Value
	Fsub(x, y ir.Value) ir.Value
	Fmul(x, y ir.Value) ir.Value
	Fdiv(x, y ir.Value) ir.Value
	Fneg(x ir.Value) ir.Value

	Brz(c ir.Value, target ir.Block)
	Brnz(c ir.Value, target ir.Block)
	Jump(target ir.Block)
	Fallthrough(target ir.Block)
	Return(vals ...ir.Value)
}

var _ FunctionBuilder = (*ir.Builder)(nil)

var compareConds = map[op.CompareOpType]ir.IntCC{
	op.Equal:              ir.Equal,
	op.NotEqual:           ir.NotEqual,
	op.LessThan:           ir.SignedLessThan,
	op.LessThanOrEqual:    ir.SignedLessThanOrEqual,
	op.GreaterThan:        ir.SignedGreaterThan,
	op.GreaterThanOrEqual: ir.SignedGreaterThanOrEqual,
}

// FunctionCompiler translates the bytecode of one function into IR in a
// single forward pass. It is not safe for concurrent use and compiles
// exactly one function.
type FunctionCompiler struct {
	builder FunctionBuilder
	cfg     *config
	stack   []TypedValue
	locals  map[string]Local
	labels  map[bytecode.Label]ir.Block
	sig     Signature

	code   *bytecode.Code
	offset int
	opcode op.Code
}

// NewFunctionCompiler returns a compiler that appends to b, starting in the
// entry block. The entry block must carry one parameter per argument; each
// argument is bound to a local of its name. A mismatch between the number
// of names, types and entry parameters panics.
func NewFunctionCompiler(b FunctionBuilder, argNames []string, argTypes []Type, entry ir.Block, opts ...Option) *FunctionCompiler {
	params := b.BlockParams(entry)
	if len(argNames) != len(argTypes) || len(argNames) != len(params) {
		panic(fmt.Sprintf("jit: %d argument names, %d types and %d entry parameters",
			len(argNames), len(argTypes), len(params)))
	}
	c := &FunctionCompiler{
		builder: b,
		cfg:     newConfig(opts...),
		locals:  map[string]Local{},
		labels:  map[bytecode.Label]ir.Block{},
		sig:     Signature{Args: append([]Type(nil), argTypes...)},
		offset:  NoOffset,
	}
	b.SwitchToBlock(entry)
	for i, name := range argNames {
		if err := c.storeLocal(name, TypedValue{Val: params[i], Type: argTypes[i]}); err != nil {
			panic(fmt.Sprintf("jit: binding argument %q: %v", name, err))
		}
	}
	return c
}

// Signature returns the signature inferred so far.
func (c *FunctionCompiler) Signature() Signature {
	sig := c.sig
	sig.Args = append([]Type(nil), c.sig.Args...)
	return sig
}

// Compile translates code. The first failure aborts compilation and is
// returned as a *CompileError; the partially built function must then be
// discarded.
func (c *FunctionCompiler) Compile(code *bytecode.Code) error {
	c.code = code
	offsetLabels := code.OffsetLabels()
	count := code.InstructionCount()
	for offset := 0; offset < count; offset++ {
		instr := code.InstructionAt(offset)
		c.offset, c.opcode = offset, instr.Op
		if labels, ok := offsetLabels[offset]; ok {
			c.enterLabels(labels)
		}
		// Instructions between a terminator and the next label are dead.
		if c.builder.IsFilled() {
			continue
		}
		if err := c.addInstruction(instr); err != nil {
			return err
		}
	}
	if !c.builder.IsFilled() {
		c.offset, c.opcode = count, op.Invalid
		return c.errorf(KindBadBytecode, "control reaches the end of the code")
	}
	return nil
}

// enterLabels starts the block for the labels bound at the current offset.
// All labels at one offset share a block; blocks created earlier for the
// extra labels by forward jumps are routed into it.
func (c *FunctionCompiler) enterLabels(labels []bytecode.Label) {
	block, found := ir.Block(0), false
	for _, label := range labels {
		if b, ok := c.labels[label]; ok {
			block, found = b, true
			break
		}
	}
	if !found {
		block = c.builder.CreateBlock()
	}
	var trampolines []ir.Block
	for _, label := range labels {
		if b, ok := c.labels[label]; ok && b != block {
			trampolines = append(trampolines, b)
		}
		c.labels[label] = block
	}
	if !c.builder.IsFilled() {
		c.builder.Jump(block)
	}
	for _, b := range trampolines {
		c.builder.SwitchToBlock(b)
		c.builder.Jump(block)
	}
	c.builder.SwitchToBlock(block)
}

// target returns the block for a jump target, creating it on first use.
func (c *FunctionCompiler) target(label bytecode.Label) (ir.Block, error) {
	offset, ok := c.code.LabelOffset(label)
	if !ok {
		return 0, c.errorf(KindBadBytecode, "undefined jump target %s", label)
	}
	if offset < 0 || offset >= c.code.InstructionCount() {
		return 0, c.errorf(KindBadBytecode, "jump target %s is outside the code (offset %d)", label, offset)
	}
	if b, ok := c.labels[label]; ok {
		return b, nil
	}
	b := c.builder.CreateBlock()
	c.labels[label] = b
	return b, nil
}

func (c *FunctionCompiler) addInstruction(instr bytecode.Instruction) error {
	switch instr.Op {
	case op.Nop:
		return nil
	case op.JumpIfFalse, op.JumpIfTrue:
		return c.conditionalJump(instr)
	case op.Jump:
		target, err := c.target(instr.Target)
		if err != nil {
			return err
		}
		c.builder.Jump(target)
		return nil
	case op.LoadName:
		if err := c.checkScope(instr); err != nil {
			return err
		}
		local, ok := c.locals[instr.Name]
		if !ok {
			return c.errorf(KindBadBytecode, "name %q is not defined", instr.Name)
		}
		c.push(TypedValue{Val: c.builder.UseVar(local.Var), Type: local.Type})
		return nil
	case op.StoreName:
		if err := c.checkScope(instr); err != nil {
			return err
		}
		val, err := c.pop()
		if err != nil {
			return err
		}
		return c.storeLocal(instr.Name, val)
	case op.LoadConst:
		return c.loadConst(instr.Const)
	case op.ReturnValue:
		return c.returnValue()
	case op.CompareOp:
		return c.compare(instr.CmpOp)
	case op.BinaryOp:
		return c.binaryOp(instr.BinOp)
	case op.UnaryNegative:
		return c.negate()
	case op.PopTop:
		_, err := c.pop()
		return err
	default:
		return c.errorf(KindNotSupported, "unsupported opcode")
	}
}

func (c *FunctionCompiler) conditionalJump(instr bytecode.Instruction) error {
	cond, err := c.pop()
	if err != nil {
		return err
	}
	thenBlock, err := c.target(instr.Target)
	if err != nil {
		return err
	}
	val, err := c.booleanValue(cond)
	if err != nil {
		return err
	}
	if instr.Op == op.JumpIfFalse {
		c.builder.Brz(val, thenBlock)
	} else {
		c.builder.Brnz(val, thenBlock)
	}
	block := c.builder.CreateBlock()
	c.builder.Fallthrough(block)
	c.builder.SwitchToBlock(block)
	return nil
}

func (c *FunctionCompiler) checkScope(instr bytecode.Instruction) error {
	if instr.Scope != bytecode.ScopeLocal {
		return c.errorf(KindNotSupported, "%s name %q", instr.Scope, instr.Name)
	}
	return nil
}

func (c *FunctionCompiler) storeLocal(name string, val TypedValue) error {
	local, ok := c.locals[name]
	if !ok {
		local = Local{Var: ir.Variable(len(c.locals)), Type: val.Type}
		c.builder.DeclareVar(local.Var, val.Type.IR())
		c.locals[name] = local
	}
	if val.Type != local.Type {
		return c.errorf(KindNotSupported, "cannot store %s to %q of type %s", val.Type, name, local.Type)
	}
	c.builder.DefVar(local.Var, val.Val)
	return nil
}

func (c *FunctionCompiler) loadConst(constant bytecode.Constant) error {
	switch constant.Kind() {
	case bytecode.ConstInteger:
		v, ok := constant.Int64()
		if !ok {
			return c.errorf(KindNotSupported, "integer %s does not fit in 64 bits", constant)
		}
		c.push(TypedValue{Val: c.builder.Iconst(ir.I64, v), Type: Int})
	case bytecode.ConstFloat:
		v, _ := constant.Float64()
		c.push(TypedValue{Val: c.builder.F64const(v), Type: Float})
	default:
		return c.errorf(KindNotSupported, "%s constant", constant.Kind())
	}
	return nil
}

func (c *FunctionCompiler) returnValue() error {
	val, err := c.pop()
	if err != nil {
		return err
	}
	if c.sig.HasRet {
		if val.Type != c.sig.Ret {
			return c.errorf(KindNotSupported, "return of %s conflicts with return type %s", val.Type, c.sig.Ret)
		}
	} else {
		c.sig.Ret, c.sig.HasRet = val.Type, true
		c.builder.AddReturn(val.Type.IR())
	}
	c.builder.Return(val.Val)
	return nil
}

func (c *FunctionCompiler) compare(cmp op.CompareOpType) error {
	// The right operand is on top.
	b, a, err := c.pop2()
	if err != nil {
		return err
	}
	if a.Type != Int || b.Type != Int {
		return c.errorf(KindNotSupported, "comparison %s %s %s", a.Type, cmp, b.Type)
	}
	cond, ok := compareConds[cmp]
	if !ok {
		return c.errorf(KindNotSupported, "comparison operator %s", cmp)
	}
	if cmp == op.GreaterThanOrEqual && c.cfg.legacyGreaterOrEqual {
		cond = ir.SignedLessThanOrEqual
	}
	c.push(TypedValue{Val: c.builder.Icmp(cond, a.Val, b.Val), Type: Int})
	return nil
}

func (c *FunctionCompiler) binaryOp(bop op.BinaryOpType) error {
	// The right operand is on top.
	b, a, err := c.pop2()
	if err != nil {
		return err
	}
	switch {
	case a.Type == Int && b.Type == Int:
		var out, flags ir.Value
		switch bop {
		case op.Add:
			out, flags = c.builder.IaddIfcout(a.Val, b.Val)
		case op.Subtract:
			out, flags = c.builder.IsubIfbout(a.Val, b.Val)
		default:
			return c.errorf(KindNotSupported, "operator %s for int and int", bop)
		}
		c.builder.Trapif(ir.Overflow, flags, ir.TrapIntegerOverflow)
		c.push(TypedValue{Val: out, Type: Int})
	case a.Type == Float && b.Type == Float:
		var out ir.Value
		switch bop {
		case op.Add:
			out = c.builder.Fadd(a.Val, b.Val)
		case op.Subtract:
			out = c.builder.Fsub(a.Val, b.Val)
		case op.Multiply:
			out = c.builder.Fmul(a.Val, b.Val)
		case op.Divide:
			out = c.builder.Fdiv(a.Val, b.Val)
		default:
			return c.errorf(KindNotSupported, "operator %s for float and float", bop)
		}
		c.push(TypedValue{Val: out, Type: Float})
	default:
		return c.errorf(KindNotSupported, "operator %s for %s and %s", bop, a.Type, b.Type)
	}
	return nil
}

func (c *FunctionCompiler) negate() error {
	val, err := c.pop()
	if err != nil {
		return err
	}
	switch val.Type {
	case Int:
		zero := c.builder.Iconst(ir.I64, 0)
		out, flags := c.builder.IsubIfbout(zero, val.Val)
		c.builder.Trapif(ir.Overflow, flags, ir.TrapIntegerOverflow)
		c.push(TypedValue{Val: out, Type: Int})
	default:
		c.push(TypedValue{Val: c.builder.Fneg(val.Val), Type: Float})
	}
	return nil
}

// booleanValue returns the value to test in a branch. Only integers have a
// truth value.
func (c *FunctionCompiler) booleanValue(val TypedValue) (ir.Value, error) {
	if val.Type != Int {
		return 0, c.errorf(KindNotSupported, "branch on %s", val.Type)
	}
	return val.Val, nil
}

func (c *FunctionCompiler) push(val TypedValue) {
	c.stack = append(c.stack, val)
}

func (c *FunctionCompiler) pop() (TypedValue, error) {
	if len(c.stack) == 0 {
		return TypedValue{}, c.errorf(KindBadBytecode, "pop from empty stack")
	}
	val := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return val, nil
}

// pop2 pops the top value and then the one below it.
func (c *FunctionCompiler) pop2() (top, below TypedValue, err error) {
	if top, err = c.pop(); err != nil {
		return
	}
	below, err = c.pop()
	return
}

func (c *FunctionCompiler) errorf(kind ErrorKind, format string, args ...any) error {
	return &CompileError{
		Kind:    kind,
		Offset:  c.offset,
		Op:      c.opcode,
		Message: fmt.Sprintf(format, args...),
	}
}
