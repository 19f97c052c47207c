package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/pyjit/op"
)

// Label identifies a jump target. The Code's label map resolves it to an
// instruction offset.
type Label uint32

// String returns the label formatted as "L<n>".
func (l Label) String() string {
	return fmt.Sprintf("L%d", uint32(l))
}

// NameScope describes where a name referenced by LOAD_NAME/STORE_NAME lives.
type NameScope uint8

const (
	ScopeLocal NameScope = iota
	ScopeNonLocal
	ScopeGlobal
	ScopeFree
)

// String returns the name of the scope.
func (s NameScope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeNonLocal:
		return "nonlocal"
	case ScopeGlobal:
		return "global"
	case ScopeFree:
		return "free"
	default:
		return "unknown"
	}
}

// ParseScope returns the scope with the given name. The empty string is
// treated as the local scope.
func ParseScope(s string) (NameScope, bool) {
	switch s {
	case "", "local":
		return ScopeLocal, true
	case "nonlocal":
		return ScopeNonLocal, true
	case "global":
		return ScopeGlobal, true
	case "free":
		return ScopeFree, true
	default:
		return 0, false
	}
}

// Instruction is a single bytecode instruction. Which operand fields are
// meaningful depends on Op.
type Instruction struct {
	Op op.Code

	// Name and Scope are used by LOAD_NAME and STORE_NAME.
	Name  string
	Scope NameScope

	// Const is used by LOAD_CONST.
	Const Constant

	// Target is used by jump instructions.
	Target Label

	BinOp op.BinaryOpType
	CmpOp op.CompareOpType

	// Arg is a plain integer operand, e.g. the argument count of CALL.
	Arg int
}

// String returns a human readable representation of the instruction.
func (i Instruction) String() string {
	name := i.Op.String()
	switch i.Op {
	case op.LoadName, op.StoreName:
		if i.Scope != ScopeLocal {
			return fmt.Sprintf("%s %s (%s)", name, i.Name, i.Scope)
		}
		return fmt.Sprintf("%s %s", name, i.Name)
	case op.LoadConst:
		return fmt.Sprintf("%s %s", name, i.Const)
	case op.BinaryOp:
		return fmt.Sprintf("%s %s", name, i.BinOp)
	case op.CompareOp:
		return fmt.Sprintf("%s %s", name, i.CmpOp)
	case op.Call, op.BuildList, op.BuildTuple:
		return fmt.Sprintf("%s %d", name, i.Arg)
	}
	if op.GetInfo(i.Op).HasTarget {
		return fmt.Sprintf("%s %s", name, i.Target)
	}
	return name
}

// LoadConst returns a LOAD_CONST instruction.
func LoadConst(c Constant) Instruction {
	return Instruction{Op: op.LoadConst, Const: c}
}

// LoadName returns a LOAD_NAME instruction for a local name.
func LoadName(name string) Instruction {
	return Instruction{Op: op.LoadName, Name: name}
}

// LoadScopedName returns a LOAD_NAME instruction for a name in the given scope.
func LoadScopedName(name string, scope NameScope) Instruction {
	return Instruction{Op: op.LoadName, Name: name, Scope: scope}
}

// StoreName returns a STORE_NAME instruction for a local name.
func StoreName(name string) Instruction {
	return Instruction{Op: op.StoreName, Name: name}
}

// StoreScopedName returns a STORE_NAME instruction for a name in the given scope.
func StoreScopedName(name string, scope NameScope) Instruction {
	return Instruction{Op: op.StoreName, Name: name, Scope: scope}
}

// Jump returns an unconditional JUMP instruction.
func Jump(target Label) Instruction {
	return Instruction{Op: op.Jump, Target: target}
}

// JumpIfFalse returns a JUMP_IF_FALSE instruction.
func JumpIfFalse(target Label) Instruction {
	return Instruction{Op: op.JumpIfFalse, Target: target}
}

// JumpIfTrue returns a JUMP_IF_TRUE instruction.
func JumpIfTrue(target Label) Instruction {
	return Instruction{Op: op.JumpIfTrue, Target: target}
}

// BinaryOp returns a BINARY_OP instruction.
func BinaryOp(bop op.BinaryOpType) Instruction {
	return Instruction{Op: op.BinaryOp, BinOp: bop}
}

// CompareOp returns a COMPARE_OP instruction.
func CompareOp(cop op.CompareOpType) Instruction {
	return Instruction{Op: op.CompareOp, CmpOp: cop}
}

// ReturnValue returns a RETURN_VALUE instruction.
func ReturnValue() Instruction {
	return Instruction{Op: op.ReturnValue}
}

// Simple returns an instruction that takes no operands, e.g. POP_TOP.
func Simple(code op.Code) Instruction {
	return Instruction{Op: code}
}
