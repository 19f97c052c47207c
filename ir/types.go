package ir

import "fmt"

// Type is the machine-level type of an IR value.
type Type uint8

const (
	InvalidType Type = iota
	// I64 is a 64-bit integer. Signedness is a property of the operations.
	I64
	// F64 is an IEEE 754 double precision float.
	F64
	// IFlags holds the overflow flag produced by the checked integer
	// operations. It may only be consumed by trapif.
	IFlags
)

// String returns the textual name of the type, e.g. "i64".
func (t Type) String() string {
	switch t {
	case I64:
		return "i64"
	case F64:
		return "f64"
	case IFlags:
		return "iflags"
	default:
		return "invalid"
	}
}

// Value is a handle to an SSA value of a Function.
type Value uint32

func (v Value) String() string {
	return fmt.Sprintf("v%d", uint32(v))
}

// Block is a handle to a basic block of a Function.
type Block uint32

func (b Block) String() string {
	return fmt.Sprintf("block%d", uint32(b))
}

// Variable is a handle to a mutable, typed local slot of a Function.
type Variable uint32

func (v Variable) String() string {
	return fmt.Sprintf("var%d", uint32(v))
}

// IntCC is an integer condition code.
type IntCC uint8

const (
	Equal IntCC = iota + 1
	NotEqual
	SignedLessThan
	SignedLessThanOrEqual
	SignedGreaterThan
	SignedGreaterThanOrEqual
	// Overflow and NotOverflow test an IFlags value.
	Overflow
	NotOverflow
)

var intCCNames = map[IntCC]string{
	Equal:                    "eq",
	NotEqual:                 "ne",
	SignedLessThan:           "slt",
	SignedLessThanOrEqual:    "sle",
	SignedGreaterThan:        "sgt",
	SignedGreaterThanOrEqual: "sge",
	Overflow:                 "of",
	NotOverflow:              "nof",
}

func (cc IntCC) String() string {
	if name, ok := intCCNames[cc]; ok {
		return name
	}
	return "invalid"
}

// isComparison reports whether the condition code compares two integers.
func (cc IntCC) isComparison() bool {
	return cc >= Equal && cc <= SignedGreaterThanOrEqual
}

// TrapCode identifies the reason for a trap.
type TrapCode uint8

const (
	TrapIntegerOverflow TrapCode = iota + 1
	TrapUnreachable
)

func (c TrapCode) String() string {
	switch c {
	case TrapIntegerOverflow:
		return "int_ovf"
	case TrapUnreachable:
		return "unreachable"
	default:
		return "invalid"
	}
}

// Opcode identifies an IR instruction.
type Opcode uint8

const (
	OpIconst Opcode = iota + 1
	OpF64const
	OpUseVar
	OpDefVar
	OpIaddIfcout
	OpIsubIfbout
	OpIcmp
	OpFadd
	OpFsub
	OpFmul
	OpFdiv
	OpFneg
	OpTrapif
	OpBrz
	OpBrnz
	OpJump
	OpFallthrough
	OpReturn
)

var opcodeNames = map[Opcode]string{
	OpIconst:      "iconst",
	OpF64const:    "f64const",
	OpUseVar:      "use_var",
	OpDefVar:      "def_var",
	OpIaddIfcout:  "iadd_ifcout",
	OpIsubIfbout:  "isub_ifbout",
	OpIcmp:        "icmp",
	OpFadd:        "fadd",
	OpFsub:        "fsub",
	OpFmul:        "fmul",
	OpFdiv:        "fdiv",
	OpFneg:        "fneg",
	OpTrapif:      "trapif",
	OpBrz:         "brz",
	OpBrnz:        "brnz",
	OpJump:        "jump",
	OpFallthrough: "fallthrough",
	OpReturn:      "return",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "invalid"
}

// IsTerminator reports whether the instruction ends a block.
func (o Opcode) IsTerminator() bool {
	return o == OpJump || o == OpFallthrough || o == OpReturn
}

// IsBranch reports whether the instruction is a conditional branch. A
// conditional branch may only be followed by other branches and the block's
// terminator.
func (o Opcode) IsBranch() bool {
	return o == OpBrz || o == OpBrnz
}
