// Package op defines the opcodes of the stack bytecode consumed by the JIT
// frontend.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Execution
	Nop         Code = 1
	Call        Code = 3
	ReturnValue Code = 4

	// Jump
	Jump        Code = 10
	JumpIfFalse Code = 12
	JumpIfTrue  Code = 13

	// Load
	LoadName  Code = 20
	LoadAttr  Code = 21
	LoadConst Code = 24

	// Store
	StoreName Code = 30
	StoreAttr Code = 31

	// Operations
	BinaryOp      Code = 40
	CompareOp     Code = 41
	UnaryNegative Code = 42
	UnaryNot      Code = 43

	// Build
	BuildList  Code = 50
	BuildTuple Code = 51

	// Containers
	BinarySubscr Code = 60
	StoreSubscr  Code = 61

	// Stack
	Swap      Code = 70
	Duplicate Code = 71
	PopTop    Code = 72

	// Iteration
	ForIter Code = 90
	GetIter Code = 91
)

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint16

const (
	Add         BinaryOpType = 1
	Subtract    BinaryOpType = 2
	Multiply    BinaryOpType = 3
	Divide      BinaryOpType = 4
	Modulo      BinaryOpType = 5
	FloorDivide BinaryOpType = 6
	Power       BinaryOpType = 7
	LShift      BinaryOpType = 8
	RShift      BinaryOpType = 9
	BitwiseAnd  BinaryOpType = 10
	BitwiseOr   BinaryOpType = 11
	Xor         BinaryOpType = 12
)

var binaryOpSymbols = map[BinaryOpType]string{
	Add:         "+",
	Subtract:    "-",
	Multiply:    "*",
	Divide:      "/",
	Modulo:      "%",
	FloorDivide: "//",
	Power:       "**",
	LShift:      "<<",
	RShift:      ">>",
	BitwiseAnd:  "&",
	BitwiseOr:   "|",
	Xor:         "^",
}

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	return binaryOpSymbols[bop]
}

// ParseBinaryOp returns the binary operation with the given symbol.
func ParseBinaryOp(symbol string) (BinaryOpType, bool) {
	for bop, s := range binaryOpSymbols {
		if s == symbol {
			return bop, true
		}
	}
	return 0, false
}

// CompareOpType describes a type of comparison operation. For example, less
// than, greater than, equal, etc.
type CompareOpType uint16

const (
	LessThan           CompareOpType = 1
	LessThanOrEqual    CompareOpType = 2
	Equal              CompareOpType = 3
	NotEqual           CompareOpType = 4
	GreaterThan        CompareOpType = 5
	GreaterThanOrEqual CompareOpType = 6
	Is                 CompareOpType = 7
	IsNot              CompareOpType = 8
	In                 CompareOpType = 9
	NotIn              CompareOpType = 10
)

var compareOpSymbols = map[CompareOpType]string{
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	Equal:              "==",
	NotEqual:           "!=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	Is:                 "is",
	IsNot:              "is not",
	In:                 "in",
	NotIn:              "not in",
}

// String returns a string representation of the comparison operation.
// For example "<" for less than.
func (cop CompareOpType) String() string {
	return compareOpSymbols[cop]
}

// ParseCompareOp returns the comparison operation with the given symbol.
func ParseCompareOp(symbol string) (CompareOpType, bool) {
	for cop, s := range compareOpSymbols {
		if s == symbol {
			return cop, true
		}
	}
	return 0, false
}

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string

	// HasTarget is true for opcodes whose operand is a jump target label.
	HasTarget bool
}

var (
	infos  = make([]Info, 256)
	byName = map[string]Code{}
)

func init() {
	type opInfo struct {
		op     Code
		name   string
		target bool
	}
	ops := []opInfo{
		{BinaryOp, "BINARY_OP", false},
		{BinarySubscr, "BINARY_SUBSCR", false},
		{BuildList, "BUILD_LIST", false},
		{BuildTuple, "BUILD_TUPLE", false},
		{Call, "CALL", false},
		{CompareOp, "COMPARE_OP", false},
		{Duplicate, "DUPLICATE", false},
		{ForIter, "FOR_ITER", true},
		{GetIter, "GET_ITER", false},
		{Jump, "JUMP", true},
		{JumpIfFalse, "JUMP_IF_FALSE", true},
		{JumpIfTrue, "JUMP_IF_TRUE", true},
		{LoadAttr, "LOAD_ATTR", false},
		{LoadConst, "LOAD_CONST", false},
		{LoadName, "LOAD_NAME", false},
		{Nop, "NOP", false},
		{PopTop, "POP_TOP", false},
		{ReturnValue, "RETURN_VALUE", false},
		{StoreAttr, "STORE_ATTR", false},
		{StoreName, "STORE_NAME", false},
		{StoreSubscr, "STORE_SUBSCR", false},
		{Swap, "SWAP", false},
		{UnaryNegative, "UNARY_NEGATIVE", false},
		{UnaryNot, "UNARY_NOT", false},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:      o.op,
			Name:      o.name,
			HasTarget: o.target,
		}
		byName[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	if int(op) >= len(infos) {
		return Info{}
	}
	return infos[op]
}

// Lookup returns the opcode with the given name, e.g. "LOAD_CONST".
func Lookup(name string) (Code, bool) {
	code, ok := byName[name]
	return code, ok
}

// String returns the opcode name, e.g. "LOAD_CONST".
func (c Code) String() string {
	if name := GetInfo(c).Name; name != "" {
		return name
	}
	return "INVALID"
}
