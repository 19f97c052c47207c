// Package bytecode provides immutable representations of the stack bytecode
// consumed by the JIT frontend.
//
// A [Code] holds the bytecode of one function: an ordered list of
// [Instruction] values, a map from jump-target [Label] values to instruction
// offsets, and the declared argument names with optional type annotations.
// Code is produced by an external bytecode compiler (or by the [Assembler]
// and [Unmarshal] helpers in this package) and is only read by the JIT.
//
// # Immutability Guarantees
//
// Code is immutable after construction:
//
//   - All fields are unexported
//   - Constructors copy input slices and maps to prevent caller mutation
//   - Accessors return values or fresh copies, never internal state
//
// # Usage
//
//	asm := bytecode.NewAssembler("add").Arg("x", "int").Arg("y", "int")
//	asm.Emit(
//	    bytecode.LoadName("x"),
//	    bytecode.LoadName("y"),
//	    bytecode.BinaryOp(op.Add),
//	    bytecode.ReturnValue(),
//	)
//	code := asm.Code()
//
//	fmt.Printf("Instructions: %d\n", code.InstructionCount())
//	fmt.Printf("Labels: %d\n", code.LabelCount())
package bytecode
