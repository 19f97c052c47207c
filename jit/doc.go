// Package jit compiles the bytecode of a single function into typed IR.
//
// The FunctionCompiler makes one forward pass over the instructions. It
// simulates the operand stack with a type attached to every value, creates
// a block the first time a label is referenced, and infers the return type
// from the first return it translates. Only int and float values are
// modeled. Anything else fails with an error matching ErrNotSupported, and
// structurally invalid bytecode fails with one matching ErrBadBytecode.
//
// Compile wraps this for the common case and yields a verified
// CompiledCode that can be executed with Invoke. CompileAll compiles many
// independent functions in parallel.
package jit
