// Package ir is a small typed, basic-block intermediate representation in
// SSA form with mutable variables.
//
// A Builder appends instructions to the blocks of a Function. Integer
// addition and subtraction produce an overflow flag alongside the result,
// which trapif consumes. Verify checks the structure of a finished function
// and Execute interprets it, which is how compiled functions are run and
// tested.
package ir
