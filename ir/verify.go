package ir

import "fmt"

// VerifyError describes a structural problem found by Verify.
type VerifyError struct {
	Block   Block
	Message string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("ir: verify: %s: %s", e.Block, e.Message)
}

// Verify checks the structural well-formedness of a finished function:
//
//   - every laid out block ends in exactly one terminator,
//   - conditional branches only precede the terminator,
//   - every branch target is a laid out block,
//   - a fallthrough targets the next block in the layout,
//   - every return matches the signature's return types,
//   - the entry block's parameters match the signature's parameters.
func Verify(fn *Function) error {
	entry, ok := fn.Entry()
	if !ok {
		return fmt.Errorf("ir: verify: %s has no blocks", fn.Name)
	}
	if err := verifyEntry(fn, entry); err != nil {
		return err
	}
	position := make(map[Block]int, len(fn.layout))
	for i, blk := range fn.layout {
		position[blk] = i
	}
	for i, blk := range fn.layout {
		insts := fn.blocks[blk].insts
		if len(insts) == 0 {
			return &VerifyError{Block: blk, Message: "block is empty"}
		}
		seenBranch := false
		for j, inst := range insts {
			last := j == len(insts)-1
			switch {
			case inst.Op.IsTerminator() && !last:
				return &VerifyError{Block: blk, Message: fmt.Sprintf("%s is not the last instruction", inst.Op)}
			case !inst.Op.IsTerminator() && last:
				return &VerifyError{Block: blk, Message: "block is not terminated"}
			case inst.Op.IsBranch():
				seenBranch = true
			case seenBranch && !inst.Op.IsTerminator():
				return &VerifyError{Block: blk, Message: fmt.Sprintf("%s follows a branch", inst.Op)}
			}
			if inst.Op.IsBranch() || inst.Op == OpJump || inst.Op == OpFallthrough {
				if _, ok := position[inst.Target]; !ok {
					return &VerifyError{Block: blk, Message: fmt.Sprintf("%s targets %s which is not in the layout", inst.Op, inst.Target)}
				}
			}
			if inst.Op == OpFallthrough {
				if i+1 >= len(fn.layout) || fn.layout[i+1] != inst.Target {
					return &VerifyError{Block: blk, Message: fmt.Sprintf("fallthrough to %s is not the next block", inst.Target)}
				}
			}
			if inst.Op == OpReturn {
				if err := verifyReturn(fn, blk, inst); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func verifyEntry(fn *Function, entry Block) error {
	params := fn.blocks[entry].params
	if len(params) != len(fn.Signature.Params) {
		return &VerifyError{Block: entry, Message: fmt.Sprintf(
			"entry block has %d params, signature has %d", len(params), len(fn.Signature.Params))}
	}
	for i, p := range params {
		if fn.values[p] != fn.Signature.Params[i].Type {
			return &VerifyError{Block: entry, Message: fmt.Sprintf(
				"entry param %d has type %s, signature has %s", i, fn.values[p], fn.Signature.Params[i].Type)}
		}
	}
	return nil
}

func verifyReturn(fn *Function, blk Block, inst Inst) error {
	returns := fn.Signature.Returns
	if len(inst.Args) != len(returns) {
		return &VerifyError{Block: blk, Message: fmt.Sprintf(
			"return of %d values, signature has %d", len(inst.Args), len(returns))}
	}
	for i, v := range inst.Args {
		if got := fn.ValueType(v); got != returns[i].Type {
			return &VerifyError{Block: blk, Message: fmt.Sprintf(
				"return value %d has type %s, signature has %s", i, got, returns[i].Type)}
		}
	}
	return nil
}
