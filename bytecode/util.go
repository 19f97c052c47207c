package bytecode

// copyStrings returns a copy of the given string slice.
func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// copyInstructions returns a copy of the given instruction slice. Integer
// constants are deep copied so callers cannot mutate them afterwards.
func copyInstructions(src []Instruction) []Instruction {
	if src == nil {
		return nil
	}
	dst := make([]Instruction, len(src))
	copy(dst, src)
	for i := range dst {
		if dst[i].Const.kind == ConstInteger && dst[i].Const.i != nil {
			dst[i].Const = BigInt(dst[i].Const.i)
		}
	}
	return dst
}

// copyLabels returns a copy of the given label map.
func copyLabels(src map[Label]int) map[Label]int {
	dst := make(map[Label]int, len(src))
	for label, offset := range src {
		dst[label] = offset
	}
	return dst
}
