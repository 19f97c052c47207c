package bytecode

import (
	"sort"
)

// Code is the bytecode of a single function: its instructions, the map from
// jump-target labels to instruction offsets, and its declared arguments.
// It is immutable after creation and safe for concurrent use.
type Code struct {
	id       string
	name     string
	filename string

	instructions []Instruction
	labels       map[Label]int

	argNames       []string
	argAnnotations []string
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	ID           string
	Name         string
	Filename     string
	Instructions []Instruction
	Labels       map[Label]int
	ArgNames     []string

	// ArgAnnotations optionally holds one type annotation per argument,
	// e.g. "int". An empty string means the argument is unannotated.
	ArgAnnotations []string
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices and maps are copied to ensure immutability.
func NewCode(params CodeParams) *Code {
	annotations := make([]string, len(params.ArgNames))
	copy(annotations, params.ArgAnnotations)
	return &Code{
		id:             params.ID,
		name:           params.Name,
		filename:       params.Filename,
		instructions:   copyInstructions(params.Instructions),
		labels:         copyLabels(params.Labels),
		argNames:       copyStrings(params.ArgNames),
		argAnnotations: annotations,
	}
}

// ID returns the unique identifier for this code.
func (c *Code) ID() string {
	return c.id
}

// Name returns the function name.
func (c *Code) Name() string {
	return c.name
}

// Filename returns the source filename.
func (c *Code) Filename() string {
	return c.filename
}

// InstructionCount returns the number of instructions.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given offset.
func (c *Code) InstructionAt(offset int) Instruction {
	return c.instructions[offset]
}

// LabelCount returns the number of labels in the label map.
func (c *Code) LabelCount() int {
	return len(c.labels)
}

// LabelOffset returns the instruction offset for the given label.
func (c *Code) LabelOffset(label Label) (int, bool) {
	offset, ok := c.labels[label]
	return offset, ok
}

// Labels returns all labels in ascending order.
func (c *Code) Labels() []Label {
	labels := make([]Label, 0, len(c.labels))
	for label := range c.labels {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// OffsetLabels returns the reverse of the label map: for each offset that is
// a jump target, the labels that point at it in ascending order. The returned
// map is newly allocated.
func (c *Code) OffsetLabels() map[int][]Label {
	result := make(map[int][]Label, len(c.labels))
	for _, label := range c.Labels() {
		offset := c.labels[label]
		result[offset] = append(result[offset], label)
	}
	return result
}

// ArgCount returns the number of declared arguments.
func (c *Code) ArgCount() int {
	return len(c.argNames)
}

// ArgNameAt returns the name of the argument at the given index.
func (c *Code) ArgNameAt(index int) string {
	return c.argNames[index]
}

// ArgNames returns a copy of the argument names.
func (c *Code) ArgNames() []string {
	return copyStrings(c.argNames)
}

// ArgAnnotationAt returns the type annotation of the argument at the given
// index, or an empty string if it has none.
func (c *Code) ArgAnnotationAt(index int) string {
	return c.argAnnotations[index]
}
