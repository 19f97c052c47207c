package bytecode

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// Assembler builds a Code one instruction at a time. Labels are allocated
// with NewLabel, may be referenced before they are placed, and are bound to
// the next emitted instruction with Mark.
type Assembler struct {
	id           string
	name         string
	filename     string
	args         []string
	annotations  []string
	instructions []Instruction
	labels       map[Label]int
	nextLabel    Label
}

// NewAssembler returns an Assembler for a function with the given name.
func NewAssembler(name string) *Assembler {
	return &Assembler{
		name:   name,
		labels: map[Label]int{},
	}
}

// WithID sets the code ID. If no ID is set, Code assigns a random one.
func (a *Assembler) WithID(id string) *Assembler {
	a.id = id
	return a
}

// WithFilename sets the source filename.
func (a *Assembler) WithFilename(filename string) *Assembler {
	a.filename = filename
	return a
}

// Arg declares the next argument with an optional type annotation.
func (a *Assembler) Arg(name, annotation string) *Assembler {
	a.args = append(a.args, name)
	a.annotations = append(a.annotations, annotation)
	return a
}

// NewLabel allocates a label that is not yet bound to an offset.
func (a *Assembler) NewLabel() Label {
	label := a.nextLabel
	a.nextLabel++
	return label
}

// Mark binds the label to the offset of the next emitted instruction.
// Binding a label twice is a programming error and panics.
func (a *Assembler) Mark(label Label) *Assembler {
	if offset, ok := a.labels[label]; ok {
		panic(fmt.Sprintf("bytecode: label %s already bound to offset %d", label, offset))
	}
	a.labels[label] = len(a.instructions)
	if label >= a.nextLabel {
		a.nextLabel = label + 1
	}
	return a
}

// Emit appends instructions.
func (a *Assembler) Emit(instructions ...Instruction) *Assembler {
	a.instructions = append(a.instructions, instructions...)
	return a
}

// Offset returns the offset the next emitted instruction will have.
func (a *Assembler) Offset() int {
	return len(a.instructions)
}

// Code returns the assembled immutable Code.
func (a *Assembler) Code() *Code {
	id := a.id
	if id == "" {
		id = newID()
	}
	return NewCode(CodeParams{
		ID:             id,
		Name:           a.name,
		Filename:       a.filename,
		Instructions:   a.instructions,
		Labels:         a.labels,
		ArgNames:       a.args,
		ArgAnnotations: a.annotations,
	})
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}
