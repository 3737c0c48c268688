package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/picovm/errz"
)

// MaxInstructions is the largest program the engine will accept, in
// instruction records. Chosen to match the flash region reserved for
// guest bytecode on the smallest supported target.
const MaxInstructions = 4096

// Program is an ordered, immutable sequence of instructions. Construct
// one with NewProgram or Decode; the zero value is an empty, invalid
// program.
type Program struct {
	instructions []Instruction
}

// NewProgram validates the instruction sequence and wraps it as a
// Program. The slice is copied, so later mutation of the argument does
// not affect the program.
func NewProgram(instructions []Instruction) (*Program, error) {
	if len(instructions) == 0 {
		return nil, errz.InvalidProgram.Err()
	}
	if len(instructions) > MaxInstructions {
		return nil, fmt.Errorf("program has %d instructions, limit is %d: %w",
			len(instructions), MaxInstructions, errz.InvalidProgram.Err())
	}
	p := &Program{instructions: make([]Instruction, len(instructions))}
	copy(p.instructions, instructions)
	return p, nil
}

// Decode parses raw little-endian bytecode into a Program. The byte
// length must be a non-zero multiple of InstructionSize.
func Decode(data []byte) (*Program, error) {
	if len(data) == 0 || len(data)%InstructionSize != 0 {
		return nil, fmt.Errorf("bytecode length %d is not a positive multiple of %d: %w",
			len(data), InstructionSize, errz.InvalidProgram.Err())
	}
	count := len(data) / InstructionSize
	instructions := make([]Instruction, count)
	for i := 0; i < count; i++ {
		instructions[i] = decodeInstruction(data[i*InstructionSize:])
	}
	return NewProgram(instructions)
}

// Encode returns the little-endian byte encoding of the program.
func (p *Program) Encode() []byte {
	out := make([]byte, 0, len(p.instructions)*InstructionSize)
	for _, in := range p.instructions {
		out = in.Encode(out)
	}
	return out
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.instructions)
}

// At returns the instruction at the given index. The caller is
// responsible for bounds; the engine checks the program counter before
// every fetch.
func (p *Program) At(i int) Instruction {
	return p.instructions[i]
}

// Instructions returns a copy of the instruction sequence, preserving
// immutability of the program itself.
func (p *Program) Instructions() []Instruction {
	out := make([]Instruction, len(p.instructions))
	copy(out, p.instructions)
	return out
}
