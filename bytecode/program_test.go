package bytecode

import (
	"testing"

	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/op"
	"github.com/stretchr/testify/require"
)

func TestInstructionEncoding(t *testing.T) {
	in := Instruction{Opcode: op.Push, Flags: 0x02, Immediate: 0x1234}
	encoded := in.Encode(nil)
	require.Equal(t, []byte{0x01, 0x02, 0x34, 0x12}, encoded)

	decoded := decodeInstruction(encoded)
	require.Equal(t, in, decoded)
}

func TestDecodeProgram(t *testing.T) {
	data := []byte{
		0x01, 0x00, 0x2A, 0x00, // PUSH 42
		0x00, 0x00, 0x00, 0x00, // HALT
	}
	p, err := Decode(data)
	require.Nil(t, err)
	require.Equal(t, 2, p.Len())
	require.Equal(t, Instruction{Opcode: op.Push, Immediate: 42}, p.At(0))
	require.Equal(t, Instruction{Opcode: op.Halt}, p.At(1))
	require.Equal(t, data, p.Encode())
}

func TestDecodeRejectsBadLength(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, errz.InvalidProgram.Err())

	_, err = Decode([]byte{0x01, 0x00, 0x2A})
	require.ErrorIs(t, err, errz.InvalidProgram.Err())

	_, err = Decode([]byte{0x01, 0x00, 0x2A, 0x00, 0x00})
	require.ErrorIs(t, err, errz.InvalidProgram.Err())
}

func TestNewProgramRejectsEmpty(t *testing.T) {
	_, err := NewProgram(nil)
	require.ErrorIs(t, err, errz.InvalidProgram.Err())
}

func TestNewProgramRejectsOversize(t *testing.T) {
	instructions := make([]Instruction, MaxInstructions+1)
	_, err := NewProgram(instructions)
	require.ErrorIs(t, err, errz.InvalidProgram.Err())
}

func TestProgramIsImmutable(t *testing.T) {
	source := []Instruction{{Opcode: op.Push, Immediate: 1}, {Opcode: op.Halt}}
	p, err := NewProgram(source)
	require.Nil(t, err)

	source[0].Immediate = 99
	require.Equal(t, uint16(1), p.At(0).Immediate)

	view := p.Instructions()
	view[0].Immediate = 77
	require.Equal(t, uint16(1), p.At(0).Immediate)
}
