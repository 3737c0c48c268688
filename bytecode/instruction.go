// Package bytecode defines the wire format of compiled guest programs: a
// sequence of fixed 4-byte instruction records, and a container file that
// bundles the records with the string table referenced by PRINTF.
package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/deepnoodle-ai/picovm/op"
)

// InstructionSize is the byte size of one encoded instruction record.
const InstructionSize = 4

// Instruction is one fixed-width instruction record. The flags byte
// carries per-instruction modifier bits; the immediate is a 16-bit
// little-endian operand whose meaning depends on the opcode.
type Instruction struct {
	Opcode    op.Code
	Flags     uint8
	Immediate uint16
}

// Encode appends the 4-byte little-endian encoding of the instruction
// to dst and returns the extended slice.
func (in Instruction) Encode(dst []byte) []byte {
	var buf [InstructionSize]byte
	buf[0] = byte(in.Opcode)
	buf[1] = in.Flags
	binary.LittleEndian.PutUint16(buf[2:], in.Immediate)
	return append(dst, buf[:]...)
}

// String returns a human-readable rendering of the instruction.
func (in Instruction) String() string {
	return fmt.Sprintf("%s flags=%#02x imm=%d", in.Opcode, in.Flags, in.Immediate)
}

// decodeInstruction decodes one record from exactly InstructionSize bytes.
func decodeInstruction(b []byte) Instruction {
	return Instruction{
		Opcode:    op.Code(b[0]),
		Flags:     b[1],
		Immediate: binary.LittleEndian.Uint16(b[2:4]),
	}
}
