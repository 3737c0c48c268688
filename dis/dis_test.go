package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/picovm/bytecode"
	"github.com/deepnoodle-ai/picovm/op"
	"github.com/stretchr/testify/require"
)

func mustProgram(t *testing.T, ins ...bytecode.Instruction) *bytecode.Program {
	t.Helper()
	p, err := bytecode.NewProgram(ins)
	require.NoError(t, err)
	return p
}

func TestDisassemble(t *testing.T) {
	p := mustProgram(t,
		bytecode.Instruction{Opcode: op.Push, Immediate: 42},
		bytecode.Instruction{Opcode: op.Add},
		bytecode.Instruction{Opcode: op.Halt},
	)
	out := Disassemble(p)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "PUSH")
	require.Contains(t, lines[0], "42")
	require.Contains(t, lines[1], "ADD")
	// ADD ignores its immediate.
	require.NotContains(t, lines[1], "0")
	require.Contains(t, lines[2], "HALT")
}

func TestDisassembleAnnotatesJumpTargets(t *testing.T) {
	p := mustProgram(t,
		bytecode.Instruction{Opcode: op.Jmp, Immediate: 2},
		bytecode.Instruction{Opcode: op.Push, Immediate: 1},
		bytecode.Instruction{Opcode: op.Halt},
	)
	out := Disassemble(p)
	lines := strings.Split(out, "\n")
	require.Contains(t, lines[0], "-> HALT")
}

func TestDisassembleOutOfRangeJumpNotAnnotated(t *testing.T) {
	p := mustProgram(t,
		bytecode.Instruction{Opcode: op.Jmp, Immediate: 99},
	)
	out := Disassemble(p)
	require.NotContains(t, out, "->")
	require.Contains(t, out, "99")
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	p := mustProgram(t,
		bytecode.Instruction{Opcode: op.Code(0x0A)},
	)
	out := Disassemble(p)
	require.Contains(t, out, "UNKNOWN(0x0a)")
}

func TestDisassembleFlags(t *testing.T) {
	p := mustProgram(t,
		bytecode.Instruction{Opcode: op.Push, Flags: 0x01, Immediate: 7},
	)
	out := Disassemble(p)
	require.Contains(t, out, "[flags=0x01]")
}

func TestFprint(t *testing.T) {
	p := mustProgram(t,
		bytecode.Instruction{Opcode: op.Push, Immediate: 5},
		bytecode.Instruction{Opcode: op.Halt},
	)
	var buf bytes.Buffer
	Fprint(&buf, p)
	out := buf.String()
	require.Contains(t, out, "PUSH")
	require.Contains(t, out, "HALT")
	require.Contains(t, out, "0000")
	require.Contains(t, out, "0001")
}
