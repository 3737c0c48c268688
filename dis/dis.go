// Package dis disassembles compiled programs into a human-readable
// listing, for debugging guest programs and inspecting compiler output.
package dis

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/deepnoodle-ai/picovm/bytecode"
	"github.com/deepnoodle-ai/picovm/op"
	"github.com/fatih/color"
)

// jumpOpcodes take an absolute instruction index in the immediate.
var jumpOpcodes = map[op.Code]bool{
	op.Jmp:      true,
	op.JmpTrue:  true,
	op.JmpFalse: true,
	op.Call:     true,
}

// immediateUsers render their immediate operand; everything else
// ignores it.
var immediateUsers = map[op.Code]bool{
	op.Push:           true,
	op.Jmp:            true,
	op.JmpTrue:        true,
	op.JmpFalse:       true,
	op.Call:           true,
	op.LoadGlobal:     true,
	op.StoreGlobal:    true,
	op.LoadArray:      true,
	op.StoreArray:     true,
	op.CreateArray:    true,
	op.DigitalWrite:   true,
	op.DigitalRead:    true,
	op.AnalogWrite:    true,
	op.AnalogRead:     true,
	op.PinMode:        true,
	op.Printf:         true,
	op.ButtonPressed:  true,
	op.ButtonReleased: true,
}

// Disassemble renders the program as one line per instruction:
// index, mnemonic, and operand. Jump targets are annotated with the
// target instruction's mnemonic.
func Disassemble(p *bytecode.Program) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for i := 0; i < p.Len(); i++ {
		instr := p.At(i)
		fmt.Fprintf(w, "%04d\t%s\t%s\n", i, instr.Opcode, operand(p, instr))
	}
	w.Flush()
	return buf.String()
}

// Fprint writes a colorized listing to w, in the style of the CLI.
func Fprint(w io.Writer, p *bytecode.Program) {
	indexColor := color.New(color.FgHiBlack)
	opColor := color.New(color.FgCyan, color.Bold)
	badColor := color.New(color.FgRed, color.Bold)
	for i := 0; i < p.Len(); i++ {
		instr := p.At(i)
		indexColor.Fprintf(w, "%04d  ", i)
		if op.IsDefined(instr.Opcode) {
			opColor.Fprintf(w, "%-16s", instr.Opcode)
		} else {
			badColor.Fprintf(w, "%-16s", instr.Opcode)
		}
		fmt.Fprintln(w, operand(p, instr))
	}
}

func operand(p *bytecode.Program, instr bytecode.Instruction) string {
	var parts []string
	if immediateUsers[instr.Opcode] {
		parts = append(parts, fmt.Sprintf("%d", instr.Immediate))
	}
	if jumpOpcodes[instr.Opcode] && int(instr.Immediate) < p.Len() {
		parts = append(parts, fmt.Sprintf("; -> %s", p.At(int(instr.Immediate)).Opcode))
	}
	if instr.Flags != 0 {
		parts = append(parts, fmt.Sprintf("[flags=%#02x]", instr.Flags))
	}
	return strings.Join(parts, " ")
}
