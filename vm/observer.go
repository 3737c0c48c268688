package vm

import (
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/op"
)

// Observer receives callbacks for VM execution events. Methods are
// called synchronously from the dispatch loop, so implementations
// should be fast. Embed NoOpObserver for default implementations.
type Observer interface {
	// OnStep is called before each instruction executes. Returning
	// false halts the machine before the instruction runs.
	OnStep(event StepEvent) bool

	// OnComplete is called once when the machine reaches a terminal
	// state, normal or error.
	OnComplete(event CompleteEvent)
}

// StepEvent describes one instruction about to execute.
type StepEvent struct {
	// PC is the index of the instruction in the program.
	PC int

	// Opcode is the operation about to execute.
	Opcode op.Code

	// OpcodeName is the mnemonic for the opcode.
	OpcodeName string

	// Flags is the instruction's modifier byte.
	Flags uint8

	// Immediate is the instruction's 16-bit operand.
	Immediate uint16

	// StackDepth is the operand stack depth before the instruction.
	StackDepth int
}

// CompleteEvent describes a finished run.
type CompleteEvent struct {
	// Steps is the number of instructions executed.
	Steps uint64

	// PC is the final program counter.
	PC int

	// Err is the recorded error, or errz.None for a normal halt.
	Err errz.Code
}

// NoOpObserver is an Observer that does nothing. Embed it to implement
// only the callbacks you need.
type NoOpObserver struct{}

func (NoOpObserver) OnStep(StepEvent) bool    { return true }
func (NoOpObserver) OnComplete(CompleteEvent) {}

var _ Observer = NoOpObserver{}
