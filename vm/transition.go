package vm

import (
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
)

// PCAction tells the dispatch loop what to do with the program counter
// after a handler returns. It is the only control-flow channel from a
// handler back to the loop; handlers never touch the PC themselves and
// never re-enter the loop.
type PCAction uint8

const (
	// Continue advances to the next instruction.
	Continue PCAction = iota
	// JumpAbsolute sets the PC to Transition.Target.
	JumpAbsolute
	// CallFunction pushes the return address, then jumps to Target.
	CallFunction
	// ReturnFunction pops the return address and jumps to it.
	ReturnFunction
	// Halt stops execution normally.
	Halt
	// Error stops execution abnormally with Transition.Err recorded.
	Error
)

// Transition is the descriptor a handler returns to the dispatch loop.
// Invariants: Err is set exactly when Action is Error, and Target is
// read only for JumpAbsolute and CallFunction.
type Transition struct {
	Action PCAction
	Target uint16
	Err    errz.Code
}

// Handler implements one opcode family's semantics. Handlers consume
// and produce operand stack values through the memory manager, perform
// I/O through the controller, and communicate their outcome exclusively
// through the returned Transition.
type Handler func(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition

func next() Transition {
	return Transition{Action: Continue}
}

func jump(target uint16) Transition {
	return Transition{Action: JumpAbsolute, Target: target}
}

func call(target uint16) Transition {
	return Transition{Action: CallFunction, Target: target}
}

func ret() Transition {
	return Transition{Action: ReturnFunction}
}

func halt() Transition {
	return Transition{Action: Halt}
}

func fail(code errz.Code) Transition {
	return Transition{Action: Error, Err: code}
}
