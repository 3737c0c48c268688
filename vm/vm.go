// Package vm implements the instruction dispatch engine of the picovm
// virtual machine. The Machine owns the loaded program and the
// execution state (program counter, halt flag, last error); all other
// mutable state lives in the memory manager passed into Step. Handlers
// communicate with the dispatch loop exclusively through returned
// transition descriptors, which is what rules out re-entrant dispatch.
package vm

import (
	"errors"

	"github.com/deepnoodle-ai/picovm/bytecode"
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
	"github.com/deepnoodle-ai/picovm/op"
)

var (
	// ErrNoProgram is returned when stepping or running without a
	// loaded program.
	ErrNoProgram = errors.New("no program loaded")

	// ErrStepBudget is returned by Run when maxSteps is exhausted
	// before the machine halts.
	ErrStepBudget = errors.New("step budget exhausted")
)

// Machine executes one program at a time against a memory manager and
// an I/O controller. It is not safe for concurrent use; future
// multi-tasking composes fully independent Machine/Memory pairs.
type Machine struct {
	program  *bytecode.Program
	pc       int
	halted   bool
	lastErr  errz.Code
	steps    uint64
	observer Observer
}

// Option configures a Machine.
type Option func(*Machine)

// WithObserver attaches an observer for execution events.
func WithObserver(observer Observer) Option {
	return func(m *Machine) {
		m.observer = observer
	}
}

// New creates a Machine with no program loaded.
func New(options ...Option) *Machine {
	m := &Machine{halted: true}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Load installs a validated program and resets execution state to
// pc=0, running, no error.
func (m *Machine) Load(p *bytecode.Program) error {
	if p == nil || p.Len() == 0 {
		m.lastErr = errz.InvalidProgram
		return errz.InvalidProgram.Err()
	}
	m.program = p
	m.Reset()
	return nil
}

// LoadBytes decodes raw little-endian bytecode and loads it. Malformed
// input is rejected before any instruction executes.
func (m *Machine) LoadBytes(data []byte) error {
	p, err := bytecode.Decode(data)
	if err != nil {
		m.lastErr = errz.InvalidProgram
		return err
	}
	return m.Load(p)
}

// Reset returns the machine to the start of the loaded program with a
// clear error state. It does not touch the memory manager; callers
// reset that separately when reusing a VM instance.
func (m *Machine) Reset() {
	m.pc = 0
	m.halted = m.program == nil
	m.lastErr = errz.None
	m.steps = 0
}

// PC returns the current program counter.
func (m *Machine) PC() int {
	return m.pc
}

// Halted reports whether the machine is in a terminal state.
func (m *Machine) Halted() bool {
	return m.halted
}

// LastError returns the recorded error, or errz.None.
func (m *Machine) LastError() errz.Code {
	return m.lastErr
}

// Steps returns the number of instructions executed since the last
// load or reset.
func (m *Machine) Steps() uint64 {
	return m.steps
}

// Step executes exactly one instruction. It returns false once the
// machine is in a terminal state (including the step that put it
// there); on a halted machine it is a no-op returning false.
//
// This method is the single authority over the program counter and the
// halt flag. Handlers only describe the transition they want; Step
// applies it. No handler may re-enter Step.
func (m *Machine) Step(memory *mem.Memory, io hal.Controller) bool {
	if m.halted || m.program == nil {
		return false
	}

	instr := m.program.At(m.pc)

	if m.observer != nil {
		event := StepEvent{
			PC:         m.pc,
			Opcode:     instr.Opcode,
			OpcodeName: op.GetInfo(instr.Opcode).Name,
			Flags:      instr.Flags,
			Immediate:  instr.Immediate,
			StackDepth: memory.Depth(),
		}
		if !m.observer.OnStep(event) {
			m.terminate(errz.None)
			return false
		}
	}

	handler, ok := lookupHandler(instr.Opcode)
	if !ok {
		m.steps++
		m.terminate(errz.InvalidOpcode)
		return false
	}

	result := handler(instr.Flags, instr.Immediate, memory, io)
	m.steps++

	if result.Err != errz.None {
		m.terminate(result.Err)
		return false
	}

	switch result.Action {
	case Continue:
		m.pc++
		if m.pc >= m.program.Len() {
			// Running off the end of the program is a normal halt.
			m.terminate(errz.None)
			return false
		}
	case JumpAbsolute:
		if int(result.Target) >= m.program.Len() {
			m.terminate(errz.InvalidJump)
			return false
		}
		m.pc = int(result.Target)
	case CallFunction:
		if int(result.Target) >= m.program.Len() {
			m.terminate(errz.InvalidJump)
			return false
		}
		if code := memory.Push(int32(m.pc + 1)); code != errz.None {
			m.terminate(code)
			return false
		}
		m.pc = int(result.Target)
	case ReturnFunction:
		addr, code := memory.Pop()
		if code != errz.None {
			m.terminate(code)
			return false
		}
		if addr < 0 || int(addr) >= m.program.Len() {
			m.terminate(errz.InvalidJump)
			return false
		}
		m.pc = int(addr)
	case Halt:
		m.terminate(errz.None)
		return false
	case Error:
		// Unreachable: Err != None was handled above. Treat a
		// descriptor that violates the invariant as an invalid opcode.
		m.terminate(errz.InvalidOpcode)
		return false
	}

	return true
}

// Run calls Step until the machine halts or maxSteps instructions have
// executed. A maxSteps of 0 or less means no budget. The step budget
// substitutes for a wall-clock timeout at this layer; real deadlines
// belong to the host orchestrator.
func (m *Machine) Run(memory *mem.Memory, io hal.Controller, maxSteps int) error {
	if m.program == nil {
		return ErrNoProgram
	}
	executed := 0
	for !m.halted {
		if maxSteps > 0 && executed >= maxSteps {
			return ErrStepBudget
		}
		m.Step(memory, io)
		executed++
	}
	return m.lastErr.Err()
}

// terminate moves the machine to a terminal state and notifies the
// observer. Passing errz.None records a normal halt.
func (m *Machine) terminate(code errz.Code) {
	m.lastErr = code
	m.halted = true
	if m.observer != nil {
		m.observer.OnComplete(CompleteEvent{
			Steps: m.steps,
			PC:    m.pc,
			Err:   code,
		})
	}
}
