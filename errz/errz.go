// Package errz defines the closed error taxonomy shared by every picovm
// component. Errors cross the handler/engine boundary as plain Code values,
// never as Go errors or panics; the Err adapter exists only for package
// borders where a standard error is expected.
package errz

import "fmt"

// Code identifies one kind of virtual machine failure. The zero value
// means no error.
type Code uint8

const (
	None Code = iota
	StackUnderflow
	StackOverflow
	DivisionByZero
	InvalidOpcode
	InvalidJump
	InvalidOperand
	InvalidMemoryAccess
	MemoryAllocationFailed
	IOOperationFailed
	InvalidPin
	InvalidProgram
)

// String returns the canonical name of the error code.
func (c Code) String() string {
	switch c {
	case None:
		return "NONE"
	case StackUnderflow:
		return "STACK_UNDERFLOW"
	case StackOverflow:
		return "STACK_OVERFLOW"
	case DivisionByZero:
		return "DIVISION_BY_ZERO"
	case InvalidOpcode:
		return "INVALID_OPCODE"
	case InvalidJump:
		return "INVALID_JUMP"
	case InvalidOperand:
		return "INVALID_OPERAND"
	case InvalidMemoryAccess:
		return "INVALID_MEMORY_ACCESS"
	case MemoryAllocationFailed:
		return "MEMORY_ALLOCATION_FAILED"
	case IOOperationFailed:
		return "IO_OPERATION_FAILED"
	case InvalidPin:
		return "INVALID_PIN"
	case InvalidProgram:
		return "INVALID_PROGRAM"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
	}
}

// OK reports whether the code indicates success.
func (c Code) OK() bool {
	return c == None
}

// Err converts a code to a Go error. None converts to nil.
func (c Code) Err() error {
	if c == None {
		return nil
	}
	return &Error{Code: c}
}

// Error wraps a Code as a standard Go error for use at package borders.
type Error struct {
	Code Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("vm error: %s", e.Code)
}

// Is supports errors.Is matching against another *Error with the same code.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Code == e.Code
}
