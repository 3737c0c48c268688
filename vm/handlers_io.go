package vm

import (
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
)

// I/O passthrough handlers validate pin numbers and operand ranges
// before touching the controller; any controller failure surfaces
// uniformly as IO_OPERATION_FAILED.

func validPin(immediate uint16) bool {
	return immediate < hal.MaxGPIOPins
}

func handleDigitalWrite(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if !validPin(immediate) {
		return fail(errz.InvalidPin)
	}
	v, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if !io.DigitalWrite(uint8(immediate), uint8(v&1)) {
		return fail(errz.IOOperationFailed)
	}
	return next()
}

func handleDigitalRead(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if !validPin(immediate) {
		return fail(errz.InvalidPin)
	}
	v, ok := io.DigitalRead(uint8(immediate))
	if !ok {
		return fail(errz.IOOperationFailed)
	}
	if code := m.Push(int32(v)); code != errz.None {
		return fail(code)
	}
	return next()
}

func handleAnalogWrite(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if !validPin(immediate) {
		return fail(errz.InvalidPin)
	}
	v, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if v < 0 || v > 0xFFFF {
		return fail(errz.InvalidOperand)
	}
	if !io.AnalogWrite(uint8(immediate), uint16(v)) {
		return fail(errz.IOOperationFailed)
	}
	return next()
}

func handleAnalogRead(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if !validPin(immediate) {
		return fail(errz.InvalidPin)
	}
	v, ok := io.AnalogRead(uint8(immediate))
	if !ok {
		return fail(errz.IOOperationFailed)
	}
	if code := m.Push(int32(v)); code != errz.None {
		return fail(code)
	}
	return next()
}

func handlePinMode(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if !validPin(immediate) {
		return fail(errz.InvalidPin)
	}
	mode, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if mode < 0 || mode > 0xFF || !hal.IsValidPinMode(uint8(mode)) {
		return fail(errz.InvalidOperand)
	}
	if !io.PinMode(uint8(immediate), uint8(mode)) {
		return fail(errz.IOOperationFailed)
	}
	return next()
}

func handleDelay(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	ms, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if ms < 0 {
		return fail(errz.InvalidOperand)
	}
	io.Delay(uint32(ms))
	return next()
}

func handleMillis(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if code := m.Push(int32(io.Millis())); code != errz.None {
		return fail(code)
	}
	return next()
}

func handleMicros(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if code := m.Push(int32(io.Micros())); code != errz.None {
		return fail(code)
	}
	return next()
}

func handleButtonPressed(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if immediate >= hal.MaxButtons {
		return fail(errz.InvalidPin)
	}
	var v int32
	if io.ButtonPressed(uint8(immediate)) {
		v = 1
	}
	if code := m.Push(v); code != errz.None {
		return fail(code)
	}
	return next()
}

func handleButtonReleased(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if immediate >= hal.MaxButtons {
		return fail(errz.InvalidPin)
	}
	var v int32
	if io.ButtonReleased(uint8(immediate)) {
		v = 1
	}
	if code := m.Push(v); code != errz.None {
		return fail(code)
	}
	return next()
}

// handlePrintf consumes stack layout [args..., argc] with argc on top
// and renders format string id (immediate) through the controller.
func handlePrintf(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if m.Depth() < 1 {
		return fail(errz.StackUnderflow)
	}
	argc, _ := m.Peek()
	if argc < 0 || argc > hal.MaxPrintfArgs {
		return fail(errz.InvalidOperand)
	}
	if m.Depth() < int(argc)+1 {
		return fail(errz.StackUnderflow)
	}
	m.Pop() // argc, validated above
	var args [hal.MaxPrintfArgs]int32
	for i := int(argc) - 1; i >= 0; i-- {
		args[i], _ = m.Pop()
	}
	if !io.Printf(uint8(immediate), args[:argc]) {
		return fail(errz.IOOperationFailed)
	}
	return next()
}
