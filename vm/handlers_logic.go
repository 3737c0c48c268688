package vm

import (
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
)

// Logical operations use C truthiness: any non-zero value is true.

func handleAnd(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return a != 0 && b != 0 })
}

func handleOr(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return a != 0 || b != 0 })
}

func handleNot(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	v, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	var result int32
	if v == 0 {
		result = 1
	}
	if code := m.Push(result); code != errz.None {
		return fail(code)
	}
	return next()
}

func handleBitwiseAnd(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		return a & b, errz.None
	})
}

func handleBitwiseOr(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		return a | b, errz.None
	})
}

func handleBitwiseXor(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		return a ^ b, errz.None
	})
}

func handleBitwiseNot(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	v, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if code := m.Push(^v); code != errz.None {
		return fail(code)
	}
	return next()
}

// Shift amounts outside [0,31] are rejected rather than left to
// undefined behavior.

func handleShiftLeft(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		if b < 0 || b > 31 {
			return 0, errz.InvalidOperand
		}
		return a << uint32(b), errz.None
	})
}

func handleShiftRight(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		if b < 0 || b > 31 {
			return 0, errz.InvalidOperand
		}
		// Arithmetic shift: sign bit propagates.
		return a >> uint32(b), errz.None
	})
}
