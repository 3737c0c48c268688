package vm

import (
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
)

// compareOp pops two operands and pushes 1 or 0.
func compareOp(m *mem.Memory, fn func(a, b int32) bool) Transition {
	a, b, code := pop2(m)
	if code != errz.None {
		return fail(code)
	}
	var result int32
	if fn(a, b) {
		result = 1
	}
	if code := m.Push(result); code != errz.None {
		return fail(code)
	}
	return next()
}

// Unsigned variants compare the uint32 reinterpretation of the
// operands, matching the guest language's default comparison semantics.

func handleEq(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return uint32(a) == uint32(b) })
}

func handleNe(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return uint32(a) != uint32(b) })
}

func handleLt(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return uint32(a) < uint32(b) })
}

func handleGt(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return uint32(a) > uint32(b) })
}

func handleLe(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return uint32(a) <= uint32(b) })
}

func handleGe(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return uint32(a) >= uint32(b) })
}

func handleEqSigned(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return a == b })
}

func handleNeSigned(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return a != b })
}

func handleLtSigned(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return a < b })
}

func handleGtSigned(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return a > b })
}

func handleLeSigned(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return a <= b })
}

func handleGeSigned(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return compareOp(m, func(a, b int32) bool { return a >= b })
}
