package vm

import (
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
)

// pop2 removes the top two stack values after verifying both exist, so
// a failing handler never leaves a half-consumed stack behind. The
// second-pushed operand comes back first (b), matching the multi-pop
// ordering guarantee.
func pop2(m *mem.Memory) (a, b int32, code errz.Code) {
	if m.Depth() < 2 {
		return 0, 0, errz.StackUnderflow
	}
	b, _ = m.Pop()
	a, _ = m.Pop()
	return a, b, errz.None
}

func pop1(m *mem.Memory) (int32, errz.Code) {
	if m.Depth() < 1 {
		return 0, errz.StackUnderflow
	}
	v, _ := m.Pop()
	return v, errz.None
}

func handleHalt(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return halt()
}

func handlePush(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if code := m.Push(int32(immediate)); code != errz.None {
		return fail(code)
	}
	return next()
}

func handlePop(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	if _, code := pop1(m); code != errz.None {
		return fail(code)
	}
	return next()
}

func handleAdd(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		return a + b, errz.None
	})
}

func handleSub(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		return a - b, errz.None
	})
}

func handleMul(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		return a * b, errz.None
	})
}

func handleDiv(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		if b == 0 {
			return 0, errz.DivisionByZero
		}
		return a / b, errz.None
	})
}

func handleMod(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return binaryOp(m, func(a, b int32) (int32, errz.Code) {
		if b == 0 {
			return 0, errz.DivisionByZero
		}
		return a % b, errz.None
	})
}

// binaryOp pops two operands, applies fn, and pushes the result. On an
// fn error nothing is pushed, so the division result never appears on
// the stack after DIVISION_BY_ZERO.
func binaryOp(m *mem.Memory, fn func(a, b int32) (int32, errz.Code)) Transition {
	a, b, code := pop2(m)
	if code != errz.None {
		return fail(code)
	}
	result, code := fn(a, b)
	if code != errz.None {
		return fail(code)
	}
	if code := m.Push(result); code != errz.None {
		return fail(code)
	}
	return next()
}
