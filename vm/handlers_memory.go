package vm

import (
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
)

// Memory access handlers delegate entirely to the memory manager's
// bounds-checked contract and surface its error codes unchanged.

func handleLoadGlobal(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	v, code := m.LoadGlobal(immediate)
	if code != errz.None {
		return fail(code)
	}
	if code := m.Push(v); code != errz.None {
		return fail(code)
	}
	return next()
}

func handleStoreGlobal(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	v, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if code := m.StoreGlobal(immediate, v); code != errz.None {
		return fail(code)
	}
	return next()
}

// handleCreateArray activates array id (immediate) with the element
// count taken from the stack.
func handleCreateArray(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	size, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if code := m.CreateArray(uint8(immediate), size); code != errz.None {
		return fail(code)
	}
	return next()
}

// handleLoadArray reads element [index] of array id (immediate), with
// the index taken from the stack.
func handleLoadArray(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	index, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	v, code := m.LoadArrayElement(uint8(immediate), index)
	if code != errz.None {
		return fail(code)
	}
	if code := m.Push(v); code != errz.None {
		return fail(code)
	}
	return next()
}

// handleStoreArray writes array id (immediate) with stack layout
// [index, value], value on top.
func handleStoreArray(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	index, value, code := pop2(m)
	if code != errz.None {
		return fail(code)
	}
	if code := m.StoreArrayElement(uint8(immediate), index, value); code != errz.None {
		return fail(code)
	}
	return next()
}
