package vm

import (
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
)

// Jump targets are absolute instruction indices carried in the
// immediate. Handlers only describe the jump; the engine validates the
// target against the program length and applies it, keeping all PC
// mutation in one place.

func handleJmp(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return jump(immediate)
}

func handleJmpTrue(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	cond, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if cond != 0 {
		return jump(immediate)
	}
	return next()
}

func handleJmpFalse(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	cond, code := pop1(m)
	if code != errz.None {
		return fail(code)
	}
	if cond == 0 {
		return jump(immediate)
	}
	return next()
}

func handleCall(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	// Return address bookkeeping happens in the engine, which pushes
	// PC+1 before taking the jump.
	return call(immediate)
}

func handleRet(flags uint8, immediate uint16, m *mem.Memory, io hal.Controller) Transition {
	return ret()
}
