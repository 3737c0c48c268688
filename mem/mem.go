// Package mem implements the static memory manager for the virtual
// machine: the operand stack, global variables, and a fixed set of
// arrays. All regions have capacities fixed at compile time and every
// access is bounds-checked; nothing here allocates after construction,
// which keeps memory behavior deterministic on the target hardware.
package mem

import "github.com/deepnoodle-ai/picovm/errz"

const (
	// MaxStackDepth is the operand stack capacity in values.
	MaxStackDepth = 256
	// MaxGlobals is the number of global variable slots.
	MaxGlobals = 64
	// MaxArrays is the number of independently created arrays.
	MaxArrays = 16
	// MaxArraySize is the element capacity of each array.
	MaxArraySize = 1024
)

type arrayRegion struct {
	data   [MaxArraySize]int32
	size   uint16
	active bool
}

// Memory owns all mutable VM state outside the execution engine. One
// Memory belongs to exactly one logical VM instance; there is no
// locking because there is no concurrent access within an instance.
type Memory struct {
	stack       [MaxStackDepth]int32
	sp          int
	globals     [MaxGlobals]int32
	globalCount int
	arrays      [MaxArrays]arrayRegion
}

// New returns a zeroed Memory ready for use.
func New() *Memory {
	return &Memory{}
}

// Reset restores construction-time state in place: stack emptied,
// globals zeroed, arrays zeroed and deactivated. No reallocation
// occurs, so a single instance can be reused across program loads.
func (m *Memory) Reset() {
	m.sp = 0
	m.globalCount = 0
	for i := range m.stack {
		m.stack[i] = 0
	}
	for i := range m.globals {
		m.globals[i] = 0
	}
	for i := range m.arrays {
		m.arrays[i] = arrayRegion{}
	}
}

// Push appends a value to the operand stack.
func (m *Memory) Push(value int32) errz.Code {
	if m.sp >= MaxStackDepth {
		return errz.StackOverflow
	}
	m.stack[m.sp] = value
	m.sp++
	return errz.None
}

// Pop removes and returns the top of the operand stack.
func (m *Memory) Pop() (int32, errz.Code) {
	if m.sp <= 0 {
		return 0, errz.StackUnderflow
	}
	m.sp--
	return m.stack[m.sp], errz.None
}

// Peek returns the top of the stack without removing it.
func (m *Memory) Peek() (int32, errz.Code) {
	if m.sp <= 0 {
		return 0, errz.StackUnderflow
	}
	return m.stack[m.sp-1], errz.None
}

// Depth returns the current operand stack depth.
func (m *Memory) Depth() int {
	return m.sp
}

// StackSlice returns a bottom-to-top copy of the live stack contents,
// for host-side introspection and conformance tests.
func (m *Memory) StackSlice() []int32 {
	out := make([]int32, m.sp)
	copy(out, m.stack[:m.sp])
	return out
}

// LoadGlobal reads the global variable at index.
func (m *Memory) LoadGlobal(index uint16) (int32, errz.Code) {
	if int(index) >= MaxGlobals {
		return 0, errz.InvalidMemoryAccess
	}
	return m.globals[index], errz.None
}

// StoreGlobal writes the global variable at index. Storing past the
// current high-water mark extends the recorded global count, never the
// capacity.
func (m *Memory) StoreGlobal(index uint16, value int32) errz.Code {
	if int(index) >= MaxGlobals {
		return errz.InvalidMemoryAccess
	}
	m.globals[index] = value
	if int(index) >= m.globalCount {
		m.globalCount = int(index) + 1
	}
	return errz.None
}

// GlobalCount returns the high-water mark of stored globals.
func (m *Memory) GlobalCount() int {
	return m.globalCount
}

// GlobalSlice returns a copy of the globals up to the high-water mark,
// for host-side introspection and conformance tests.
func (m *Memory) GlobalSlice() []int32 {
	out := make([]int32, m.globalCount)
	copy(out, m.globals[:m.globalCount])
	return out
}

// CreateArray activates array id with the given element count, zeroing
// its contents. Creating an already-active array re-creates it.
func (m *Memory) CreateArray(id uint8, size int32) errz.Code {
	if int(id) >= MaxArrays {
		return errz.InvalidMemoryAccess
	}
	if size <= 0 || size > MaxArraySize {
		return errz.MemoryAllocationFailed
	}
	region := &m.arrays[id]
	region.data = [MaxArraySize]int32{}
	region.size = uint16(size)
	region.active = true
	return errz.None
}

// LoadArrayElement reads one element of an active array.
func (m *Memory) LoadArrayElement(id uint8, index int32) (int32, errz.Code) {
	region, code := m.arrayAt(id, index)
	if code != errz.None {
		return 0, code
	}
	return region.data[index], errz.None
}

// StoreArrayElement writes one element of an active array.
func (m *Memory) StoreArrayElement(id uint8, index, value int32) errz.Code {
	region, code := m.arrayAt(id, index)
	if code != errz.None {
		return code
	}
	region.data[index] = value
	return errz.None
}

// ArraySize returns the element count of array id, or an error if the
// array was never created.
func (m *Memory) ArraySize(id uint8) (int, errz.Code) {
	if int(id) >= MaxArrays || !m.arrays[id].active {
		return 0, errz.InvalidMemoryAccess
	}
	return int(m.arrays[id].size), errz.None
}

// ArraySlice returns a copy of the live elements of array id, for
// host-side introspection.
func (m *Memory) ArraySlice(id uint8) ([]int32, errz.Code) {
	size, code := m.ArraySize(id)
	if code != errz.None {
		return nil, code
	}
	out := make([]int32, size)
	copy(out, m.arrays[id].data[:size])
	return out, errz.None
}

func (m *Memory) arrayAt(id uint8, index int32) (*arrayRegion, errz.Code) {
	if int(id) >= MaxArrays {
		return nil, errz.InvalidMemoryAccess
	}
	region := &m.arrays[id]
	if !region.active {
		return nil, errz.InvalidMemoryAccess
	}
	if index < 0 || index >= int32(region.size) {
		return nil, errz.InvalidMemoryAccess
	}
	return region, errz.None
}
