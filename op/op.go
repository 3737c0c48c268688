// Package op defines the opcodes executed by the picovm virtual machine.
//
// Opcodes are grouped into families of 16, matching the layout burned into
// compiled guest programs. Values inside a family that are not listed here
// are reserved for future instructions.
package op

import "fmt"

// Code is a one-byte opcode that selects an operation to execute.
type Code uint8

const (
	// Core operations (0x00-0x0F)
	Halt Code = 0x00 // stop execution
	Push Code = 0x01 // push immediate value
	Pop  Code = 0x02 // pop and discard
	Add  Code = 0x03 // pop b, pop a, push a+b
	Sub  Code = 0x04 // pop b, pop a, push a-b
	Mul  Code = 0x05 // pop b, pop a, push a*b
	Div  Code = 0x06 // pop b, pop a, push a/b
	Mod  Code = 0x07 // pop b, pop a, push a%b
	Call Code = 0x08 // push return address, jump to immediate
	Ret  Code = 0x09 // pop return address, jump back

	// I/O passthrough (0x10-0x1F)
	DigitalWrite   Code = 0x10 // pop value, write to pin in immediate
	DigitalRead    Code = 0x11 // read pin in immediate, push value
	AnalogWrite    Code = 0x12 // pop value, write to pin in immediate
	AnalogRead     Code = 0x13 // read pin in immediate, push value
	Delay          Code = 0x14 // pop milliseconds, block
	ButtonPressed  Code = 0x15 // push 1 if button in immediate is pressed
	ButtonReleased Code = 0x16 // push 1 if button in immediate was released
	PinMode        Code = 0x17 // pop mode, configure pin in immediate
	Printf         Code = 0x18 // pop argc then args, format string id in immediate
	Millis         Code = 0x19 // push milliseconds since start
	Micros         Code = 0x1A // push microseconds since start

	// Comparisons (0x20-0x2F). The unsigned variants compare the uint32
	// reinterpretation of the operands.
	Eq       Code = 0x20
	Ne       Code = 0x21
	Lt       Code = 0x22
	Gt       Code = 0x23
	Le       Code = 0x24
	Ge       Code = 0x25
	EqSigned Code = 0x26
	NeSigned Code = 0x27
	LtSigned Code = 0x28
	GtSigned Code = 0x29
	LeSigned Code = 0x2A
	GeSigned Code = 0x2B

	// Control flow (0x30-0x3F). Jump targets are absolute instruction
	// indices carried in the immediate.
	Jmp      Code = 0x30
	JmpTrue  Code = 0x31 // pop condition, jump if non-zero
	JmpFalse Code = 0x32 // pop condition, jump if zero

	// Logical operations (0x40-0x4F), C truthiness
	And Code = 0x40
	Or  Code = 0x41
	Not Code = 0x42

	// Memory operations (0x50-0x5F). 0x52/0x53 are reserved for local
	// variable frames and are intentionally not implemented yet.
	LoadGlobal  Code = 0x50
	StoreGlobal Code = 0x51
	LoadLocal   Code = 0x52
	StoreLocal  Code = 0x53
	LoadArray   Code = 0x54
	StoreArray  Code = 0x55
	CreateArray Code = 0x56

	// Bitwise operations (0x60-0x6F)
	BitwiseAnd Code = 0x60
	BitwiseOr  Code = 0x61
	BitwiseXor Code = 0x62
	BitwiseNot Code = 0x63
	ShiftLeft  Code = 0x64
	ShiftRight Code = 0x65
)

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
	// StackIn is the number of operands the instruction pops. Printf is
	// variadic and reports the minimum (the argument count itself).
	StackIn int
	// StackOut is the number of values the instruction pushes.
	StackOut int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op   Code
		name string
		in   int
		out  int
	}
	ops := []opInfo{
		{Halt, "HALT", 0, 0},
		{Push, "PUSH", 0, 1},
		{Pop, "POP", 1, 0},
		{Add, "ADD", 2, 1},
		{Sub, "SUB", 2, 1},
		{Mul, "MUL", 2, 1},
		{Div, "DIV", 2, 1},
		{Mod, "MOD", 2, 1},
		{Call, "CALL", 0, 0},
		{Ret, "RET", 0, 0},
		{DigitalWrite, "DIGITAL_WRITE", 1, 0},
		{DigitalRead, "DIGITAL_READ", 0, 1},
		{AnalogWrite, "ANALOG_WRITE", 1, 0},
		{AnalogRead, "ANALOG_READ", 0, 1},
		{Delay, "DELAY", 1, 0},
		{ButtonPressed, "BUTTON_PRESSED", 0, 1},
		{ButtonReleased, "BUTTON_RELEASED", 0, 1},
		{PinMode, "PIN_MODE", 1, 0},
		{Printf, "PRINTF", 1, 0},
		{Millis, "MILLIS", 0, 1},
		{Micros, "MICROS", 0, 1},
		{Eq, "EQ", 2, 1},
		{Ne, "NE", 2, 1},
		{Lt, "LT", 2, 1},
		{Gt, "GT", 2, 1},
		{Le, "LE", 2, 1},
		{Ge, "GE", 2, 1},
		{EqSigned, "EQ_SIGNED", 2, 1},
		{NeSigned, "NE_SIGNED", 2, 1},
		{LtSigned, "LT_SIGNED", 2, 1},
		{GtSigned, "GT_SIGNED", 2, 1},
		{LeSigned, "LE_SIGNED", 2, 1},
		{GeSigned, "GE_SIGNED", 2, 1},
		{Jmp, "JMP", 0, 0},
		{JmpTrue, "JMP_TRUE", 1, 0},
		{JmpFalse, "JMP_FALSE", 1, 0},
		{And, "AND", 2, 1},
		{Or, "OR", 2, 1},
		{Not, "NOT", 1, 1},
		{LoadGlobal, "LOAD_GLOBAL", 0, 1},
		{StoreGlobal, "STORE_GLOBAL", 1, 0},
		{LoadArray, "LOAD_ARRAY", 1, 1},
		{StoreArray, "STORE_ARRAY", 2, 0},
		{CreateArray, "CREATE_ARRAY", 1, 0},
		{BitwiseAnd, "BITWISE_AND", 2, 1},
		{BitwiseOr, "BITWISE_OR", 2, 1},
		{BitwiseXor, "BITWISE_XOR", 2, 1},
		{BitwiseNot, "BITWISE_NOT", 1, 1},
		{ShiftLeft, "SHIFT_LEFT", 2, 1},
		{ShiftRight, "SHIFT_RIGHT", 2, 1},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:     o.op,
			Name:     o.name,
			StackIn:  o.in,
			StackOut: o.out,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes
// return a zero Info with an empty name.
func GetInfo(c Code) Info {
	return infos[c]
}

// IsDefined reports whether the opcode names a defined instruction.
func IsDefined(c Code) bool {
	return infos[c].Name != ""
}

// Defined returns all defined opcodes in ascending order.
func Defined() []Code {
	var codes []Code
	for i := range infos {
		if infos[i].Name != "" {
			codes = append(codes, Code(i))
		}
	}
	return codes
}

// String returns the mnemonic for the opcode, or "UNKNOWN(0xNN)" for
// codes outside the instruction set.
func (c Code) String() string {
	if info := infos[c]; info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(c))
}
