package vm

import (
	"fmt"
	"sort"

	"github.com/deepnoodle-ai/picovm/op"
	"github.com/hashicorp/go-multierror"
)

// dispatchEntry pairs an opcode with its handler. The table is a sorted
// sparse slice rather than a dense 256-entry array: with ~50 defined
// opcodes, a dense function-pointer table wastes flash on the target
// for no measurable dispatch win over a three-probe binary search.
type dispatchEntry struct {
	opcode  op.Code
	handler Handler
}

// opcodeTable maps opcode to handler, ordered by opcode value. Keep it
// sorted when adding instructions; validateTable enforces this at init.
var opcodeTable = []dispatchEntry{
	{op.Halt, handleHalt},
	{op.Push, handlePush},
	{op.Pop, handlePop},
	{op.Add, handleAdd},
	{op.Sub, handleSub},
	{op.Mul, handleMul},
	{op.Div, handleDiv},
	{op.Mod, handleMod},
	{op.Call, handleCall},
	{op.Ret, handleRet},
	{op.DigitalWrite, handleDigitalWrite},
	{op.DigitalRead, handleDigitalRead},
	{op.AnalogWrite, handleAnalogWrite},
	{op.AnalogRead, handleAnalogRead},
	{op.Delay, handleDelay},
	{op.ButtonPressed, handleButtonPressed},
	{op.ButtonReleased, handleButtonReleased},
	{op.PinMode, handlePinMode},
	{op.Printf, handlePrintf},
	{op.Millis, handleMillis},
	{op.Micros, handleMicros},
	{op.Eq, handleEq},
	{op.Ne, handleNe},
	{op.Lt, handleLt},
	{op.Gt, handleGt},
	{op.Le, handleLe},
	{op.Ge, handleGe},
	{op.EqSigned, handleEqSigned},
	{op.NeSigned, handleNeSigned},
	{op.LtSigned, handleLtSigned},
	{op.GtSigned, handleGtSigned},
	{op.LeSigned, handleLeSigned},
	{op.GeSigned, handleGeSigned},
	{op.Jmp, handleJmp},
	{op.JmpTrue, handleJmpTrue},
	{op.JmpFalse, handleJmpFalse},
	{op.And, handleAnd},
	{op.Or, handleOr},
	{op.Not, handleNot},
	{op.LoadGlobal, handleLoadGlobal},
	{op.StoreGlobal, handleStoreGlobal},
	{op.LoadArray, handleLoadArray},
	{op.StoreArray, handleStoreArray},
	{op.CreateArray, handleCreateArray},
	{op.BitwiseAnd, handleBitwiseAnd},
	{op.BitwiseOr, handleBitwiseOr},
	{op.BitwiseXor, handleBitwiseXor},
	{op.BitwiseNot, handleBitwiseNot},
	{op.ShiftLeft, handleShiftLeft},
	{op.ShiftRight, handleShiftRight},
}

func init() {
	if err := validateTable(opcodeTable); err != nil {
		// A malformed dispatch table is a build defect, not a runtime
		// condition; refuse to start.
		panic(fmt.Sprintf("vm: invalid dispatch table: %v", err))
	}
}

// validateTable checks that the table is strictly sorted by opcode,
// free of duplicates and nil handlers, and only names defined opcodes.
// All defects are reported together.
func validateTable(table []dispatchEntry) error {
	var result *multierror.Error
	if len(table) == 0 {
		result = multierror.Append(result, fmt.Errorf("table is empty"))
	}
	for i, entry := range table {
		if entry.handler == nil {
			result = multierror.Append(result,
				fmt.Errorf("entry %d (%s): nil handler", i, entry.opcode))
		}
		if !op.IsDefined(entry.opcode) {
			result = multierror.Append(result,
				fmt.Errorf("entry %d: opcode %#02x is not defined", i, uint8(entry.opcode)))
		}
		if i > 0 && table[i-1].opcode >= entry.opcode {
			result = multierror.Append(result,
				fmt.Errorf("entry %d (%s): not strictly ascending after %s",
					i, entry.opcode, table[i-1].opcode))
		}
	}
	return result.ErrorOrNil()
}

// lookupHandler resolves an opcode via binary search over the sorted
// table. The second return is false for unregistered opcodes.
func lookupHandler(c op.Code) (Handler, bool) {
	i := sort.Search(len(opcodeTable), func(i int) bool {
		return opcodeTable[i].opcode >= c
	})
	if i < len(opcodeTable) && opcodeTable[i].opcode == c {
		return opcodeTable[i].handler, true
	}
	return nil, false
}
