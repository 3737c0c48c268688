// Package hal defines the I/O capability interface the virtual machine
// core consumes, and a deterministic in-memory implementation used by
// the host orchestrator and tests. Real hardware ports implement
// Controller against their board support package.
package hal

const (
	// MaxGPIOPins is the number of addressable GPIO pins.
	MaxGPIOPins = 20
	// MaxButtons is the number of addressable input buttons.
	MaxButtons = 4
	// MaxPrintfArgs caps the argument list of one formatted output call.
	MaxPrintfArgs = 8
)

// PinMode values accepted by Controller.PinMode.
const (
	ModeInput uint8 = iota
	ModeOutput
	ModeInputPullup
	ModeNoPull
)

// IsValidPinMode reports whether mode is a defined pin mode.
func IsValidPinMode(mode uint8) bool {
	return mode <= ModeNoPull
}

// Controller abstracts all hardware access performed on behalf of guest
// programs. Every method reports success with a boolean; the core maps
// any failure to a single IO_OPERATION_FAILED error. Implementations
// are assumed synchronous and bounded; the core never calls them
// concurrently.
type Controller interface {
	DigitalWrite(pin uint8, value uint8) bool
	DigitalRead(pin uint8) (uint8, bool)
	AnalogWrite(pin uint8, value uint16) bool
	AnalogRead(pin uint8) (uint16, bool)
	PinMode(pin uint8, mode uint8) bool

	Delay(ms uint32)
	Millis() uint32
	Micros() uint32

	ButtonPressed(id uint8) bool
	ButtonReleased(id uint8) bool

	// Printf renders the registered format string id with the given
	// int32 arguments and emits the result.
	Printf(stringID uint8, args []int32) bool
}
