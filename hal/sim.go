package hal

import (
	"fmt"
	"io"
	"strings"
)

// MaxStrings is the format string table capacity of the simulator,
// matching the table capacity of hardware controllers.
const MaxStrings = 32

type pinState struct {
	mode        uint8
	digital     uint8
	analog      uint16
	initialized bool
}

// Sim is a deterministic Controller implementation. Time advances only
// through Delay, pin reads return whatever was last written (or staged
// by a test), and formatted output goes to a configurable writer.
// It implements no debouncing or electrical behavior; it exists so
// guest programs can run identically on every development host.
type Sim struct {
	pins      [MaxGPIOPins]pinState
	buttons   [MaxButtons]bool
	prevState [MaxButtons]bool
	strings   []string
	out       io.Writer
	nowMicros uint64
}

// NewSim returns a simulator writing formatted output to out. A nil
// writer discards output.
func NewSim(out io.Writer) *Sim {
	if out == nil {
		out = io.Discard
	}
	return &Sim{out: out}
}

// AddString registers a format string and returns its id.
func (s *Sim) AddString(str string) (uint8, bool) {
	if len(s.strings) >= MaxStrings {
		return 0, false
	}
	s.strings = append(s.strings, str)
	return uint8(len(s.strings) - 1), true
}

// LoadStrings replaces the format string table, as when loading a new
// program container.
func (s *Sim) LoadStrings(strs []string) bool {
	if len(strs) > MaxStrings {
		return false
	}
	s.strings = append([]string(nil), strs...)
	return true
}

// SetButton stages the state of a button for subsequent reads.
func (s *Sim) SetButton(id uint8, pressed bool) {
	if int(id) < MaxButtons {
		s.buttons[id] = pressed
	}
}

// SetAnalogInput stages an analog value for subsequent AnalogRead calls.
func (s *Sim) SetAnalogInput(pin uint8, value uint16) {
	if int(pin) < MaxGPIOPins {
		s.pins[pin].analog = value
	}
}

// PinValue returns the last digitally written value of a pin, for tests.
func (s *Sim) PinValue(pin uint8) uint8 {
	if int(pin) >= MaxGPIOPins {
		return 0
	}
	return s.pins[pin].digital
}

func (s *Sim) DigitalWrite(pin uint8, value uint8) bool {
	if int(pin) >= MaxGPIOPins {
		return false
	}
	if value != 0 {
		value = 1
	}
	s.pins[pin].digital = value
	s.pins[pin].initialized = true
	return true
}

func (s *Sim) DigitalRead(pin uint8) (uint8, bool) {
	if int(pin) >= MaxGPIOPins {
		return 0, false
	}
	return s.pins[pin].digital, true
}

func (s *Sim) AnalogWrite(pin uint8, value uint16) bool {
	if int(pin) >= MaxGPIOPins {
		return false
	}
	s.pins[pin].analog = value
	s.pins[pin].initialized = true
	return true
}

func (s *Sim) AnalogRead(pin uint8) (uint16, bool) {
	if int(pin) >= MaxGPIOPins {
		return 0, false
	}
	return s.pins[pin].analog, true
}

func (s *Sim) PinMode(pin uint8, mode uint8) bool {
	if int(pin) >= MaxGPIOPins || !IsValidPinMode(mode) {
		return false
	}
	s.pins[pin].mode = mode
	s.pins[pin].initialized = true
	return true
}

// Delay advances the simulated clock; it never sleeps.
func (s *Sim) Delay(ms uint32) {
	s.nowMicros += uint64(ms) * 1000
}

func (s *Sim) Millis() uint32 {
	return uint32(s.nowMicros / 1000)
}

func (s *Sim) Micros() uint32 {
	return uint32(s.nowMicros)
}

func (s *Sim) ButtonPressed(id uint8) bool {
	if int(id) >= MaxButtons {
		return false
	}
	return s.buttons[id]
}

func (s *Sim) ButtonReleased(id uint8) bool {
	if int(id) >= MaxButtons {
		return false
	}
	released := s.prevState[id] && !s.buttons[id]
	s.prevState[id] = s.buttons[id]
	return released
}

func (s *Sim) Printf(stringID uint8, args []int32) bool {
	if int(stringID) >= len(s.strings) || len(args) > MaxPrintfArgs {
		return false
	}
	rendered, ok := formatString(s.strings[stringID], args)
	if !ok {
		return false
	}
	_, err := io.WriteString(s.out, rendered)
	return err == nil
}

// formatString renders the %d, %u, %x, %c and %% verbs supported by
// guest programs. Any other verb, or too few arguments, is a failure.
func formatString(format string, args []int32) (string, bool) {
	var b strings.Builder
	argIndex := 0
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			b.WriteByte(ch)
			continue
		}
		if i+1 >= len(format) {
			return "", false
		}
		i++
		verb := format[i]
		if verb == '%' {
			b.WriteByte('%')
			continue
		}
		if argIndex >= len(args) {
			return "", false
		}
		arg := args[argIndex]
		argIndex++
		switch verb {
		case 'd':
			fmt.Fprintf(&b, "%d", arg)
		case 'u':
			fmt.Fprintf(&b, "%d", uint32(arg))
		case 'x':
			fmt.Fprintf(&b, "%x", uint32(arg))
		case 'c':
			b.WriteByte(byte(arg))
		default:
			return "", false
		}
	}
	return b.String(), true
}

var _ Controller = (*Sim)(nil)
