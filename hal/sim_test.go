package hal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigitalReadBack(t *testing.T) {
	s := NewSim(nil)
	require.True(t, s.DigitalWrite(13, 1))
	v, ok := s.DigitalRead(13)
	require.True(t, ok)
	require.Equal(t, uint8(1), v)

	// Non-zero values normalize to 1
	require.True(t, s.DigitalWrite(13, 255))
	require.Equal(t, uint8(1), s.PinValue(13))
}

func TestInvalidPins(t *testing.T) {
	s := NewSim(nil)
	require.False(t, s.DigitalWrite(MaxGPIOPins, 1))
	_, ok := s.DigitalRead(MaxGPIOPins)
	require.False(t, ok)
	require.False(t, s.PinMode(0, 99))
	require.True(t, s.PinMode(0, ModeOutput))
}

func TestAnalogStaging(t *testing.T) {
	s := NewSim(nil)
	s.SetAnalogInput(4, 512)
	v, ok := s.AnalogRead(4)
	require.True(t, ok)
	require.Equal(t, uint16(512), v)
}

func TestSimulatedClock(t *testing.T) {
	s := NewSim(nil)
	require.Equal(t, uint32(0), s.Millis())
	s.Delay(250)
	require.Equal(t, uint32(250), s.Millis())
	require.Equal(t, uint32(250000), s.Micros())
}

func TestButtons(t *testing.T) {
	s := NewSim(nil)
	require.False(t, s.ButtonPressed(0))
	s.SetButton(0, true)
	require.True(t, s.ButtonPressed(0))

	// Released fires once on the press->release edge
	require.False(t, s.ButtonReleased(0))
	s.SetButton(0, false)
	require.True(t, s.ButtonReleased(0))
	require.False(t, s.ButtonReleased(0))
}

func TestPrintf(t *testing.T) {
	var out bytes.Buffer
	s := NewSim(&out)
	id, ok := s.AddString("count=%d hex=%x pct=%%\n")
	require.True(t, ok)

	require.True(t, s.Printf(id, []int32{42, 255}))
	require.Equal(t, "count=42 hex=ff pct=%\n", out.String())
}

func TestPrintfUnsigned(t *testing.T) {
	var out bytes.Buffer
	s := NewSim(&out)
	id, _ := s.AddString("%u")
	require.True(t, s.Printf(id, []int32{-1}))
	require.Equal(t, "4294967295", out.String())
}

func TestPrintfFailures(t *testing.T) {
	s := NewSim(nil)
	require.False(t, s.Printf(0, nil)) // no strings registered

	id, _ := s.AddString("%d %d")
	require.False(t, s.Printf(id, []int32{1})) // too few args

	id2, _ := s.AddString("%q")
	require.False(t, s.Printf(id2, []int32{1})) // unsupported verb
}

func TestLoadStrings(t *testing.T) {
	s := NewSim(nil)
	require.True(t, s.LoadStrings([]string{"a", "b"}))
	require.False(t, s.LoadStrings(make([]string, MaxStrings+1)))
}
