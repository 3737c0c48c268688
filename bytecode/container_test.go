package bytecode

import (
	"path/filepath"
	"testing"

	"github.com/deepnoodle-ai/picovm/op"
	"github.com/stretchr/testify/require"
)

func testProgram(t *testing.T) *Program {
	t.Helper()
	p, err := NewProgram([]Instruction{
		{Opcode: op.Push, Immediate: 42},
		{Opcode: op.Halt},
	})
	require.Nil(t, err)
	return p
}

func TestContainerRoundTrip(t *testing.T) {
	p := testProgram(t)
	c := NewContainer("blinky", p, []string{"count=%d\n"})

	data, err := c.Marshal()
	require.Nil(t, err)

	parsed, err := UnmarshalContainer(data)
	require.Nil(t, err)
	require.Equal(t, ContainerVersion, parsed.Version)
	require.Equal(t, "blinky", parsed.Name)
	require.Equal(t, []string{"count=%d\n"}, parsed.Strings)

	decoded, err := parsed.Program()
	require.Nil(t, err)
	require.Equal(t, p.Instructions(), decoded.Instructions())
}

func TestContainerFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.pvm")
	c := NewContainer("t", testProgram(t), nil)
	require.Nil(t, c.WriteFile(path))

	loaded, err := ReadFile(path)
	require.Nil(t, err)
	require.Equal(t, c.Code, loaded.Code)
}

func TestContainerValidate(t *testing.T) {
	c := &Container{
		Version: 99,
		Strings: make([]string, MaxStrings+1),
		Code:    []byte{0x00},
	}
	err := c.Validate()
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "version")
	require.Contains(t, err.Error(), "string table")
	require.Contains(t, err.Error(), "code length")
}

func TestUnmarshalContainerRejectsGarbage(t *testing.T) {
	_, err := UnmarshalContainer([]byte{0xFF, 0x00, 0x01})
	require.NotNil(t, err)
}
