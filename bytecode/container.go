package bytecode

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/hashicorp/go-multierror"
)

// ContainerVersion is the current program container format version.
const ContainerVersion = 1

// MaxStrings caps the PRINTF string table carried by a container,
// matching the I/O controller's table capacity.
const MaxStrings = 32

// Container is the on-disk representation of a compiled guest program:
// the raw bytecode plus the string table referenced by PRINTF
// instructions. It is serialized as CBOR.
type Container struct {
	Version int      `cbor:"version"`
	Name    string   `cbor:"name,omitempty"`
	Strings []string `cbor:"strings,omitempty"`
	Code    []byte   `cbor:"code"`
}

// NewContainer bundles a program and its string table.
func NewContainer(name string, p *Program, strings []string) *Container {
	return &Container{
		Version: ContainerVersion,
		Name:    name,
		Strings: strings,
		Code:    p.Encode(),
	}
}

// Validate checks the container for structural defects, reporting all
// of them at once.
func (c *Container) Validate() error {
	var result *multierror.Error
	if c.Version != ContainerVersion {
		result = multierror.Append(result,
			fmt.Errorf("unsupported container version %d (want %d)", c.Version, ContainerVersion))
	}
	if len(c.Strings) > MaxStrings {
		result = multierror.Append(result,
			fmt.Errorf("string table has %d entries, limit is %d", len(c.Strings), MaxStrings))
	}
	if len(c.Code) == 0 || len(c.Code)%InstructionSize != 0 {
		result = multierror.Append(result,
			fmt.Errorf("code length %d is not a positive multiple of %d", len(c.Code), InstructionSize))
	}
	return result.ErrorOrNil()
}

// Program decodes and validates the contained bytecode.
func (c *Container) Program() (*Program, error) {
	return Decode(c.Code)
}

// Marshal serializes the container as CBOR.
func (c *Container) Marshal() ([]byte, error) {
	return cbor.Marshal(c)
}

// UnmarshalContainer parses and validates a CBOR-encoded container.
func UnmarshalContainer(data []byte) (*Container, error) {
	var c Container
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid program container: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ReadFile loads a program container from disk.
func ReadFile(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalContainer(data)
}

// WriteFile validates the container and writes it to disk.
func (c *Container) WriteFile(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
