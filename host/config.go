package host

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config controls a guest run. The zero value runs without a step
// budget or deadline and without tracing.
type Config struct {
	// MaxSteps caps the number of instructions executed. Zero or
	// negative means no budget.
	MaxSteps int `toml:"max_steps"`

	// Timeout bounds wall-clock execution time. Zero means no
	// deadline.
	Timeout duration `toml:"timeout"`

	// Trace logs every instruction as it executes.
	Trace bool `toml:"trace"`
}

// DefaultConfig is the configuration used by the CLI when no config
// file is given.
func DefaultConfig() Config {
	return Config{
		MaxSteps: 1_000_000,
		Timeout:  duration{5 * time.Second},
	}
}

// LoadConfig reads a TOML run configuration from path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxSteps < 0 {
		return cfg, fmt.Errorf("config %s: max_steps must not be negative", path)
	}
	return cfg, nil
}

// SetTimeout overrides the wall-clock limit, for callers configuring
// a run from flags rather than TOML.
func (c *Config) SetTimeout(d time.Duration) {
	c.Timeout = duration{d}
}

// duration wraps time.Duration so it can be written as "5s" in TOML.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}
