package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deepnoodle-ai/picovm/bytecode"
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/op"
	"github.com/deepnoodle-ai/picovm/vm"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ins(code op.Code, immediate uint16) bytecode.Instruction {
	return bytecode.Instruction{Opcode: code, Immediate: immediate}
}

func container(t *testing.T, strs []string, instructions ...bytecode.Instruction) *bytecode.Container {
	t.Helper()
	p, err := bytecode.NewProgram(instructions)
	require.NoError(t, err)
	return bytecode.NewContainer("test", p, strs)
}

func TestRunContainer(t *testing.T) {
	c := container(t, nil,
		ins(op.Push, 7),
		ins(op.Push, 5),
		ins(op.Add, 0),
		ins(op.StoreGlobal, 0),
		ins(op.Halt, 0),
	)
	r := NewRunner(Config{}, zap.NewNop())
	report, err := r.RunContainer(context.Background(), c)
	require.NoError(t, err)
	require.True(t, report.Halted)
	require.Equal(t, errz.None, report.Err)
	require.Equal(t, uint64(5), report.Steps)
	require.Empty(t, report.Stack)
	require.Equal(t, []int32{12}, report.Globals)
}

func TestRunContainerPrintf(t *testing.T) {
	c := container(t, []string{"value=%d\n"},
		ins(op.Push, 42),
		ins(op.Push, 1),
		ins(op.Printf, 0),
		ins(op.Halt, 0),
	)
	r := NewRunner(Config{}, nil)
	report, err := r.RunContainer(context.Background(), c)
	require.NoError(t, err)
	require.Equal(t, "value=42\n", report.Output)
}

func TestRunContainerGuestError(t *testing.T) {
	c := container(t, nil,
		ins(op.Push, 1),
		ins(op.Push, 0),
		ins(op.Div, 0),
	)
	r := NewRunner(Config{}, nil)
	report, err := r.RunContainer(context.Background(), c)
	require.Error(t, err)
	require.Equal(t, errz.DivisionByZero, report.Err)
	require.True(t, report.Halted)
}

func TestRunContainerStepBudget(t *testing.T) {
	c := container(t, nil,
		ins(op.Jmp, 0),
	)
	r := NewRunner(Config{MaxSteps: 100}, nil)
	report, err := r.RunContainer(context.Background(), c)
	require.ErrorIs(t, err, vm.ErrStepBudget)
	require.False(t, report.Halted)
	require.Equal(t, uint64(100), report.Steps)
}

func TestRunContainerDeadline(t *testing.T) {
	c := container(t, nil,
		ins(op.Jmp, 0),
	)
	r := NewRunner(Config{Timeout: duration{time.Nanosecond}}, nil)
	report, err := r.RunContainer(context.Background(), c)
	require.ErrorIs(t, err, ErrDeadline)
	require.False(t, report.Halted)
}

func TestRunContainerContextCancel(t *testing.T) {
	c := container(t, nil,
		ins(op.Jmp, 0),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(Config{}, nil)
	_, err := r.RunContainer(ctx, c)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunContainerTooManyStrings(t *testing.T) {
	strs := make([]string, 33)
	p, err := bytecode.NewProgram([]bytecode.Instruction{ins(op.Halt, 0)})
	require.NoError(t, err)
	c := &bytecode.Container{Version: bytecode.ContainerVersion, Strings: strs, Code: p.Encode()}
	r := NewRunner(Config{}, nil)
	_, err = r.RunContainer(context.Background(), c)
	require.Error(t, err)
}

func TestRunContainerTrace(t *testing.T) {
	c := container(t, nil,
		ins(op.Push, 1),
		ins(op.Halt, 0),
	)
	r := NewRunner(Config{Trace: true}, zap.NewNop())
	report, err := r.RunContainer(context.Background(), c)
	require.NoError(t, err)
	require.True(t, report.Halted)
}

func TestRunFile(t *testing.T) {
	c := container(t, nil,
		ins(op.Push, 9),
		ins(op.StoreGlobal, 3),
		ins(op.Halt, 0),
	)
	path := filepath.Join(t.TempDir(), "prog.pvm")
	require.NoError(t, c.WriteFile(path))

	r := NewRunner(Config{}, nil)
	report, err := r.RunFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 0, 0, 9}, report.Globals)
}

func TestRunFileMissing(t *testing.T) {
	r := NewRunner(Config{}, nil)
	_, err := r.RunFile(context.Background(), "does-not-exist.pvm")
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"max_steps = 500\ntimeout = \"250ms\"\ntrace = true\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 500, cfg.MaxSteps)
	require.Equal(t, 250*time.Millisecond, cfg.Timeout.Duration)
	require.True(t, cfg.Trace)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte("timeout = \"banana\"\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigNegativeSteps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_steps = -1\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("does-not-exist.toml")
	require.Error(t, err)
}
