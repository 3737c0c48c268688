// Package host runs guest programs under resource limits. It wires a
// program container to a machine, a fresh memory image, and a
// simulated peripheral controller, then drives execution under the
// configured step budget and wall-clock deadline.
package host

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/deepnoodle-ai/picovm/bytecode"
	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/hal"
	"github.com/deepnoodle-ai/picovm/mem"
	"github.com/deepnoodle-ai/picovm/vm"
	"go.uber.org/zap"
)

// ErrDeadline indicates the run exceeded the configured wall-clock
// timeout before the guest halted.
var ErrDeadline = errors.New("wall-clock deadline exceeded")

// deadlineCheckInterval is how many steps execute between wall-clock
// checks. Checking every step would dominate the run with time calls.
const deadlineCheckInterval = 1024

// Report captures the final state of a run for callers and
// conformance tests.
type Report struct {
	Halted  bool
	Err     errz.Code
	Steps   uint64
	PC      int
	Stack   []int32
	Globals []int32
	Output  string
	Elapsed time.Duration
}

// Runner executes guest containers. A Runner is reusable; each run
// gets a fresh machine, memory image, and peripheral controller.
type Runner struct {
	cfg Config
	log *zap.Logger
}

// NewRunner returns a Runner with the given configuration. A nil
// logger disables logging.
func NewRunner(cfg Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

// RunFile loads a container from disk and runs it.
func (r *Runner) RunFile(ctx context.Context, path string) (*Report, error) {
	c, err := bytecode.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.RunContainer(ctx, c)
}

// RunContainer runs the given container to completion. The returned
// Report is valid even when err is non-nil; it reflects the machine
// state at the point execution stopped.
func (r *Runner) RunContainer(ctx context.Context, c *bytecode.Container) (*Report, error) {
	program, err := c.Program()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	sim := hal.NewSim(&out)
	if !sim.LoadStrings(c.Strings) {
		return nil, errz.InvalidProgram.Err()
	}

	var options []vm.Option
	if r.cfg.Trace {
		options = append(options, vm.WithObserver(&traceObserver{log: r.log}))
	}
	machine := vm.New(options...)
	if err := machine.Load(program); err != nil {
		return nil, err
	}
	memory := mem.New()

	r.log.Info("run start",
		zap.String("name", c.Name),
		zap.Int("instructions", program.Len()),
		zap.Int("max_steps", r.cfg.MaxSteps),
		zap.Duration("timeout", r.cfg.Timeout.Duration))

	start := time.Now()
	runErr := r.drive(ctx, machine, memory, sim, start)

	report := &Report{
		Halted:  machine.Halted(),
		Err:     machine.LastError(),
		Steps:   machine.Steps(),
		PC:      machine.PC(),
		Stack:   memory.StackSlice(),
		Globals: memory.GlobalSlice(),
		Output:  out.String(),
		Elapsed: time.Since(start),
	}

	r.log.Info("run complete",
		zap.Uint64("steps", report.Steps),
		zap.Int("pc", report.PC),
		zap.Bool("halted", report.Halted),
		zap.String("guest_error", report.Err.String()),
		zap.Duration("elapsed", report.Elapsed),
		zap.Error(runErr))

	return report, runErr
}

// drive steps the machine until it halts or a limit trips. Limits are
// enforced here rather than inside the machine so the deadline covers
// real time spent, not just instruction count.
func (r *Runner) drive(ctx context.Context, machine *vm.Machine, memory *mem.Memory, io hal.Controller, start time.Time) error {
	var deadline time.Time
	if r.cfg.Timeout.Duration > 0 {
		deadline = start.Add(r.cfg.Timeout.Duration)
	}
	executed := 0
	for !machine.Halted() {
		if r.cfg.MaxSteps > 0 && executed >= r.cfg.MaxSteps {
			return vm.ErrStepBudget
		}
		if executed%deadlineCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				return ErrDeadline
			}
		}
		machine.Step(memory, io)
		executed++
	}
	return machine.LastError().Err()
}

// traceObserver logs each instruction at debug level.
type traceObserver struct {
	log *zap.Logger
}

func (t *traceObserver) OnStep(e vm.StepEvent) bool {
	t.log.Debug("step",
		zap.Int("pc", e.PC),
		zap.String("op", e.OpcodeName),
		zap.Uint8("flags", e.Flags),
		zap.Uint16("immediate", e.Immediate),
		zap.Int("depth", e.StackDepth))
	return true
}

func (t *traceObserver) OnComplete(e vm.CompleteEvent) {
	t.log.Debug("complete",
		zap.Uint64("steps", e.Steps),
		zap.Int("pc", e.PC),
		zap.String("guest_error", e.Err.String()))
}
