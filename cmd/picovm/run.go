package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/deepnoodle-ai/picovm/errz"
	"github.com/deepnoodle-ai/picovm/host"
	"github.com/deepnoodle-ai/picovm/vm"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCommand() *cobra.Command {
	var (
		configPath string
		maxSteps   int
		timeout    time.Duration
		trace      bool
		verbose    bool
		showState  bool
	)
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute a program container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := host.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = host.LoadConfig(configPath)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("max-steps") {
				cfg.MaxSteps = maxSteps
			}
			if cmd.Flags().Changed("timeout") {
				cfg.SetTimeout(timeout)
			}
			if trace {
				cfg.Trace = true
			}

			logger := zap.NewNop()
			if verbose {
				var err error
				logger, err = zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()
			}

			runner := host.NewRunner(cfg, logger)
			report, err := runner.RunFile(cmd.Context(), args[0])
			if report != nil {
				fmt.Print(report.Output)
				if showState {
					printState(report)
				}
			}
			return describeRunError(err, report)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML run configuration file")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Instruction budget (0 for unlimited)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Wall-clock limit (0 for none)")
	cmd.Flags().BoolVar(&trace, "trace", false, "Log every instruction")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable logging")
	cmd.Flags().BoolVar(&showState, "state", false, "Print final stack and globals")
	return cmd
}

func printState(report *host.Report) {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Println("-- final state --")
	fmt.Printf("steps:   %d\n", report.Steps)
	fmt.Printf("pc:      %d\n", report.PC)
	fmt.Printf("stack:   %v\n", report.Stack)
	fmt.Printf("globals: %v\n", report.Globals)
	fmt.Printf("elapsed: %s\n", report.Elapsed)
}

func describeRunError(err error, report *host.Report) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, vm.ErrStepBudget):
		return fmt.Errorf("step budget exhausted after %d instructions", report.Steps)
	case errors.Is(err, host.ErrDeadline):
		return fmt.Errorf("deadline exceeded after %d instructions", report.Steps)
	}
	var guestErr *errz.Error
	if errors.As(err, &guestErr) && report != nil {
		return fmt.Errorf("guest fault at pc %d: %w", report.PC, err)
	}
	return err
}
