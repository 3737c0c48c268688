package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:           "picovm",
		Short:         "Run and inspect guest bytecode programs",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")
	root.AddCommand(newRunCommand())
	root.AddCommand(newDisCommand())

	cobra.OnInitialize(func() {
		if noColor, _ := root.PersistentFlags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
	})

	if err := root.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
