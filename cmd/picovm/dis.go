package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/picovm/bytecode"
	"github.com/deepnoodle-ai/picovm/dis"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDisCommand() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "dis FILE",
		Short: "Disassemble a program container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := bytecode.ReadFile(args[0])
			if err != nil {
				return err
			}
			program, err := container.Program()
			if err != nil {
				return err
			}
			if container.Name != "" {
				color.New(color.Bold).Printf("%s  (%d instructions)\n", container.Name, program.Len())
			}
			if len(container.Strings) > 0 {
				heading := color.New(color.FgHiBlack)
				heading.Println("strings:")
				for i, s := range container.Strings {
					fmt.Printf("  %3d  %q\n", i, s)
				}
			}
			if raw {
				fmt.Print(dis.Disassemble(program))
				return nil
			}
			dis.Fprint(os.Stdout, program)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Plain output without color")
	return cmd
}
