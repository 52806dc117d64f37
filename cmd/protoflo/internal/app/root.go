// Package app wires the protoflo CLI's cobra command tree.
package app

import (
	"github.com/spf13/cobra"
)

// Execute builds and runs the root command.
func Execute() error {
	return rootCommand().Execute()
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "protoflo",
		Short:         "A NoFlo-compatible flow-based-programming runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(registerCommand())
	cmd.AddCommand(runtimeCommand())
	cmd.AddCommand(runCommand())
	return cmd
}
