// Package cmd provides the command-line interface of wssim.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the wssim command with all its subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wssim",
		Short: "wssim simulates working-set based virtual memory.",
		Long: `wssim simulates processes that share a fixed pool of physical ` +
			`frames. Each process keeps a bounded working set with LRU ` +
			`replacement, and a full memory evicts whole processes in ` +
			`round-robin order.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}

	return 0
}
