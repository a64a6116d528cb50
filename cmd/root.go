// Package cmd wires the driftscan CLI. All algorithmic work lives in
// internal packages; commands only load inputs, pick a mode, and render.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var configPathFlag string

func rootCmd() *cobra.Command {
	long := `driftscan inspects a conversation transcript between a user and an AI
assistant and reports memory drift: repeated asks, contradictions,
session resets, and forgotten preferences.`

	cmd := &cobra.Command{
		Use:           "driftscan",
		Short:         "Inspect AI conversation transcripts for memory drift",
		Long:          long,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "settings file path")
	cmd.AddCommand(inspectCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(menuCmd())
	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
