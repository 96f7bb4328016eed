package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"verdict/internal/capture"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Re-encode a diagnostics capture file",
	Long: `Read a diagnostics capture file and write it back in the encoding implied
by the output extension: .json for JSON, anything else for msgpack`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]

		diags, err := capture.ReadFile(in)
		if err != nil {
			return fmt.Errorf("failed to read capture: %w", err)
		}
		if err := capture.WriteFile(out, diags); err != nil {
			return fmt.Errorf("failed to write capture: %w", err)
		}

		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		if !quiet {
			fmt.Fprintf(os.Stdout, "wrote %d diagnostics to %s\n", len(diags), out)
		}
		return nil
	},
}
