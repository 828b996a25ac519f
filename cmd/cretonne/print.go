package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DarkDrek/cretonne/internal/ir"
	"github.com/DarkDrek/cretonne/internal/irparse"
)

var printCmd = &cobra.Command{
	Use:   "print [flags] file.cton",
	Short: "Parse a textual IR file and print it back",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return reportError(cmd, fmt.Errorf("failed to read %q: %w", args[0], err))
	}
	fns, err := irparse.Parse(string(src))
	if err != nil {
		return reportError(cmd, err)
	}
	for _, fn := range fns {
		if err := ir.ValidateFunction(fn); err != nil {
			return reportError(cmd, fmt.Errorf("function %s: %w", fn.Name, err))
		}
		if err := ir.DumpFunction(cmd.OutOrStdout(), fn); err != nil {
			return err
		}
	}
	return nil
}
