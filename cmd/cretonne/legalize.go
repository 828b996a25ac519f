package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DarkDrek/cretonne/internal/driver"
	"github.com/DarkDrek/cretonne/internal/ir"
	"github.com/DarkDrek/cretonne/internal/irparse"
	"github.com/DarkDrek/cretonne/internal/target"
)

var legalizeCmd = &cobra.Command{
	Use:   "legalize [flags] file.cton",
	Short: "Legalize the functions in a textual IR file",
	Long:  `Legalize rewrites every function in the file so that no value is wider than the target's registers`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLegalize,
}

func init() {
	legalizeCmd.Flags().String("target", "rv32", "target spec: preset name or TOML file")
	legalizeCmd.Flags().Bool("no-cache", false, "bypass the result cache")
}

func runLegalize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	targetFlag, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	spec, err := target.Resolve(targetFlag)
	if err != nil {
		return reportError(cmd, err)
	}

	src, err := os.ReadFile(filePath)
	if err != nil {
		return reportError(cmd, fmt.Errorf("failed to read %q: %w", filePath, err))
	}

	var cache *driver.DiskCache
	key := driver.HashInput(string(src), spec.Name, spec.RegBits, spec.VecBits)
	if !noCache {
		if cache, err = driver.OpenDiskCache("cretonne"); err == nil {
			if payload, hit, _ := cache.Get(key); hit {
				_, err = fmt.Fprint(cmd.OutOrStdout(), payload.Output)
				return err
			}
		}
		// A broken cache never fails the run; just recompute.
	}

	fns, err := irparse.Parse(string(src))
	if err != nil {
		return reportError(cmd, err)
	}
	if err := driver.Legalize(context.Background(), fns, spec); err != nil {
		return reportError(cmd, err)
	}

	var out strings.Builder
	for _, fn := range fns {
		if err := ir.DumpFunction(&out, fn); err != nil {
			return err
		}
	}
	if cache != nil {
		// Cache write failures are not worth aborting a successful run.
		_ = cache.Put(key, &driver.CachePayload{Target: spec.Name, Output: out.String()})
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out.String())
	return err
}

// reportError prints err in red when the terminal supports it and returns
// a silent error so cobra does not print it twice.
func reportError(cmd *cobra.Command, err error) error {
	if useColor(cmd, os.Stderr) {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	cmd.SilenceErrors = true
	return err
}
