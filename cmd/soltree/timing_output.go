package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soltree/internal/observ"
)

// printTimings writes the phase table to stderr when --timings is set.
func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil || !show || timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
}
