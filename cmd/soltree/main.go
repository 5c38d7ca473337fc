package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"soltree/internal/version"
)

// newRootCmd wires every subcommand and the global flags.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "soltree",
		Short:         "Build the contract tree document for the contract browser",
		Long:          `soltree walks a directory of Solidity sources, resolves each file's imports through its compiled artifacts and writes one nested tree document`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().String("config", "", "path to soltree.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr, .ndjson for NDJSON)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = unlimited)")
	return rootCmd
}

// main runs the root command with a context canceled on interrupt and exits
// with status 1 if the command fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
