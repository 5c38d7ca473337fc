package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"soltree/internal/trace"
)

// tracing is the tracer attached to a command run.
type tracing struct {
	ring    *trace.RingTracer
	cleanup func()
}

// setupTracing reads the trace flags, attaches the tracer to the command
// context and returns the handle whose cleanup flushes it.
func setupTracing(cmd *cobra.Command) (*tracing, error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace without a level means phase tracing.
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return &tracing{cleanup: func() {}}, nil
	}

	tracers, err := trace.New(trace.Config{Level: level, OutputPath: traceOutput})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracers.Tracer))

	tracer := tracers.Tracer
	return &tracing{
		ring: tracers.Ring,
		cleanup: func() {
			if err := tracer.Flush(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
			}
			if err := tracer.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
			}
		},
	}, nil
}

// dumpOnError writes the buffered trace events to stderr when a run failed.
func (t *tracing) dumpOnError(cmd *cobra.Command, runErr error) {
	if t == nil || t.ring == nil || runErr == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "trace: last events before failure:\n")
	if err := t.ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
	}
}
