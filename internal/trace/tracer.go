package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives trace events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "" or "-" for stderr
	RingSize   int       // default 1024
}

// Tracers returned by New. Ring is nil unless the level keeps a crash buffer.
type Tracers struct {
	Tracer Tracer
	Ring   *RingTracer
}

// New builds the tracer for cfg. Every enabled level keeps a ring buffer for
// crash dumps; levels above LevelError also stream to the output.
func New(cfg Config) (Tracers, error) {
	if cfg.Level == LevelOff {
		return Tracers{Tracer: Nop}, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 1024
	}
	ring := NewRingTracer(cfg.RingSize, cfg.Level)
	if cfg.Level == LevelError {
		return Tracers{Tracer: ring, Ring: ring}, nil
	}

	format := FormatText
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
		format = FormatNDJSON
	}
	w, err := openOutput(cfg)
	if err != nil {
		return Tracers{}, err
	}
	stream := NewStreamTracer(w, cfg.Level, format)
	return Tracers{Tracer: NewMultiTracer(cfg.Level, stream, ring), Ring: ring}, nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser keeps Close from closing stderr.
type nopCloser struct{ io.Writer }
