package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"krllint/internal/pipeline"
	"krllint/internal/trace"
)

var (
	traceCleanup = func() {}
	// runProgress counts files of the current lint run for heartbeats.
	runProgress = &pipeline.Counter{}
	// traceRing is set in ring mode; its events are dumped when a run
	// ends with a tool failure.
	traceRing *trace.RingTracer
)

// setupTracing inspects trace-related flags and attaches the tracer to the
// command context. closeTracing releases it.
func setupTracing(cmd *cobra.Command) error {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	traceRing = trace.RingOf(tracer)

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval, runProgress.String)
	}

	errOut := cmd.ErrOrStderr()
	traceCleanup = func() {
		// Stop heartbeat first
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}
	return nil
}

func closeTracing() {
	traceCleanup()
	traceCleanup = func() {}
}

// dumpTrace writes the ring buffer, if any, after a tool failure.
func dumpTrace(w io.Writer) {
	if traceRing == nil {
		return
	}
	fmt.Fprintln(w, "--- trace ---")
	if err := traceRing.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}

// dumpTraceOnPanic prints the ring buffer before a panic leaves main.
func dumpTraceOnPanic() {
	if r := recover(); r != nil {
		dumpTrace(os.Stderr)
		panic(r)
	}
}
