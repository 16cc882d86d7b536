package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docket/internal/trace"
)

// activeTracer is kept so a failed run can dump the ring buffer.
var activeTracer = trace.Nop

func readTraceConfig(cmd *cobra.Command) (trace.Config, error) {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return trace.Config{}, err
	}
	levelName, err := flags.GetString("trace-level")
	if err != nil {
		return trace.Config{}, err
	}
	modeName, err := flags.GetString("trace-mode")
	if err != nil {
		return trace.Config{}, err
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return trace.Config{}, err
	}
	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return trace.Config{}, err
	}
	// --trace без уровня включает стадии
	if level == trace.LevelOff && output != "" {
		level = trace.LevelStage
	}
	mode, err := trace.ParseMode(modeName)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Mode: mode, Path: output, RingSize: ringSize}, nil
}

// setupTracing builds the tracer from the --trace* flags, attaches it to
// the command context and opens the run span named after the command.
// The returned cleanup ends the span and closes the tracer.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := readTraceConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("trace flags: %w", err)
	}
	interval, err := cmd.Root().PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("trace flags: %w", err)
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, err
	}
	activeTracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	span, ctx := trace.Start(ctx, trace.ScopeRun, cmd.CommandPath())
	cmd.SetContext(ctx)
	heartbeat := trace.StartHeartbeat(tracer, interval)

	return func() {
		heartbeat.Stop()
		span.End("")
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close: %v\n", err)
		}
		activeTracer = trace.Nop
	}, nil
}

// dumpTraceRing writes buffered ring events to stderr after a failure.
func dumpTraceRing() {
	ring, ok := trace.RingOf(activeTracer)
	if !ok {
		return
	}
	fmt.Fprintln(os.Stderr, "--- trace ring ---")
	if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump: %v\n", err)
	}
}
