package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"luedit/internal/config"
	"luedit/internal/trace"
)

// setupTracing initializes the tracer from the trace flags, falling back to
// the [trace] table of luedit.toml for flags left unset. The tracer is
// attached to the command context.
func setupTracing(cmd *cobra.Command, defaults config.TraceConfig) (func() error, error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	if levelStr == "" {
		levelStr = defaults.Level
		// --trace без уровня включает фазы
		if traceOutput != "" && (levelStr == "" || levelStr == "off") {
			levelStr = "phase"
		}
	}
	if modeStr == "" {
		modeStr = defaults.Mode
		if traceOutput != "" {
			modeStr = "stream"
		}
	}
	if traceOutput == "" {
		traceOutput = defaults.Output
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(contextOf(cmd), trace.Nop))
		return func() error { return nil }, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(contextOf(cmd), tracer))

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	return func() error {
		// heartbeat первым, чтобы не писать в закрытый трейсер
		if heartbeat != nil {
			heartbeat.Stop()
		}
		return errors.Join(tracer.Flush(), tracer.Close())
	}, nil
}

// dumpTraceOnPanic writes the ring buffer of the command tracer to stderr
// when the command panics, then re-panics.
func dumpTraceOnPanic(cmd *cobra.Command) {
	r := recover()
	if r == nil {
		return
	}
	var ring *trace.RingTracer
	switch t := trace.FromContext(contextOf(cmd)).(type) {
	case *trace.RingTracer:
		ring = t
	case *trace.MultiTracer:
		ring = t.Ring()
	}
	if ring != nil {
		fmt.Fprintln(os.Stderr, "luedit: panic, last trace events:")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}
