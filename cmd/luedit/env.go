package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"luedit/internal/config"
	"luedit/internal/logging"
	"luedit/internal/observ"
	"luedit/internal/prof"
)

// env is the per-invocation state shared by all commands.
type env struct {
	cfg      config.Config
	log      *zap.Logger
	color    bool
	quiet    bool
	timings  bool
	maxDiags int
	timer    *observ.Timer

	cleanups []func() error
}

type envKey struct{}

func envFrom(cmd *cobra.Command) *env {
	if e, ok := cmd.Context().Value(envKey{}).(*env); ok {
		return e
	}
	// команды, вызванные без PersistentPreRunE (например, в тестах)
	return &env{cfg: config.Default(), log: zap.NewNop(), timer: observ.NewTimer()}
}

// setup loads luedit.toml, applies the persistent flags and starts
// tracing and profiling. It runs before every command.
func (e *env) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.LoadNearest(".")
	}
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.timer = observ.NewTimer()

	colorMode, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if e.color, err = useColor(colorMode, os.Stdout); err != nil {
		return err
	}
	color.NoColor = !e.color

	if e.quiet, err = flags.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if e.timings, err = flags.GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if e.maxDiags, err = flags.GetInt("max-diagnostics"); err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !flags.Changed("max-diagnostics") {
		e.maxDiags = cfg.Diagnostics.Max
	}
	if e.maxDiags < 0 {
		return fmt.Errorf("--max-diagnostics must be >= 0, got %d", e.maxDiags)
	}

	debug, err := flags.GetBool("debug")
	if err != nil {
		return fmt.Errorf("failed to get debug flag: %w", err)
	}
	debug = debug || cfg.Log.Debug
	switch {
	case debug:
		if e.log, err = logging.NewLogger(true); err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
	case e.quiet:
		e.log = zap.NewNop()
	default:
		e.log = logging.Quiet()
	}
	e.cleanups = append(e.cleanups, func() error {
		// sync на stderr возвращает EINVAL на некоторых платформах
		_ = e.log.Sync()
		return nil
	})
	if cfg.Path != "" {
		e.log.Debug("config loaded", zap.String("path", cfg.Path))
	}

	cmd.SetContext(context.WithValue(contextOf(cmd), envKey{}, e))

	stopTrace, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	e.cleanups = append(e.cleanups, stopTrace)

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	e.cleanups = append(e.cleanups, stopProf)
	return nil
}

// teardown runs cleanups in reverse order and prints timings. It runs
// after the command, also when it failed.
func (e *env) teardown(w io.Writer) {
	var errs []error
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		errs = append(errs, e.cleanups[i]())
	}
	e.cleanups = nil
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(w, "luedit: %v\n", err)
	}
	if e.timings && e.timer != nil && len(e.timer.Report().Stages) > 0 {
		fmt.Fprint(w, e.timer.Summary())
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func setupProfiling(cmd *cobra.Command) (func() error, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return func() error { return nil }, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return session.Stop, nil
}
