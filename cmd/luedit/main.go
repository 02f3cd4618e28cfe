package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"luedit/internal/version"
)

// newRootCmd builds the command tree and the state its hooks fill in.
// Tests build a fresh pair per case.
func newRootCmd() (*cobra.Command, *env) {
	e := &env{}
	root := &cobra.Command{
		Use:               "luedit",
		Short:             "Structured editor for LU intent documents",
		Long:              `luedit parses LU intent documents, reports diagnostics and edits single intents without touching the rest of the file`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: e.setup,
	}

	root.AddCommand(newParseCmd())
	root.AddCommand(newDiagCmd())
	root.AddCommand(newIntentCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newLSPCmd())
	root.AddCommand(newWorkerCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of parse errors per file (0 = luedit.toml or unlimited)")
	pf.String("config", "", "path to luedit.toml (default: nearest one above the working directory)")
	pf.Bool("debug", false, "verbose logging to stderr")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")

	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a runtime trace to this file")
	return root, e
}

// main executes the root command and exits with status 1 on failure.
func main() {
	root, e := newRootCmd()
	err := root.Execute()
	e.teardown(root.ErrOrStderr())
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for a stream.
func useColor(mode string, f *os.File) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}
