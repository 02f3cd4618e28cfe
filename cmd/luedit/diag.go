package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"luedit/internal/batch"
	"luedit/internal/diag"
	"luedit/internal/diagfmt"
	"luedit/internal/source"
	"luedit/internal/trace"
)

func newDiagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file.lu|directory>...",
		Short: "Report diagnostics for LU documents",
		Long:  `Run diagnostics on LU documents or on every *.lu file within directories`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDiag,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	return cmd
}

type diagOptions struct {
	format           string
	jobs             int
	ui               uiMode
	noWarnings       bool
	warningsAsErrors bool
	pathMode         diagfmt.PathMode
}

func readDiagOptions(cmd *cobra.Command) (diagOptions, error) {
	var opts diagOptions
	var err error
	flags := cmd.Flags()
	if opts.format, err = flags.GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(opts.format)
	switch opts.format {
	case "pretty", "json", "short":
	default:
		return opts, fmt.Errorf("unknown format: %s", opts.format)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	if opts.noWarnings, err = flags.GetBool("no-warnings"); err != nil {
		return opts, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if opts.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if opts.noWarnings && opts.warningsAsErrors {
		return opts, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	opts.pathMode = diagfmt.PathModeRelative
	if fullPath {
		opts.pathMode = diagfmt.PathModeAbsolute
	}
	return opts, nil
}

// expandPaths replaces directories by the *.lu files below them.
func expandPaths(args []string) ([]string, string, error) {
	var files []string
	baseDir := ""
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := batch.ListFiles(arg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to list %s: %w", arg, err)
		}
		files = append(files, found...)
		if len(args) == 1 {
			baseDir = arg
		}
	}
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}
	return files, baseDir, nil
}

// runDiag diagnoses the given files and directories and prints the
// result in the chosen format. It fails when any document has errors.
func runDiag(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)
	e := envFrom(cmd)

	opts, err := readDiagOptions(cmd)
	if err != nil {
		return err
	}
	files, baseDir, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if !e.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "no .lu files found")
		}
		return nil
	}

	span, ctx := trace.StartSpan(cmd.Context(), trace.ScopeCommand, "diag")
	defer span.End(fmt.Sprintf("%d files", len(files)))

	batchOpts := batch.Options{MaxErrors: uint(e.maxDiags), Jobs: opts.jobs}
	var (
		fileSet *source.FileSet
		results []batch.Result
	)
	stage := e.timer.Begin("diagnose")
	if opts.format != "json" && shouldUseTUI(opts.ui, len(files)) {
		fileSet, results, err = runDiagWithUI(ctx, "luedit diag", files, batchOpts)
	} else {
		fileSet, results, err = batch.DiagnoseFiles(ctx, files, batchOpts)
	}
	e.timer.End(stage, fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return err
	}
	fileSet.SetBaseDir(baseDir)

	for i := range results {
		if results[i].Document != nil {
			results[i].Document.Diagnostics = filterDiagnostics(results[i].Document.Diagnostics, opts)
		}
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "pretty":
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
				continue
			}
			if err := diagfmt.Pretty(out, fileSet.Get(r.FileID), r.Document.Diagnostics, diagfmt.PrettyOpts{
				Color:    e.color,
				Context:  1,
				PathMode: opts.pathMode,
				BaseDir:  baseDir,
			}); err != nil {
				return err
			}
		}
	case "short":
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
				continue
			}
			if err := diagfmt.Short(out, fileSet.Get(r.FileID), r.Document.Diagnostics, opts.pathMode, baseDir); err != nil {
				return err
			}
		}
	case "json":
		var payload diagfmt.DiagnosticsOutput
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
				continue
			}
			diagfmt.Append(&payload, fileSet.Get(r.FileID), r.Document.Diagnostics, diagfmt.JSONOpts{
				PathMode: opts.pathMode,
				BaseDir:  baseDir,
			})
		}
		if err := diagfmt.WriteJSON(out, payload); err != nil {
			return err
		}
	}

	totals := batch.Summarize(results)
	if !e.quiet && opts.format != "json" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d files: %d errors, %d warnings\n", totals.Files, totals.Errors, totals.Warnings)
	}
	switch {
	case totals.Failed > 0:
		return fmt.Errorf("%d files could not be read", totals.Failed)
	case totals.Errors > 0:
		return fmt.Errorf("diagnostics found errors")
	}
	return nil
}

// filterDiagnostics applies --no-warnings and --warnings-as-errors.
func filterDiagnostics(diags []diag.Diagnostic, opts diagOptions) []diag.Diagnostic {
	if !opts.noWarnings && !opts.warningsAsErrors {
		return diags
	}
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Severity == diag.SevWarning {
			if opts.noWarnings {
				continue
			}
			d.Severity = diag.SevError
		}
		out = append(out, d)
	}
	return out
}
