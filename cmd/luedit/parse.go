package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"luedit/internal/diagfmt"
	"luedit/internal/lufile"
	"luedit/internal/source"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.lu|->",
		Short: "Parse an LU document and print its intents",
		Long:  `Parse reads an LU document and prints the intent tree; json and yaml print the whole document including diagnostics`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	cmd.Flags().Bool("worker", false, "parse in a luedit worker child process")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)
	e := envFrom(cmd)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	viaWorker, err := cmd.Flags().GetBool("worker")
	if err != nil {
		return fmt.Errorf("failed to get worker flag: %w", err)
	}

	var in *document
	if err := e.timer.Measure("read", func() (err error) {
		in, err = readDocument(args[0], cmd.InOrStdin())
		return err
	}); err != nil {
		return err
	}

	var doc *lufile.Document
	if err := e.timer.Measure("parse", func() (err error) {
		doc, err = e.parseDocument(cmd.Context(), in.path, in.content, viaWorker)
		return err
	}); err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		printIntentTree(out, doc)
		if len(doc.Diagnostics) > 0 && !e.quiet {
			file := source.NewFile(in.path, []byte(in.content), 0)
			useErrColor, _ := useColor(colorFlag(cmd), os.Stderr)
			if err := diagfmt.Pretty(cmd.ErrOrStderr(), file, doc.Diagnostics, diagfmt.PrettyOpts{
				Color:   useErrColor,
				Context: 1,
			}); err != nil {
				return err
			}
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if doc.HasErrors() {
		return fmt.Errorf("%s: document has errors", in.path)
	}
	return nil
}

func colorFlag(cmd *cobra.Command) string {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return "auto"
	}
	return mode
}

var (
	groupColor  = color.New(color.FgCyan, color.Bold)
	intentColor = color.New(color.Bold)
	faintColor  = color.New(color.Faint)
)

// printIntentTree prints one line per intent, children indented under
// their group.
func printIntentTree(w io.Writer, doc *lufile.Document) {
	top := doc.TopLevel()
	if len(top) == 0 {
		fmt.Fprintf(w, "%s: no intents\n", doc.ID)
		return
	}
	for _, it := range top {
		if len(it.Children) > 0 {
			fmt.Fprintf(w, "%s %s\n", groupColor.Sprint(it.Name), faintColor.Sprint(lineSpan(it.Range)))
			for _, c := range it.Children {
				printIntentLine(w, "  ", c)
			}
			continue
		}
		printIntentLine(w, "", it)
	}
}

func printIntentLine(w io.Writer, indent string, it lufile.IntentSection) {
	fmt.Fprintf(w, "%s%s %s", indent, intentColor.Sprint(it.Name), faintColor.Sprint(lineSpan(it.Range)))
	if len(it.Entities) > 0 {
		fmt.Fprintf(w, " @ %s", strings.Join(it.Entities, ", "))
	}
	fmt.Fprintln(w)
}

func lineSpan(r lufile.Range) string {
	if r.StartLine == r.EndLine {
		return fmt.Sprintf("line %d", r.StartLine)
	}
	return fmt.Sprintf("lines %d-%d", r.StartLine, r.EndLine)
}
