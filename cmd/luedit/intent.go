package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"luedit/internal/diagfmt"
	"luedit/internal/lufile"
	"luedit/internal/source"
	"luedit/internal/trace"
)

type intentOp string

const (
	opAdd     intentOp = "add"
	opUpdate  intentOp = "update"
	opReplace intentOp = "replace"
	opRemove  intentOp = "remove"
)

func newIntentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intent",
		Short: "Add, update, replace or remove one intent of an LU document",
		Long:  `Intent edits one intent by name. The rest of the document is kept byte for byte. "Parent/Child" names address a child of a nested group`,
	}
	cmd.AddCommand(newIntentOpCmd(opAdd, "Add an intent, or update it when the name exists"))
	cmd.AddCommand(newIntentOpCmd(opUpdate, "Update an intent; an empty body deletes it and a missing one is added"))
	cmd.AddCommand(newIntentOpCmd(opReplace, "Replace an existing intent; fails when it is missing"))
	cmd.AddCommand(newIntentOpCmd(opRemove, "Remove an intent; a missing one is not an error"))
	return cmd
}

func newIntentOpCmd(op intentOp, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(op) + " [flags] <file.lu|->",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntent(cmd, op, args[0])
		},
	}
	cmd.Flags().String("name", "", "intent name, \"Parent/Child\" for a nested child")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().Bool("write", false, "rewrite the file in place instead of printing it")
	cmd.Flags().String("format", "text", "output format (text|json)")
	if op != opRemove {
		cmd.Flags().String("body", "", "intent body; \\n separates lines")
		cmd.Flags().String("body-file", "", "read the intent body from a file (- for stdin)")
	}
	if op == opUpdate || op == opReplace {
		cmd.Flags().String("rename", "", "new name of the intent (defaults to --name)")
	}
	return cmd
}

type intentRequest struct {
	op     intentOp
	name   string
	rename string
	body   string
	write  bool
	format string
}

func readIntentRequest(cmd *cobra.Command, op intentOp) (intentRequest, error) {
	req := intentRequest{op: op}
	flags := cmd.Flags()
	var err error
	if req.name, err = flags.GetString("name"); err != nil {
		return req, fmt.Errorf("failed to get name flag: %w", err)
	}
	if strings.TrimSpace(req.name) == "" {
		return req, fmt.Errorf("--name must not be empty")
	}
	if req.write, err = flags.GetBool("write"); err != nil {
		return req, fmt.Errorf("failed to get write flag: %w", err)
	}
	if req.format, err = flags.GetString("format"); err != nil {
		return req, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch req.format {
	case "text", "json":
	default:
		return req, fmt.Errorf("unknown format: %s", req.format)
	}
	if flags.Lookup("rename") != nil {
		if req.rename, err = flags.GetString("rename"); err != nil {
			return req, fmt.Errorf("failed to get rename flag: %w", err)
		}
	}
	if flags.Lookup("body") != nil {
		body, err := readBody(cmd)
		if err != nil {
			return req, err
		}
		req.body = body
	}
	needBody := op == opAdd || op == opReplace || req.rename != ""
	if needBody && strings.TrimSpace(req.body) == "" {
		return req, fmt.Errorf("%s needs a non-empty --body or --body-file", op)
	}
	return req, nil
}

// readBody returns the body from --body or --body-file with CRLF line
// ends.
func readBody(cmd *cobra.Command) (string, error) {
	body, err := cmd.Flags().GetString("body")
	if err != nil {
		return "", fmt.Errorf("failed to get body flag: %w", err)
	}
	bodyFile, err := cmd.Flags().GetString("body-file")
	if err != nil {
		return "", fmt.Errorf("failed to get body-file flag: %w", err)
	}
	if body != "" && bodyFile != "" {
		return "", fmt.Errorf("--body and --body-file cannot be used together")
	}
	if bodyFile != "" {
		var data []byte
		if bodyFile == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			// #nosec G304 -- path is provided by the user
			data, err = os.ReadFile(bodyFile)
		}
		if err != nil {
			return "", fmt.Errorf("failed to read body: %w", err)
		}
		body = strings.TrimRight(string(data), "\r\n")
	} else {
		body = strings.ReplaceAll(body, `\n`, "\n")
	}
	return normalizeNewlines(body), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", lufile.NewLine)
}

// payload is the intent handed to the editing functions. A nil payload
// asks for deletion.
func (r intentRequest) payload() *lufile.IntentSection {
	if r.op == opRemove || (r.op == opUpdate && r.body == "" && r.rename == "") {
		return nil
	}
	name := r.rename
	if name == "" {
		name = r.name
	}
	return &lufile.IntentSection{Name: name, Body: r.body}
}

// apply runs the edit on content.
func (r intentRequest) apply(id, content string) (*lufile.Document, error) {
	intent := r.payload()
	switch r.op {
	case opAdd:
		return lufile.AddIntent(id, content, *intent)
	case opUpdate:
		return lufile.UpdateIntent(id, content, r.name, intent)
	case opReplace:
		return lufile.ReplaceIntent(id, content, r.name, *intent)
	case opRemove:
		return lufile.RemoveIntent(id, content, r.name)
	}
	return nil, fmt.Errorf("unknown intent operation %q", r.op)
}

func runIntent(cmd *cobra.Command, op intentOp, path string) error {
	defer dumpTraceOnPanic(cmd)
	e := envFrom(cmd)

	req, err := readIntentRequest(cmd, op)
	if err != nil {
		return err
	}
	if req.write && path == "-" {
		return fmt.Errorf("--write needs a file, not stdin")
	}

	if req.write {
		lock, err := lockDocument(path)
		if err != nil {
			return err
		}
		defer func() { _ = lock.Unlock() }()
	}

	var in *document
	if err := e.timer.Measure("read", func() (err error) {
		in, err = readDocument(path, cmd.InOrStdin())
		return err
	}); err != nil {
		return err
	}

	span, _ := trace.StartSpan(cmd.Context(), trace.ScopeEdit, "intent:"+string(op))
	var doc *lufile.Document
	err = e.timer.Measure("edit", func() (err error) {
		doc, err = req.apply(in.path, in.content)
		return err
	})
	span.WithExtra("name", req.name).End(errString(err))
	if err != nil {
		if errors.Is(err, lufile.ErrIntentNotFound) || errors.Is(err, lufile.ErrUnsupportedName) ||
			errors.Is(err, lufile.ErrNotGroup) {
			return err
		}
		return fmt.Errorf("intent %s failed: %w", op, err)
	}

	if doc.HasErrors() && !e.quiet {
		file := source.NewFile(in.path, []byte(doc.Content), 0)
		if err := diagfmt.Short(cmd.ErrOrStderr(), file, doc.Diagnostics, diagfmt.PathModeAuto, ""); err != nil {
			return err
		}
	}

	if req.write {
		if doc.Content == in.content {
			if !e.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s unchanged\n", in.path)
			}
			return nil
		}
		if err := e.timer.Measure("write", func() error { return writeDocument(in, doc.Content) }); err != nil {
			return err
		}
		if !e.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: intent %q %s\n", in.path, req.name, pastTense(op))
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if req.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	_, err = out.Write(in.bytes(doc.Content))
	return err
}

func pastTense(op intentOp) string {
	switch op {
	case opAdd:
		return "added"
	case opRemove:
		return "removed"
	case opReplace:
		return "replaced"
	default:
		return "updated"
	}
}

func errString(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}
