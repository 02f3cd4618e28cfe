package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"luedit/internal/diagfmt"
	"luedit/internal/lufile"
	"luedit/internal/source"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags]",
		Short: "Validate a single intent before it is written to a document",
		Long:  `Check renders one intent on its own, reports its diagnostics and verifies that it reads back as exactly one section`,
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
	cmd.Flags().String("name", "", "intent name")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().String("body", "", "intent body; \\n separates lines")
	cmd.Flags().String("body-file", "", "read the intent body from a file (- for stdin)")
	cmd.Flags().Bool("enable-sections", false, "render with the enableSections directive (default from luedit.toml)")
	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	e := envFrom(cmd)

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	body, err := readBody(cmd)
	if err != nil {
		return err
	}
	enableSections, err := cmd.Flags().GetBool("enable-sections")
	if err != nil {
		return fmt.Errorf("failed to get enable-sections flag: %w", err)
	}
	if !cmd.Flags().Changed("enable-sections") {
		enableSections = e.cfg.Render.EnableSections
	}

	intent := lufile.IntentSection{Name: name, Body: body}
	rendered := lufile.RenderIntent(&intent, 1, enableSections)
	diags := lufile.CheckSection(intent, enableSections)

	out := cmd.OutOrStdout()
	if len(diags) > 0 {
		file := source.NewFile("<intent>", []byte(rendered), source.FileVirtual)
		if err := diagfmt.Pretty(out, file, diags, diagfmt.PrettyOpts{Color: e.color, Context: 1}); err != nil {
			return err
		}
	}
	if !lufile.IsValid(diags) {
		return fmt.Errorf("intent %q is not valid", name)
	}
	if !lufile.CheckIsSingleSection(intent, enableSections) {
		return fmt.Errorf("intent %q does not read back as a single section", name)
	}
	if !e.quiet {
		fmt.Fprintf(out, "intent %q is valid\n", name)
	}
	return nil
}
