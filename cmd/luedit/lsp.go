package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"luedit/internal/logging"
	"luedit/internal/lsp"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the LU language server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
}

func runLSP(cmd *cobra.Command, _ []string) error {
	e := envFrom(cmd)
	gw := e.newGateway()
	defer func() { _ = gw.Close() }()

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce:       time.Duration(e.cfg.LSP.DebounceMS) * time.Millisecond,
		MaxDiagnostics: e.maxDiags,
		Gateway:        gw,
		Logger:         logging.Named(e.log, "lsp"),
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
