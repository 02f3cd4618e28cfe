package main

import (
	"github.com/spf13/cobra"

	"luedit/internal/gateway"
	"luedit/internal/logging"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Serve msgpack parse requests on stdin/stdout",
		Long:  `worker answers parse requests of the gateway wire protocol until stdin is closed; luedit parse --worker drives it`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envFrom(cmd)
			h := gateway.ParseHandler(e.parseOptions())
			return gateway.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), h, logging.Named(e.log, "worker"))
		},
	}
}
