package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		Long: `Serve the REST API (HTTP_ADDR) and the gRPC API (GRPC_ADDR) until
interrupted with SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := opts.build(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			log.Info().
				Str("http_addr", a.Config.HTTPAddr).
				Str("grpc_addr", a.Config.GRPCAddr).
				Msg("Starting PaperTrade backend")
			return a.Run(ctx)
		},
	}
}
