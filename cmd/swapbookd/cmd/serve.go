package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paw-chain/swapbook/api"
)

// ServeCmd serves the query API, health checks and metrics over HTTP
func ServeCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve order book queries over HTTP",
		Long: `Serve a genesis snapshot over HTTP.

Routes:
  GET  /api/v1/query/:kind   query params or ?body=<json>
  POST /api/v1/query/:kind   JSON body
  GET  /api/v1/kinds
  GET  /api/v1/status
  GET  /health, /health/live, /health/ready
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := st.loadSnapshot()
			if err != nil {
				return err
			}
			srv, err := api.NewServer(snap, st.cfg.Snapshot, st.cfg.API, st.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().String(FlagSnapshot, "", "path to an exported genesis file (overrides the snapshot config value)")
	cmd.Flags().String(FlagHost, "", "listen host (overrides api.host)")
	cmd.Flags().String(FlagPort, "", "listen port (overrides api.port)")
	return cmd
}
