// ABOUTME: CLI command for running the HTTP API server.
// ABOUTME: Shuts down gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/wellsync/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the wellsync HTTP API.

Every /api route requires an X-User-ID header naming the user.

ROUTES:

  POST   /api/checkins            Submit a check-in, returns readiness
  GET    /api/checkins            Check-ins in ?from=&to= (default window)
  DELETE /api/checkins/{date}
  POST   /api/workouts            GET /api/workouts   DELETE /api/workouts/{id}
  POST   /api/meals               GET /api/meals      DELETE /api/meals/{id}
  GET    /api/readiness/{date}    Readiness for a day ("today" works)
  GET    /api/insights?window=N   Insight report
  GET    /api/trends?metrics=&window=
  GET    /health                  Liveness
  GET    /metrics                 Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = wellsync.cfg.GetHTTPAddr()
		}

		server := api.NewServer(api.Options{
			Addr:     addr,
			Service:  wellsync.svc,
			Reader:   wellsync.repo,
			Logger:   wellsync.logger,
			Metrics:  wellsync.metrics,
			Gatherer: wellsync.registry,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		wellsync.logger.Info().Str("addr", addr).Msg("starting wellsync API")
		return server.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}
