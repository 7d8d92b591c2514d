// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/wellsync/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server acts for the configured user (or --user) and communicates via
stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "wellsync": {
        "command": "wellsync",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_checkin     Record a daily check-in and get readiness
  log_workout     Record a workout
  log_meal        Record a meal
  get_readiness   Readiness and recommendation for a day
  get_insights    Trends, correlations, and summaries
  list_checkins   Recent check-ins

AVAILABLE RESOURCES:

  wellsync://insights   Current insight report
  wellsync://recent     Last 7 days of logs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(wellsync.svc, wellsync.repo, wellsync.userID)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		wellsync.logger.Debug().Str("user", wellsync.userID).Msg("starting MCP server on stdio")
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
