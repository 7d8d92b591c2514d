// ABOUTME: Root Cobra command for the wellsync CLI.
// ABOUTME: Loads config and opens the app via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/wellsync/internal/config"
	"github.com/spf13/cobra"
)

var (
	wellsync *app
	userFlag string
)

var rootCmd = &cobra.Command{
	Use:   "wellsync",
	Short: "Daily wellness check-ins, readiness, and insights",
	Long: `Wellsync records daily check-ins, workouts, and meals, scores your
readiness to train, and finds trends and correlations across your logs.

QUICK START:

  $ wellsync checkin add --sleep 7.5 --quality 4 --mood 4 --energy 3 --stress 2
  $ wellsync workout add run --duration 40 --rpe 6
  $ wellsync meal add lunch --quality 4
  $ wellsync readiness                  # Today's score and recommendation
  $ wellsync insights                   # 30 day trends and correlations

READINESS:

  A 0-10 score from sleep hours, sleep quality, mood, energy, and stress.
  7 and above recommends a high intensity day, 4 to 7 moderate, below 4 low.
  If a scoring model is configured it is tried first, falling back to rules.

SERVERS:

  $ wellsync serve      # HTTP API (X-User-ID header selects the user)
  $ wellsync mcp        # MCP server over stdio for AI assistants

CONFIGURATION:

  ~/.config/wellsync/config.json, overridden by WELLSYNC_* environment
  variables. Run 'wellsync config show' to see the effective values.

DATA STORAGE:

  Logs are stored in SQLite at ~/.local/share/wellsync/wellsync.db.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsApp(cmd) {
			return nil
		}
		if wellsync != nil {
			_ = wellsync.Close()
			wellsync = nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		wellsync, err = newApp(cfg, userFlag)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if wellsync != nil {
			err := wellsync.Close()
			wellsync = nil
			return err
		}
		return nil
	},
}

// needsApp reports whether cmd reads or writes wellness data.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "completion", "config", "install-skill":
			return false
		}
	}
	return true
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id (default from config)")
}
