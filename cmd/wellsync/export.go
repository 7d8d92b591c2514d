// ABOUTME: CLI command for exporting wellness data.
// ABOUTME: Supports JSON and YAML export of logs and the insight report.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	exportOutput   string
	exportInsights bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export wellness data",
	Long: `Export your check-ins, workouts, and meals.

FORMATS:

  json   Full JSON export (suitable for backup)
  yaml   YAML export (human-readable)

OPTIONS:

  --output, -o     Write to file instead of stdout
  --insights       Export the current insight report instead of the logs

EXAMPLES:

  wellsync export json                    # Export all logs as JSON
  wellsync export json -o backup.json     # Save to file
  wellsync export yaml --insights         # Insight report as YAML`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		if format != "json" && format != "yaml" {
			return fmt.Errorf("unknown format: %s (use json or yaml)", format)
		}

		var doc interface{}
		if exportInsights {
			report, err := wellsync.svc.Report(cmd.Context(), wellsync.userID, 0)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			doc = report
		} else {
			data, err := wellsync.repo.GetAllData(cmd.Context(), wellsync.userID)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			doc = data
		}

		var buf bytes.Buffer
		if err := writeDocument(&buf, format, doc); err != nil {
			return err
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, buf.Bytes(), 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}

		_, err := os.Stdout.Write(buf.Bytes())
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportInsights, "insights", false, "export the insight report")
	rootCmd.AddCommand(exportCmd)
}
