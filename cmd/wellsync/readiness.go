// ABOUTME: CLI command for showing a day's readiness score.
// ABOUTME: Prints the score gauge, intensity tier, and recommendation.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/spf13/cobra"
)

var readinessCmd = &cobra.Command{
	Use:     "readiness [date]",
	Aliases: []string{"r", "ready"},
	Short:   "Show readiness for a day",
	Long: `Show the readiness score and workout recommendation for a day that has
a check-in. Defaults to today.

Examples:
  wellsync readiness
  wellsync readiness yesterday
  wellsync readiness 2025-06-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		date, err := parseDate(arg, wellsync.svc.Today())
		if err != nil {
			return err
		}

		res, err := wellsync.svc.Readiness(cmd.Context(), wellsync.userID, date)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no check-in for %s (run 'wellsync checkin add')", date)
		}
		if err != nil {
			return fmt.Errorf("failed to score readiness: %w", err)
		}

		printReadiness(res)
		return nil
	},
}

func intensityColor(i models.Intensity) *color.Color {
	switch i {
	case models.IntensityHigh:
		return color.New(color.FgGreen, color.Bold)
	case models.IntensityLow:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

func printReadiness(res models.ReadinessResult) {
	c := intensityColor(res.Intensity)
	faint := color.New(color.Faint)

	fmt.Printf("  Readiness %s %s  %s\n",
		c.Sprint(bar(res.Score)),
		c.Sprintf("%.1f", res.Score),
		c.Sprint(res.Intensity))
	fmt.Printf("  %s\n", res.Recommendation)
	fmt.Printf("  %s\n", faint.Sprintf("source: %s", res.Source))
}

func init() {
	rootCmd.AddCommand(readinessCmd)
}
