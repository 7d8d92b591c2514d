// ABOUTME: CLI commands for daily check-ins.
// ABOUTME: Adding a check-in scores readiness immediately.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/spf13/cobra"
)

var (
	checkInDate    string
	checkInSleep   float64
	checkInQuality int
	checkInMood    int
	checkInEnergy  int
	checkInStress  int
	checkInLimit   int
)

var checkInCmd = &cobra.Command{
	Use:     "checkin",
	Aliases: []string{"c", "ci"},
	Short:   "Manage daily check-ins",
	Long: `Record how you slept and feel each day.

A check-in holds five signals:

  --sleep     hours slept (0-12)
  --quality   sleep quality (1-5)
  --mood      mood (1-5)
  --energy    energy (1-5)
  --stress    stress (1-5, higher is worse)

One check-in per day: adding another for the same date replaces it.`,
}

var checkInAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace a check-in",
	Long: `Add a check-in and print the readiness score for that day.

Examples:
  wellsync checkin add --sleep 8 --quality 4 --mood 4 --energy 4 --stress 2
  wellsync checkin add --date yesterday --sleep 6 --quality 2 --mood 3 --energy 2 --stress 4`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range []string{"sleep", "quality", "mood", "energy", "stress"} {
			if !cmd.Flags().Changed(name) {
				return fmt.Errorf("--%s is required", name)
			}
		}

		date, err := parseDate(checkInDate, wellsync.svc.Today())
		if err != nil {
			return err
		}

		c := models.NewCheckIn(date, checkInSleep, checkInQuality, checkInMood, checkInEnergy, checkInStress).
			ForUser(wellsync.userID)
		res, err := wellsync.svc.SubmitCheckIn(cmd.Context(), c)
		if err != nil {
			return fmt.Errorf("failed to save check-in: %w", err)
		}

		color.Green("✓ Checked in for %s", date)
		printReadiness(res)
		return nil
	},
}

var checkInListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent check-ins",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkIns, err := wellsync.repo.ListCheckIns(cmd.Context(), wellsync.userID, checkInLimit)
		if err != nil {
			return fmt.Errorf("failed to list check-ins: %w", err)
		}

		if len(checkIns) == 0 {
			fmt.Println("No check-ins found.")
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Println(faint.Sprint("DATE        SLEEP  QUAL MOOD ENRG STRS"))
		for _, c := range checkIns {
			fmt.Printf("%s  %4.1fh  %4d %4d %4d %4d\n",
				c.Date, c.SleepHours, c.SleepQuality, c.Mood, c.Energy, c.Stress)
		}

		return nil
	},
}

var checkInDeleteCmd = &cobra.Command{
	Use:     "delete <date>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete the check-in for a date",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(args[0], wellsync.svc.Today())
		if err != nil {
			return err
		}

		if err := wellsync.svc.Writer.DeleteCheckIn(cmd.Context(), wellsync.userID, date); err != nil {
			return fmt.Errorf("failed to delete check-in for %s: %w", date, err)
		}

		color.Yellow("✗ Deleted check-in for %s", date)
		return nil
	},
}

func init() {
	checkInAddCmd.Flags().StringVarP(&checkInDate, "date", "d", "", "day of the check-in (YYYY-MM-DD, today, yesterday)")
	checkInAddCmd.Flags().Float64Var(&checkInSleep, "sleep", 0, "hours slept (0-12)")
	checkInAddCmd.Flags().IntVar(&checkInQuality, "quality", 0, "sleep quality (1-5)")
	checkInAddCmd.Flags().IntVar(&checkInMood, "mood", 0, "mood (1-5)")
	checkInAddCmd.Flags().IntVar(&checkInEnergy, "energy", 0, "energy (1-5)")
	checkInAddCmd.Flags().IntVar(&checkInStress, "stress", 0, "stress (1-5)")

	checkInListCmd.Flags().IntVarP(&checkInLimit, "limit", "n", 14, "max number of results")

	checkInCmd.AddCommand(checkInAddCmd)
	checkInCmd.AddCommand(checkInListCmd)
	checkInCmd.AddCommand(checkInDeleteCmd)
	rootCmd.AddCommand(checkInCmd)
}
