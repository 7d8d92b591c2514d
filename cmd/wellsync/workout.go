// ABOUTME: CLI commands for managing workouts.
// ABOUTME: Supports add, list, and delete subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/spf13/cobra"
)

var (
	workoutDate     string
	workoutDuration int
	workoutRPE      int
	workoutNotes    string
	workoutLimit    int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Track workout sessions with duration and perceived exertion.

COMMANDS:

  add      Log a workout
  list     List recent workouts
  delete   Delete a workout by ID prefix

Workout types: ` + strings.Join(workoutTypeNames(), ", ") + `

RPE (rate of perceived exertion) runs from 1 (very easy) to 10 (max effort).`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Add a new workout",
	Long: `Add a new workout session.

Examples:
  wellsync workout add run --duration 45 --rpe 7
  wellsync workout add strength --duration 60 --rpe 8 --notes "Leg day"
  wellsync workout add yoga --duration 30 --rpe 3 --date yesterday`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(workoutDate, wellsync.svc.Today())
		if err != nil {
			return err
		}

		w := models.NewWorkout(date, models.WorkoutType(args[0]), workoutDuration, workoutRPE).
			ForUser(wellsync.userID)
		if workoutNotes != "" {
			w.WithNotes(workoutNotes)
		}

		if err := wellsync.svc.Writer.CreateWorkout(cmd.Context(), w); err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		color.Green("✓ Added %s workout", w.Type)
		fmt.Printf("  ID: %s\n", w.ID.String()[:8])
		fmt.Printf("  %s  %d min  RPE %d\n", w.Date, w.DurationMin, w.RPE)

		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := wellsync.repo.ListWorkouts(cmd.Context(), wellsync.userID, workoutLimit)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			notes := ""
			if w.Notes != nil && *w.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*w.Notes, 30))
			}
			fmt.Printf("%s %s %s %3d min  RPE %2d%s\n",
				faint.Sprint(w.ID.String()[:8]),
				faint.Sprint(w.Date),
				padRight(string(w.Type), 10),
				w.DurationMin,
				w.RPE,
				notes)
		}

		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a workout",
	Long: `Delete a workout by its ID or a unique ID prefix.

The ID prefix is shown in the first column of 'wellsync workout list'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wellsync.svc.Writer.DeleteWorkout(cmd.Context(), wellsync.userID, args[0]); err != nil {
			return fmt.Errorf("failed to delete workout %s: %w", args[0], err)
		}

		color.Yellow("✗ Deleted workout %s", args[0])
		return nil
	},
}

func workoutTypeNames() []string {
	names := make([]string, 0, len(models.AllWorkoutTypes))
	for _, t := range models.AllWorkoutTypes {
		names = append(names, string(t))
	}
	return names
}

func init() {
	workoutAddCmd.Flags().StringVarP(&workoutDate, "date", "d", "", "day of the workout (YYYY-MM-DD, today, yesterday)")
	workoutAddCmd.Flags().IntVar(&workoutDuration, "duration", 0, "duration in minutes")
	workoutAddCmd.Flags().IntVar(&workoutRPE, "rpe", 0, "perceived exertion (1-10)")
	workoutAddCmd.Flags().StringVar(&workoutNotes, "notes", "", "workout notes")
	_ = workoutAddCmd.MarkFlagRequired("duration")
	_ = workoutAddCmd.MarkFlagRequired("rpe")

	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
