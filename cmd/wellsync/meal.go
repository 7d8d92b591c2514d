// ABOUTME: CLI commands for managing meals.
// ABOUTME: Supports add, list, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/spf13/cobra"
)

var (
	mealDate    string
	mealQuality int
	mealNotes   string
	mealLimit   int
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"m"},
	Short:   "Manage meals",
	Long: `Log meals with a 1-5 quality rating.

Meal types: breakfast, lunch, dinner, snack`,
}

var mealAddCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Add a meal",
	Long: `Add a meal.

Examples:
  wellsync meal add breakfast --quality 4
  wellsync meal add dinner --quality 2 --notes "takeout"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(mealDate, wellsync.svc.Today())
		if err != nil {
			return err
		}

		m := models.NewMeal(date, models.MealType(args[0]), mealQuality).ForUser(wellsync.userID)
		if mealNotes != "" {
			m.WithNotes(mealNotes)
		}

		if err := wellsync.svc.Writer.CreateMeal(cmd.Context(), m); err != nil {
			return fmt.Errorf("failed to create meal: %w", err)
		}

		color.Green("✓ Added %s", m.MealType)
		fmt.Printf("  %s %s quality %d\n",
			color.New(color.Faint).Sprint(m.ID.String()[:8]),
			m.Date, m.Quality)

		return nil
	},
}

var mealListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		meals, err := wellsync.repo.ListMeals(cmd.Context(), wellsync.userID, mealLimit)
		if err != nil {
			return fmt.Errorf("failed to list meals: %w", err)
		}

		if len(meals) == 0 {
			fmt.Println("No meals found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, m := range meals {
			notes := ""
			if m.Notes != nil && *m.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*m.Notes, 30))
			}
			fmt.Printf("%s %s %s %d/5%s\n",
				faint.Sprint(m.ID.String()[:8]),
				faint.Sprint(m.Date),
				padRight(string(m.MealType), 10),
				m.Quality,
				notes)
		}

		return nil
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a meal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wellsync.svc.Writer.DeleteMeal(cmd.Context(), wellsync.userID, args[0]); err != nil {
			return fmt.Errorf("failed to delete meal %s: %w", args[0], err)
		}

		color.Yellow("✗ Deleted meal %s", args[0])
		return nil
	},
}

func init() {
	mealAddCmd.Flags().StringVarP(&mealDate, "date", "d", "", "day of the meal (YYYY-MM-DD, today, yesterday)")
	mealAddCmd.Flags().IntVarP(&mealQuality, "quality", "q", 0, "meal quality (1-5)")
	mealAddCmd.Flags().StringVar(&mealNotes, "notes", "", "meal notes")
	_ = mealAddCmd.MarkFlagRequired("quality")

	mealListCmd.Flags().IntVarP(&mealLimit, "limit", "n", 20, "max number of results")

	mealCmd.AddCommand(mealAddCmd)
	mealCmd.AddCommand(mealListCmd)
	mealCmd.AddCommand(mealDeleteCmd)
	rootCmd.AddCommand(mealCmd)
}
