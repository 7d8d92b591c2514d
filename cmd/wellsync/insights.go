// ABOUTME: CLI commands for insight reports and metric trends.
// ABOUTME: Renders text tables or JSON/YAML documents.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/trend"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	insightsWindow int
	insightsFormat string
	trendsWindow   int
	trendsMetrics  []string
)

var insightsCmd = &cobra.Command{
	Use:     "insights",
	Aliases: []string{"i", "report"},
	Short:   "Show trends, correlations, and summaries",
	Long: `Build an insight report over the last N days (default from config, 30).

The report contains:

  trends        daily sleep, mood, energy, stress, and readiness values
  correlations  Pearson r between signal pairs with at least 5 shared days
  summaries     workout sessions, minutes, and average RPE; meal quality

Examples:
  wellsync insights
  wellsync insights --window 14
  wellsync insights --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := wellsync.svc.Report(cmd.Context(), wellsync.userID, insightsWindow)
		if err != nil {
			return fmt.Errorf("failed to build insights: %w", err)
		}

		switch insightsFormat {
		case "text":
			printReport(os.Stdout, report)
			return nil
		case "json", "yaml":
			return writeDocument(os.Stdout, insightsFormat, report)
		default:
			return fmt.Errorf("unknown format: %s (use text, json, or yaml)", insightsFormat)
		}
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show daily values for selected metrics",
	Long: `Show one row per logged day for the selected metrics.

Metrics: ` + strings.Join(trend.Selectable, ", ") + `

Examples:
  wellsync trends
  wellsync trends --metrics sleep_hours,readiness --window 14`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := wellsync.svc.Trends(cmd.Context(), wellsync.userID, trendsMetrics, trendsWindow)
		if err != nil {
			return fmt.Errorf("failed to load trends: %w", err)
		}

		if seq.Len() == 0 {
			fmt.Println("No check-ins in this window.")
			return nil
		}

		metrics := trendsMetrics
		if len(metrics) == 0 {
			metrics = trend.Selectable
		}
		printTrendTable(os.Stdout, metrics, seq.Collect())
		return nil
	},
}

func writeDocument(w io.Writer, format string, v interface{}) error {
	var data []byte
	var err error
	switch format {
	case "json":
		data, err = json.MarshalIndent(v, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown format: %s (use json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(string(data), "\n"))
	return err
}

func printReport(w io.Writer, r *models.InsightReport) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintf(w, "%s %s\n", bold.Sprintf("Last %d days", r.WindowDays),
		faint.Sprintf("(%d logged)", r.DaysLogged))

	fmt.Fprintln(w)
	bold.Fprintln(w, "Workouts")
	fmt.Fprintf(w, "  %d sessions, %d min", r.WorkoutSummary.TotalSessions, r.WorkoutSummary.TotalMinutes)
	if r.WorkoutSummary.AvgRPE != nil {
		fmt.Fprintf(w, ", avg RPE %.1f", *r.WorkoutSummary.AvgRPE)
	}
	fmt.Fprintln(w)

	bold.Fprintln(w, "Meals")
	fmt.Fprintf(w, "  %d meals", r.MealSummary.TotalMeals)
	if r.MealSummary.AvgQuality != nil {
		fmt.Fprintf(w, ", avg quality %.1f", *r.MealSummary.AvgQuality)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w)
	bold.Fprintln(w, "Correlations")
	if len(r.Correlations) == 0 {
		fmt.Fprintln(w, faint.Sprint("  Not enough overlapping days yet."))
	} else {
		keys := make([]string, 0, len(r.Correlations))
		for k := range r.Correlations {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s %+.2f  %s\n", padRight(k, 36), r.Correlations[k], strength(r.Correlations[k]))
		}
	}

	if len(r.Trends) > 0 {
		fmt.Fprintln(w)
		bold.Fprintln(w, "Trends")
		printTrendTable(w, trend.Selectable, r.Trends)
	}
}

// strength labels |r| the usual way: weak, moderate, strong.
func strength(r float64) string {
	if r < 0 {
		r = -r
	}
	switch {
	case r >= 0.7:
		return "strong"
	case r >= 0.4:
		return "moderate"
	default:
		return "weak"
	}
}

func printTrendTable(w io.Writer, metrics []string, points []models.TrendPoint) {
	faint := color.New(color.Faint)

	header := padRight("date", 12)
	for _, m := range metrics {
		header += padRight(m, 15)
	}
	fmt.Fprintln(w, faint.Sprint(strings.TrimRight(header, " ")))

	for _, p := range points {
		row := padRight(p.Date.String(), 12)
		for _, m := range metrics {
			v, ok := p.Values[m]
			if !ok {
				row += padRight("-", 15)
				continue
			}
			row += padRight(fmt.Sprintf("%.1f", v), 15)
		}
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

func init() {
	insightsCmd.Flags().IntVarP(&insightsWindow, "window", "w", 0, "window in days (default from config)")
	insightsCmd.Flags().StringVarP(&insightsFormat, "format", "f", "text", "output format: text, json, yaml")

	trendsCmd.Flags().IntVarP(&trendsWindow, "window", "w", 0, "window in days (default from config)")
	trendsCmd.Flags().StringSliceVarP(&trendsMetrics, "metrics", "m", nil, "comma separated metrics (default all)")

	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(trendsCmd)
}
