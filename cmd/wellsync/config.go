// ABOUTME: CLI commands for viewing and initializing configuration.
// ABOUTME: Shows effective values after environment overrides.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/wellsync/internal/config"
	"github.com/harperreed/wellsync/internal/correlation"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/harperreed/wellsync/internal/trend"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or create configuration",
	Long: `Configuration lives at ~/.config/wellsync/config.json
($XDG_CONFIG_HOME is honoured). Every field can be overridden with a
WELLSYNC_* environment variable, e.g. WELLSYNC_CACHE_BACKEND=redis.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		faint := color.New(color.Faint)
		w := cfg.GetWeights()
		th := cfg.GetThresholds()

		fmt.Printf("%s %s\n", faint.Sprint("config file:"), config.GetConfigPath())
		fmt.Printf("%s %s\n", faint.Sprint("data dir:   "), cfg.GetDataDir())
		fmt.Printf("%s %s\n", faint.Sprint("user:       "), cfg.GetUserID())
		fmt.Printf("%s %d days\n", faint.Sprint("window:     "), cfg.GetWindowDays())
		fmt.Printf("%s %d\n", faint.Sprint("min samples:"), cfg.GetMinSamples())
		fmt.Printf("%s sleep_hours=%.2f sleep_quality=%.2f mood=%.2f energy=%.2f stress=%.2f\n",
			faint.Sprint("weights:    "), w.SleepHours, w.SleepQuality, w.Mood, w.Energy, w.Stress)
		fmt.Printf("%s high>=%.1f moderate>=%.1f\n", faint.Sprint("thresholds: "), th.High, th.Moderate)
		fmt.Printf("%s %s (ttl %s)\n", faint.Sprint("cache:      "), cfg.GetCacheBackend(), cfg.GetCacheTTL())
		fmt.Printf("%s %s\n", faint.Sprint("model:      "), cfg.GetModelBackend())
		fmt.Printf("%s %s\n", faint.Sprint("http addr:  "), cfg.GetHTTPAddr())
		fmt.Printf("%s %s/%s\n", faint.Sprint("logging:    "), cfg.GetLogLevel(), cfg.GetLogFormat())

		if err := cfg.Validate(); err != nil {
			color.Red("✗ %v", err)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GetConfigPath()
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		weights := readiness.DefaultWeights()
		thresholds := readiness.DefaultThresholds()
		cfg := &config.Config{
			UserID:     config.DefaultUserID,
			WindowDays: trend.DefaultWindowDays,
			MinSamples: correlation.DefaultMinSamples,
			Weights:    &weights,
			Thresholds: &thresholds,
			Cache:      config.CacheConfig{Backend: "memory"},
			Model:      config.ModelConfig{Backend: "none"},
			HTTP:       config.HTTPConfig{Addr: config.DefaultHTTPAddr},
			LogLevel:   config.DefaultLogLevel,
			LogFormat:  config.DefaultLogFormat,
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		color.Green("✓ Wrote %s", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
