// ABOUTME: Date and formatting helpers shared by CLI commands.
// ABOUTME: Accepts YYYY-MM-DD, "today", and "yesterday".
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/wellsync/internal/models"
)

// parseDate resolves a CLI date argument relative to today.
func parseDate(s string, today models.Date) (models.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", s)
	}
	return d, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// bar renders a 0-10 score as a ten cell gauge.
func bar(score float64) string {
	filled := int(score + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
