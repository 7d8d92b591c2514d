// ABOUTME: Daily check-in model with sleep, mood, energy, and stress signals.
// ABOUTME: One check-in per user per calendar day; re-submission replaces it.
package models

import (
	"math"
	"time"
)

// Bounds for check-in fields. Values outside are rejected, never rescaled.
const (
	MinSleepHours = 0.0
	MaxSleepHours = 12.0
	MinScale      = 1
	MaxScale      = 5
)

// CheckIn is a user's self-reported state for one calendar day.
type CheckIn struct {
	UserID       string    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Date         Date      `json:"date" yaml:"date"`
	SleepHours   float64   `json:"sleep_hours" yaml:"sleep_hours"`
	SleepQuality int       `json:"sleep_quality" yaml:"sleep_quality"`
	Mood         int       `json:"mood" yaml:"mood"`
	Energy       int       `json:"energy" yaml:"energy"`
	Stress       int       `json:"stress" yaml:"stress"`
	CreatedAt    time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewCheckIn creates a check-in for the given day with current timestamps.
func NewCheckIn(date Date, sleepHours float64, sleepQuality, mood, energy, stress int) *CheckIn {
	now := time.Now()
	return &CheckIn{
		Date:         date,
		SleepHours:   sleepHours,
		SleepQuality: sleepQuality,
		Mood:         mood,
		Energy:       energy,
		Stress:       stress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ForUser sets the owning user.
func (c *CheckIn) ForUser(userID string) *CheckIn {
	c.UserID = userID
	return c
}

// Validate checks every bounded field.
func (c *CheckIn) Validate() error {
	if c.Date.IsZero() {
		return invalid("date", nil, "required")
	}
	if math.IsNaN(c.SleepHours) || c.SleepHours < MinSleepHours || c.SleepHours > MaxSleepHours {
		return invalid("sleep_hours", c.SleepHours, "must be between %.0f and %.0f", MinSleepHours, MaxSleepHours)
	}
	scales := []struct {
		field string
		value int
	}{
		{"sleep_quality", c.SleepQuality},
		{"mood", c.Mood},
		{"energy", c.Energy},
		{"stress", c.Stress},
	}
	for _, s := range scales {
		if s.value < MinScale || s.value > MaxScale {
			return invalid(s.field, s.value, "must be between %d and %d", MinScale, MaxScale)
		}
	}
	return nil
}
