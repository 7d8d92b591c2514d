// ABOUTME: Readiness weights and intensity thresholds with documented defaults.
// ABOUTME: Both are configuration surfaces validated before use.
package readiness

import (
	"fmt"
	"math"

	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/signals"
)

// Weights assigns each normalized signal its share of the score.
// Weights must be non-negative and sum to 1.0.
type Weights struct {
	SleepHours   float64 `json:"sleep_hours"`
	SleepQuality float64 `json:"sleep_quality"`
	Mood         float64 `json:"mood"`
	Energy       float64 `json:"energy"`
	Stress       float64 `json:"stress"`
}

// DefaultWeights favours sleep duration and mood. Stress is weighted lower
// because it tracks energy rather than acting independently.
func DefaultWeights() Weights {
	return Weights{
		SleepHours:   0.25,
		SleepQuality: 0.15,
		Mood:         0.25,
		Energy:       0.20,
		Stress:       0.15,
	}
}

// For returns the weight of metric m.
func (w Weights) For(m signals.Metric) float64 {
	switch m {
	case signals.SleepHours:
		return w.SleepHours
	case signals.SleepQuality:
		return w.SleepQuality
	case signals.Mood:
		return w.Mood
	case signals.Energy:
		return w.Energy
	case signals.Stress:
		return w.Stress
	}
	return 0
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var sum float64
	for _, m := range signals.Scored {
		sum += w.For(m)
	}
	return sum
}

const weightTolerance = 1e-9

// Validate checks that weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	for _, m := range signals.Scored {
		if v := w.For(m); v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight for %s must be non-negative, got %v", m, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// Thresholds are the score cut-points between intensity tiers.
type Thresholds struct {
	High     float64 `json:"high"`
	Moderate float64 `json:"moderate"`
}

// DefaultThresholds returns high at 7 and moderate at 4.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 7, Moderate: 4}
}

// Validate checks 0 <= moderate <= high <= 10.
func (t Thresholds) Validate() error {
	if t.Moderate < 0 || t.High > 10 || t.Moderate > t.High {
		return fmt.Errorf("thresholds must satisfy 0 <= moderate (%v) <= high (%v) <= 10", t.Moderate, t.High)
	}
	return nil
}

// Intensity maps a score onto a tier.
func (t Thresholds) Intensity(score float64) models.Intensity {
	switch {
	case score >= t.High:
		return models.IntensityHigh
	case score >= t.Moderate:
		return models.IntensityModerate
	default:
		return models.IntensityLow
	}
}
