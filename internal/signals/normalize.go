// ABOUTME: Normalizer mapping raw check-in signals onto a common [0,1] scale.
// ABOUTME: Stress is inverted so that 1 always means "better".
package signals

import (
	"errors"
	"fmt"
	"math"

	"github.com/harperreed/wellsync/internal/models"
)

// Metric names a check-in signal.
type Metric string

const (
	SleepHours   Metric = "sleep_hours"
	SleepQuality Metric = "sleep_quality"
	Mood         Metric = "mood"
	Energy       Metric = "energy"
	Stress       Metric = "stress"
)

// Scored lists the signals that feed the readiness score, in tie-break order.
var Scored = []Metric{SleepHours, SleepQuality, Mood, Energy, Stress}

var (
	// ErrOutOfRange is returned for a raw value outside the metric's domain.
	// Boundary validation should make this unreachable.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnknownMetric is returned for a metric with no declared range.
	ErrUnknownMetric = errors.New("unknown metric")
)

// Range is the declared domain of a metric.
type Range struct {
	Min      float64
	Max      float64
	Inverted bool
}

// Ranges holds the fixed domain of every normalizable metric.
var Ranges = map[Metric]Range{
	SleepHours:   {Min: models.MinSleepHours, Max: models.MaxSleepHours},
	SleepQuality: {Min: models.MinScale, Max: models.MaxScale},
	Mood:         {Min: models.MinScale, Max: models.MaxScale},
	Energy:       {Min: models.MinScale, Max: models.MaxScale},
	Stress:       {Min: models.MinScale, Max: models.MaxScale, Inverted: true},
}

// IsValid reports whether s names a normalizable metric.
func IsValid(s string) bool {
	_, ok := Ranges[Metric(s)]
	return ok
}

// Normalize maps raw onto [0,1] using the metric's declared range.
func Normalize(m Metric, raw float64) (float64, error) {
	r, ok := Ranges[m]
	if !ok {
		return 0, fmt.Errorf("normalize %s: %w", m, ErrUnknownMetric)
	}
	if math.IsNaN(raw) || raw < r.Min || raw > r.Max {
		return 0, fmt.Errorf("normalize %s=%v outside [%v,%v]: %w", m, raw, r.Min, r.Max, ErrOutOfRange)
	}
	if r.Inverted {
		return (r.Max - raw) / (r.Max - r.Min), nil
	}
	return (raw - r.Min) / (r.Max - r.Min), nil
}

// Raw returns the raw value of metric m from a check-in.
func Raw(c *models.CheckIn, m Metric) (float64, error) {
	switch m {
	case SleepHours:
		return c.SleepHours, nil
	case SleepQuality:
		return float64(c.SleepQuality), nil
	case Mood:
		return float64(c.Mood), nil
	case Energy:
		return float64(c.Energy), nil
	case Stress:
		return float64(c.Stress), nil
	}
	return 0, fmt.Errorf("raw %s: %w", m, ErrUnknownMetric)
}

// Label is the human-readable name of a metric.
func Label(m Metric) string {
	switch m {
	case SleepHours:
		return "sleep duration"
	case SleepQuality:
		return "sleep quality"
	case Mood:
		return "mood"
	case Energy:
		return "energy"
	case Stress:
		return "stress"
	}
	return string(m)
}
