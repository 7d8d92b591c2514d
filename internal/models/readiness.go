// ABOUTME: Derived readiness result returned after a check-in is scored.
// ABOUTME: Defines the intensity tiers and the rule/model source tag.
package models

// Intensity is the recommended workout exertion tier.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// IsValidIntensity checks if a string is a known intensity tier.
func IsValidIntensity(s string) bool {
	switch Intensity(s) {
	case IntensityLow, IntensityModerate, IntensityHigh:
		return true
	}
	return false
}

// Source records which path produced a readiness result.
type Source string

const (
	SourceRule  Source = "rule"
	SourceModel Source = "model"
)

// ReadinessResult is the scored outcome for one check-in day.
// It is recomputed on demand and never stored.
type ReadinessResult struct {
	Date           Date      `json:"date" yaml:"date"`
	Score          float64   `json:"score" yaml:"score"`
	Intensity      Intensity `json:"intensity" yaml:"intensity"`
	Recommendation string    `json:"recommendation" yaml:"recommendation"`
	Source         Source    `json:"source" yaml:"source"`
}
