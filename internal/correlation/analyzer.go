// ABOUTME: Correlation analyzer over a configured list of metric pairs.
// ABOUTME: Only computable pairs appear in the result map.
package correlation

import (
	"fmt"

	"github.com/harperreed/wellsync/internal/models"
)

// Pair names two series to correlate.
type Pair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// Key is the report key for the pair, in configured order.
func (p Pair) Key() string {
	return p.A + "↔" + p.B
}

// DefaultPairs are the correlations reported when none are configured.
func DefaultPairs() []Pair {
	return []Pair{
		{A: "sleep_hours", B: "mood"},
		{A: "sleep_hours", B: "energy"},
		{A: "stress", B: "energy"},
		{A: "mood", B: "energy"},
		{A: WorkoutRPE, B: NextDayReadiness},
	}
}

// ValidatePairs rejects unknown series, self-pairs, and duplicate unordered pairs.
func ValidatePairs(pairs []Pair) error {
	seen := make(map[[2]string]bool, len(pairs))
	for _, p := range pairs {
		if !IsSeriesName(p.A) {
			return &models.ValidationError{Field: "pairs", Value: p.A, Reason: "unknown series"}
		}
		if !IsSeriesName(p.B) {
			return &models.ValidationError{Field: "pairs", Value: p.B, Reason: "unknown series"}
		}
		if p.A == p.B {
			return &models.ValidationError{Field: "pairs", Value: p.Key(), Reason: "a series cannot be paired with itself"}
		}
		k := [2]string{p.A, p.B}
		if k[0] > k[1] {
			k[0], k[1] = k[1], k[0]
		}
		if seen[k] {
			return &models.ValidationError{Field: "pairs", Value: p.Key(), Reason: "duplicate pair"}
		}
		seen[k] = true
	}
	return nil
}

// Analyzer computes the configured pair correlations.
type Analyzer struct {
	pairs      []Pair
	minSamples int
}

// NewAnalyzer validates pairs and returns an Analyzer. A minSamples below 2
// is raised to 2, the fewest points with a defined correlation.
func NewAnalyzer(pairs []Pair, minSamples int) (*Analyzer, error) {
	if err := ValidatePairs(pairs); err != nil {
		return nil, fmt.Errorf("correlation pairs: %w", err)
	}
	if minSamples < 2 {
		minSamples = 2
	}
	return &Analyzer{pairs: pairs, minSamples: minSamples}, nil
}

// Pairs returns the configured pairs.
func (a *Analyzer) Pairs() []Pair {
	return a.pairs
}

// Analyze returns key → coefficient for every computable pair.
func (a *Analyzer) Analyze(series map[string]Series) map[string]float64 {
	out := make(map[string]float64, len(a.pairs))
	for _, p := range a.pairs {
		if r, ok := Pearson(series[p.A], series[p.B], a.minSamples); ok {
			out[p.Key()] = r
		}
	}
	return out
}
