// ABOUTME: Rule-based readiness scorer over one check-in's normalized signals.
// ABOUTME: Deterministic weighted sum scaled to 0-10 with one decimal.
package readiness

import (
	"fmt"
	"math"

	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/signals"
)

// Signal is one normalized input to the score.
type Signal struct {
	Metric     signals.Metric
	Normalized float64
	Weight     float64
}

// Result is a rule-based readiness result plus the signals behind it.
type Result struct {
	models.ReadinessResult
	Signals []Signal
}

// Weakest returns the lowest normalized signal. Ties go to the metric
// listed first in signals.Scored.
func (r Result) Weakest() signals.Metric {
	if len(r.Signals) == 0 {
		return ""
	}
	weakest := r.Signals[0]
	for _, s := range r.Signals[1:] {
		if s.Normalized < weakest.Normalized {
			weakest = s
		}
	}
	return weakest.Metric
}

// Scorer computes readiness from a check-in.
type Scorer struct {
	weights Weights
}

// NewScorer validates w and returns a Scorer using it.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w}, nil
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the rule-based result for c. Intensity and text are left
// for the Recommender.
func (s *Scorer) Score(c *models.CheckIn) (Result, error) {
	res := Result{
		ReadinessResult: models.ReadinessResult{Date: c.Date, Source: models.SourceRule},
		Signals:         make([]Signal, 0, len(signals.Scored)),
	}

	var sum float64
	for _, m := range signals.Scored {
		raw, err := signals.Raw(c, m)
		if err != nil {
			return Result{}, err
		}
		norm, err := signals.Normalize(m, raw)
		if err != nil {
			return Result{}, fmt.Errorf("score check-in %s: %w", c.Date, err)
		}
		w := s.weights.For(m)
		sum += w * norm
		res.Signals = append(res.Signals, Signal{Metric: m, Normalized: norm, Weight: w})
	}

	res.Score = roundTenth(10 * sum)
	return res, nil
}

func roundTenth(v float64) float64 {
	v = math.Round(v*10) / 10
	return math.Min(math.Max(v, 0), 10)
}
