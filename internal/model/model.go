// ABOUTME: Contract for external readiness scoring models.
// ABOUTME: A failing model is always recoverable by the rule-based scorer.
package model

import (
	"context"
	"errors"
	"math"

	"github.com/harperreed/wellsync/internal/models"
)

// ErrModelUnavailable marks any failure to obtain a usable prediction.
var ErrModelUnavailable = errors.New("scoring model unavailable")

// Prediction is a model's view of today's readiness.
// Intensity and Text may be empty; callers derive them from Score.
type Prediction struct {
	Score     float64          `json:"score"`
	Intensity models.Intensity `json:"intensity,omitempty"`
	Text      string           `json:"text,omitempty"`
}

// Predictor scores readiness from a user's check-in history.
// history is ordered by date ascending; the last entry is the day to score.
type Predictor interface {
	Predict(ctx context.Context, history []models.CheckIn) (Prediction, error)
}

// Validate rejects predictions that cannot be shown to a user.
func (p Prediction) Validate() error {
	if math.IsNaN(p.Score) || p.Score < 0 || p.Score > 10 {
		return errors.New("prediction score outside [0,10]")
	}
	if p.Intensity != "" && !models.IsValidIntensity(string(p.Intensity)) {
		return errors.New("prediction has unknown intensity " + string(p.Intensity))
	}
	return nil
}
