// ABOUTME: Local per-user ridge regression predicting next-day energy.
// ABOUTME: Used as the scoring model once a user has enough history.
package model

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/harperreed/wellsync/internal/models"
)

// Personalizer defaults.
const (
	DefaultMinHistory = 14
	DefaultMinPairs   = 7
	DefaultAlpha      = 1.0
)

// ErrInsufficientHistory means the user has too few check-ins to train on.
var ErrInsufficientHistory = errors.New("insufficient check-in history")

const numFeatures = 5

// Personalizer fits a ridge regression on a user's own history.
// Features are [sleep_hours, sleep_quality, mood, energy, stress] of one day;
// the target is the energy reported on the following calendar day.
type Personalizer struct {
	MinHistory int
	MinPairs   int
	Alpha      float64
}

var _ Predictor = (*Personalizer)(nil)

// NewPersonalizer returns a Personalizer with default thresholds.
func NewPersonalizer() *Personalizer {
	return &Personalizer{
		MinHistory: DefaultMinHistory,
		MinPairs:   DefaultMinPairs,
		Alpha:      DefaultAlpha,
	}
}

// Predict trains on history and scores its last check-in.
func (p *Personalizer) Predict(ctx context.Context, history []models.CheckIn) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(history) < p.MinHistory {
		return Prediction{}, fmt.Errorf("%w: %d check-ins, need %d: %w",
			ErrModelUnavailable, len(history), p.MinHistory, ErrInsufficientHistory)
	}

	fit, err := p.Fit(history)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	energy := fit.Predict(features(&history[len(history)-1]))
	norm := (energy - models.MinScale) / (models.MaxScale - models.MinScale)
	norm = math.Min(math.Max(norm, 0), 1)

	return Prediction{Score: math.Round(norm*100) / 10}, nil
}

// Ridge is a fitted linear model over standardized features.
type Ridge struct {
	mean      [numFeatures]float64
	scale     [numFeatures]float64
	coef      [numFeatures]float64
	intercept float64
}

// Predict returns the model output for one feature vector.
func (r *Ridge) Predict(x [numFeatures]float64) float64 {
	y := r.intercept
	for j := 0; j < numFeatures; j++ {
		y += r.coef[j] * (x[j] - r.mean[j]) / r.scale[j]
	}
	return y
}

// Fit builds training pairs from consecutive days and solves the ridge system.
func (p *Personalizer) Fit(history []models.CheckIn) (*Ridge, error) {
	var xs [][numFeatures]float64
	var ys []float64
	for i := 0; i+1 < len(history); i++ {
		if history[i].Date.AddDays(1) != history[i+1].Date {
			continue
		}
		xs = append(xs, features(&history[i]))
		ys = append(ys, float64(history[i+1].Energy))
	}
	if len(xs) < p.MinPairs {
		return nil, fmt.Errorf("%d consecutive-day pairs, need %d: %w", len(xs), p.MinPairs, ErrInsufficientHistory)
	}

	n := float64(len(xs))
	r := &Ridge{}
	for j := 0; j < numFeatures; j++ {
		var sum float64
		for _, x := range xs {
			sum += x[j]
		}
		r.mean[j] = sum / n
		var ss float64
		for _, x := range xs {
			d := x[j] - r.mean[j]
			ss += d * d
		}
		r.scale[j] = math.Sqrt(ss / n)
		if r.scale[j] == 0 {
			r.scale[j] = 1
		}
	}
	var ySum float64
	for _, y := range ys {
		ySum += y
	}
	r.intercept = ySum / n

	// Normal equations on standardized features: (ZᵀZ + αI)β = Zᵀ(y - ȳ).
	var a [numFeatures][numFeatures + 1]float64
	for i, x := range xs {
		var z [numFeatures]float64
		for j := range z {
			z[j] = (x[j] - r.mean[j]) / r.scale[j]
		}
		yc := ys[i] - r.intercept
		for j := 0; j < numFeatures; j++ {
			for k := 0; k < numFeatures; k++ {
				a[j][k] += z[j] * z[k]
			}
			a[j][numFeatures] += z[j] * yc
		}
	}
	for j := 0; j < numFeatures; j++ {
		a[j][j] += p.Alpha
	}

	coef, err := solve(a)
	if err != nil {
		return nil, err
	}
	r.coef = coef
	return r, nil
}

func features(c *models.CheckIn) [numFeatures]float64 {
	return [numFeatures]float64{
		c.SleepHours,
		float64(c.SleepQuality),
		float64(c.Mood),
		float64(c.Energy),
		float64(c.Stress),
	}
}

// solve runs Gaussian elimination with partial pivoting on an augmented matrix.
func solve(a [numFeatures][numFeatures + 1]float64) ([numFeatures]float64, error) {
	var x [numFeatures]float64
	for col := 0; col < numFeatures; col++ {
		pivot := col
		for row := col + 1; row < numFeatures; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return x, errors.New("singular ridge system")
		}
		a[col], a[pivot] = a[pivot], a[col]
		for row := col + 1; row < numFeatures; row++ {
			f := a[row][col] / a[col][col]
			for k := col; k <= numFeatures; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}
	for row := numFeatures - 1; row >= 0; row-- {
		sum := a[row][numFeatures]
		for k := row + 1; k < numFeatures; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, nil
}
