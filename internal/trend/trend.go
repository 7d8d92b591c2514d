// ABOUTME: Trend aggregator producing per-day metric series over a window.
// ABOUTME: Results are exposed as a restartable iter.Seq over the materialized points.
package trend

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/harperreed/wellsync/internal/signals"
	"github.com/harperreed/wellsync/internal/storage"
)

// DefaultWindowDays is the trend window when none is given.
const DefaultWindowDays = 30

// Readiness is the derived per-day readiness trend metric.
const Readiness = "readiness"

// Selectable lists every metric a trend may request, in output order.
var Selectable = []string{
	string(signals.SleepHours),
	string(signals.SleepQuality),
	string(signals.Mood),
	string(signals.Energy),
	string(signals.Stress),
	Readiness,
}

// IsSelectable reports whether name is a trend metric.
func IsSelectable(name string) bool {
	for _, m := range Selectable {
		if m == name {
			return true
		}
	}
	return false
}

// Window returns the inclusive date range ending today and spanning windowDays days.
func Window(today models.Date, windowDays int) (from, to models.Date) {
	return today.AddDays(-(windowDays - 1)), today
}

// Sequence is a finite, ascending series of trend points.
// Ranging over All more than once yields the same points each time.
type Sequence struct {
	points []models.TrendPoint
}

// NewSequence wraps points, which must already be ascending by date.
func NewSequence(points []models.TrendPoint) Sequence {
	return Sequence{points: points}
}

// All yields each point in date order.
func (s Sequence) All() iter.Seq[models.TrendPoint] {
	return func(yield func(models.TrendPoint) bool) {
		for _, p := range s.points {
			if !yield(p) {
				return
			}
		}
	}
}

// Len is the number of points.
func (s Sequence) Len() int {
	return len(s.points)
}

// Collect returns a copy of the points.
func (s Sequence) Collect() []models.TrendPoint {
	out := make([]models.TrendPoint, 0, len(s.points))
	for p := range s.All() {
		out = append(out, p)
	}
	return out
}

// Aggregator reads check-ins and turns them into trend sequences.
type Aggregator struct {
	store  storage.SignalReader
	scorer *readiness.Scorer
	now    func() time.Time
}

// NewAggregator creates an Aggregator over store. scorer backs the readiness metric.
func NewAggregator(store storage.SignalReader, scorer *readiness.Scorer) *Aggregator {
	return &Aggregator{store: store, scorer: scorer, now: time.Now}
}

// WithClock replaces the clock used to find today.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Today returns the aggregator's current calendar day.
func (a *Aggregator) Today() models.Date {
	return models.DateOf(a.now())
}

// Trends returns one point per logged day in the window ending today.
// Days without a check-in are omitted; an empty window gives an empty sequence.
func (a *Aggregator) Trends(ctx context.Context, userID string, metrics []string, windowDays int) (Sequence, error) {
	if windowDays <= 0 {
		return Sequence{}, &models.ValidationError{Field: "window_days", Value: windowDays, Reason: "must be positive"}
	}
	if err := ValidateMetrics(metrics); err != nil {
		return Sequence{}, err
	}

	from, to := Window(a.Today(), windowDays)
	checkIns, err := a.store.GetCheckIns(ctx, userID, from, to)
	if err != nil {
		return Sequence{}, fmt.Errorf("load check-ins: %w", err)
	}

	points, err := Points(checkIns, metrics, a.scorer)
	if err != nil {
		return Sequence{}, err
	}
	return NewSequence(points), nil
}

// ValidateMetrics rejects empty or unknown metric selections.
func ValidateMetrics(metrics []string) error {
	if len(metrics) == 0 {
		return &models.ValidationError{Field: "metrics", Reason: "at least one metric is required"}
	}
	for _, m := range metrics {
		if !IsSelectable(m) {
			return &models.ValidationError{Field: "metrics", Value: m, Reason: "unknown trend metric"}
		}
	}
	return nil
}

// Points converts ascending check-ins into trend points for metrics.
func Points(checkIns []models.CheckIn, metrics []string, scorer *readiness.Scorer) ([]models.TrendPoint, error) {
	points := make([]models.TrendPoint, 0, len(checkIns))
	for i := range checkIns {
		c := &checkIns[i]
		values := make(map[string]float64, len(metrics))
		for _, m := range metrics {
			v, err := value(c, m, scorer)
			if err != nil {
				return nil, fmt.Errorf("trend %s on %s: %w", m, c.Date, err)
			}
			values[m] = v
		}
		points = append(points, models.TrendPoint{Date: c.Date, Values: values})
	}
	return points, nil
}

func value(c *models.CheckIn, metric string, scorer *readiness.Scorer) (float64, error) {
	if metric == Readiness {
		if scorer == nil {
			return 0, fmt.Errorf("no scorer for readiness trend")
		}
		res, err := scorer.Score(c)
		if err != nil {
			return 0, err
		}
		return res.Score, nil
	}
	return signals.Raw(c, signals.Metric(metric))
}
