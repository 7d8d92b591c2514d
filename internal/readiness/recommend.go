// ABOUTME: Recommendation generator turning a readiness score into advice.
// ABOUTME: Tries the scoring model first and falls back to the rule result.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/wellsync/internal/model"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/signals"
	"github.com/harperreed/wellsync/internal/telemetry"
	"github.com/rs/zerolog"
)

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 2 * time.Second

var templates = map[models.Intensity]string{
	models.IntensityHigh:     "High readiness — %s was your weakest signal, but you are ready for a demanding session today.",
	models.IntensityModerate: "Moderate readiness — %s was your weakest signal; keep today's session steady and controlled.",
	models.IntensityLow:      "Low readiness — %s was your weakest signal; consider a lighter session today.",
}

// Text renders the rule-based recommendation for a tier and weakest signal.
func Text(intensity models.Intensity, weakest signals.Metric) string {
	tmpl, ok := templates[intensity]
	if !ok {
		tmpl = templates[models.IntensityModerate]
	}
	return fmt.Sprintf(tmpl, signals.Label(weakest))
}

// Recommender attaches intensity and text to a scored result.
type Recommender struct {
	thresholds Thresholds
	model      model.Predictor
	timeout    time.Duration
	logger     zerolog.Logger
	metrics    *telemetry.Metrics
}

// RecommenderOption customizes a Recommender.
type RecommenderOption func(*Recommender)

// WithModel sets the scoring model consulted before the rules.
func WithModel(p model.Predictor, timeout time.Duration) RecommenderOption {
	return func(r *Recommender) {
		r.model = p
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithLogger sets the logger used to report model fallbacks.
func WithLogger(l zerolog.Logger) RecommenderOption {
	return func(r *Recommender) { r.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.Metrics) RecommenderOption {
	return func(r *Recommender) { r.metrics = m }
}

// NewRecommender validates t and builds a Recommender.
func NewRecommender(t Thresholds, opts ...RecommenderOption) (*Recommender, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	r := &Recommender{
		thresholds: t,
		timeout:    DefaultModelTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Thresholds returns the recommender's intensity cut-points.
func (r *Recommender) Thresholds() Thresholds {
	return r.thresholds
}

// Recommend returns the final readiness result for res. When a model is
// configured its prediction wins; any model failure yields the rule result.
// Too little history is a skip, not a failure, and is not counted as one.
// history is the user's check-ins up to and including res.Date, ascending.
func (r *Recommender) Recommend(ctx context.Context, res Result, history []models.CheckIn) models.ReadinessResult {
	if r.model != nil {
		out, err := r.fromModel(ctx, res, history)
		if err == nil {
			r.metrics.Readiness(string(models.SourceModel))
			return out
		}
		if errors.Is(err, model.ErrInsufficientHistory) {
			r.logger.Debug().Err(err).Str("date", res.Date.String()).Msg("model skipped")
		} else {
			r.metrics.ModelFailure()
			r.logger.Warn().Err(err).Str("date", res.Date.String()).Msg("scoring model failed, using rules")
		}
	}

	r.metrics.Readiness(string(models.SourceRule))
	return r.fromRules(res)
}

func (r *Recommender) fromRules(res Result) models.ReadinessResult {
	out := res.ReadinessResult
	out.Intensity = r.thresholds.Intensity(out.Score)
	out.Recommendation = Text(out.Intensity, res.Weakest())
	out.Source = models.SourceRule
	return out
}

func (r *Recommender) fromModel(ctx context.Context, res Result, history []models.CheckIn) (models.ReadinessResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pred, err := r.predict(ctx, history)
	if err != nil {
		return models.ReadinessResult{}, err
	}
	if err := pred.Validate(); err != nil {
		return models.ReadinessResult{}, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}

	out := models.ReadinessResult{
		Date:      res.Date,
		Score:     roundTenth(pred.Score),
		Intensity: pred.Intensity,
		Source:    models.SourceModel,
	}
	if out.Intensity == "" {
		out.Intensity = r.thresholds.Intensity(out.Score)
	}
	out.Recommendation = pred.Text
	if out.Recommendation == "" {
		out.Recommendation = Text(out.Intensity, res.Weakest())
	}
	return out, nil
}

// predict bounds the model call by ctx and converts panics into errors.
func (r *Recommender) predict(ctx context.Context, history []models.CheckIn) (model.Prediction, error) {
	type outcome struct {
		pred model.Prediction
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%w: panic: %v", model.ErrModelUnavailable, p)}
			}
		}()
		pred, err := r.model.Predict(ctx, history)
		done <- outcome{pred: pred, err: err}
	}()

	select {
	case o := <-done:
		return o.pred, o.err
	case <-ctx.Done():
		return model.Prediction{}, fmt.Errorf("%w: %v", model.ErrModelUnavailable, ctx.Err())
	}
}
