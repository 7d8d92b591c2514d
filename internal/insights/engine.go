// ABOUTME: Insight engine assembling readiness results and insight reports.
// ABOUTME: Reports are cached only if no write invalidated the user while they were built.
package insights

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/wellsync/internal/cache"
	"github.com/harperreed/wellsync/internal/correlation"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/harperreed/wellsync/internal/telemetry"
	"github.com/harperreed/wellsync/internal/trend"
	"github.com/rs/zerolog"
)

// DefaultHistoryDays is how far back readiness looks for model history.
const DefaultHistoryDays = 90

// Options configures an Engine. Store, Scorer, and Recommender are required.
type Options struct {
	Store        storage.SignalReader
	Scorer       *readiness.Scorer
	Recommender  *readiness.Recommender
	Analyzer     *correlation.Analyzer
	Cache        cache.Cache
	WindowDays   int
	TrendMetrics []string
	HistoryDays  int
	Logger       zerolog.Logger
	Metrics      *telemetry.Metrics
	Now          func() time.Time
}

// Engine computes readiness and insight reports for any user.
type Engine struct {
	store        storage.SignalReader
	scorer       *readiness.Scorer
	recommender  *readiness.Recommender
	analyzer     *correlation.Analyzer
	cache        cache.Cache
	aggregator   *trend.Aggregator
	windowDays   int
	trendMetrics []string
	historyDays  int
	logger       zerolog.Logger
	metrics      *telemetry.Metrics
	now          func() time.Time
}

// New validates opts and builds an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("insights: store is required")
	}
	if opts.Scorer == nil || opts.Recommender == nil {
		return nil, fmt.Errorf("insights: scorer and recommender are required")
	}
	if opts.Analyzer == nil {
		a, err := correlation.NewAnalyzer(correlation.DefaultPairs(), correlation.DefaultMinSamples)
		if err != nil {
			return nil, err
		}
		opts.Analyzer = a
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory(cache.DefaultTTL)
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = trend.DefaultWindowDays
	}
	if len(opts.TrendMetrics) == 0 {
		opts.TrendMetrics = trend.Selectable
	}
	if err := trend.ValidateMetrics(opts.TrendMetrics); err != nil {
		return nil, err
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = DefaultHistoryDays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		store:        opts.Store,
		scorer:       opts.Scorer,
		recommender:  opts.Recommender,
		analyzer:     opts.Analyzer,
		cache:        opts.Cache,
		aggregator:   trend.NewAggregator(opts.Store, opts.Scorer).WithClock(opts.Now),
		windowDays:   opts.WindowDays,
		trendMetrics: opts.TrendMetrics,
		historyDays:  opts.HistoryDays,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		now:          opts.Now,
	}, nil
}

// WindowDays is the default (and cached) report window.
func (e *Engine) WindowDays() int {
	return e.windowDays
}

// Today is the engine's current calendar day.
func (e *Engine) Today() models.Date {
	return models.DateOf(e.now())
}

// Readiness scores the user's check-in for date. The model, when configured,
// sees the check-ins of the preceding history window.
func (e *Engine) Readiness(ctx context.Context, userID string, date models.Date) (models.ReadinessResult, error) {
	from := date.AddDays(-(e.historyDays - 1))
	history, err := e.store.GetCheckIns(ctx, userID, from, date)
	if err != nil {
		return models.ReadinessResult{}, fmt.Errorf("load check-ins: %w", err)
	}
	if len(history) == 0 || history[len(history)-1].Date != date {
		return models.ReadinessResult{}, fmt.Errorf("check-in %s: %w", date, storage.ErrNotFound)
	}

	res, err := e.scorer.Score(&history[len(history)-1])
	if err != nil {
		return models.ReadinessResult{}, fmt.Errorf("score %s: %w", date, err)
	}
	return e.recommender.Recommend(ctx, res, history), nil
}

// Trends returns the selected metrics over the window ending today.
func (e *Engine) Trends(ctx context.Context, userID string, metrics []string, windowDays int) (trend.Sequence, error) {
	if windowDays == 0 {
		windowDays = e.windowDays
	}
	if len(metrics) == 0 {
		metrics = e.trendMetrics
	}
	return e.aggregator.Trends(ctx, userID, metrics, windowDays)
}

// Report returns the insight report over windowDays (0 means the default).
// Only default-window reports are cached.
func (e *Engine) Report(ctx context.Context, userID string, windowDays int) (*models.InsightReport, error) {
	if windowDays == 0 {
		windowDays = e.windowDays
	}
	if windowDays < 0 {
		return nil, &models.ValidationError{Field: "window", Value: windowDays, Reason: "must be positive"}
	}

	cacheable := windowDays == e.windowDays
	if cacheable {
		if report, ok := e.cache.Get(ctx, userID); ok {
			e.metrics.CacheHit()
			return report, nil
		}
		e.metrics.CacheMiss()
	}

	var gen uint64
	if cacheable {
		var err error
		if gen, err = e.cache.Generation(ctx, userID); err != nil {
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("insight cache generation unavailable")
			cacheable = false
		}
	}

	start := time.Now()
	report, err := e.build(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveReport(time.Since(start))

	if cacheable {
		e.put(ctx, userID, gen, report)
	}
	return report, nil
}

// put stores report unless a write has invalidated the user since gen was read.
func (e *Engine) put(ctx context.Context, userID string, gen uint64, report *models.InsightReport) {
	err := e.cache.Put(ctx, userID, gen, report)
	switch {
	case errors.Is(err, cache.ErrStale):
		e.logger.Debug().Str("user_id", userID).Msg("insight report outdated by a write, not cached")
	case err != nil:
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("insight cache put failed")
	}
}

// Invalidate drops the user's cached report and advances their generation in
// the cache backend. Writers call it after every successful write.
func (e *Engine) Invalidate(ctx context.Context, userID string) error {
	if err := e.cache.Invalidate(ctx, userID); err != nil {
		return fmt.Errorf("invalidate insights: %w", err)
	}
	return nil
}

func (e *Engine) build(ctx context.Context, userID string, windowDays int) (*models.InsightReport, error) {
	from, to := trend.Window(e.Today(), windowDays)

	checkIns, err := e.store.GetCheckIns(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load check-ins: %w", err)
	}
	workouts, err := e.store.GetWorkouts(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}
	meals, err := e.store.GetMeals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load meals: %w", err)
	}

	points, err := trend.Points(checkIns, e.trendMetrics, e.scorer)
	if err != nil {
		return nil, err
	}
	series := correlation.BuildSeries(checkIns, workouts, meals, e.scorer)

	return &models.InsightReport{
		WindowDays:     windowDays,
		DaysLogged:     len(checkIns),
		Trends:         points,
		Correlations:   e.analyzer.Analyze(series),
		WorkoutSummary: SummarizeWorkouts(workouts),
		MealSummary:    SummarizeMeals(meals),
		GeneratedAt:    e.now().UTC(),
	}, nil
}

// SummarizeWorkouts totals workouts. AvgRPE is nil when there are none.
func SummarizeWorkouts(workouts []models.Workout) models.WorkoutSummary {
	s := models.WorkoutSummary{TotalSessions: len(workouts)}
	var rpe int
	for _, w := range workouts {
		s.TotalMinutes += w.DurationMin
		rpe += w.RPE
	}
	if len(workouts) > 0 {
		avg := roundTenth(float64(rpe) / float64(len(workouts)))
		s.AvgRPE = &avg
	}
	return s
}

// SummarizeMeals totals meals. AvgQuality is nil when there are none.
func SummarizeMeals(meals []models.Meal) models.MealSummary {
	s := models.MealSummary{TotalMeals: len(meals)}
	var quality int
	for _, m := range meals {
		quality += m.Quality
	}
	if len(meals) > 0 {
		avg := roundTenth(float64(quality) / float64(len(meals)))
		s.AvgQuality = &avg
	}
	return s
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
