package insights

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/wellsync/internal/cache"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/harperreed/wellsync/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const user = "user-1"

var today = models.NewDate(2025, 6, 30)

// memStore is an in-memory SignalReader and SignalWriter.
type memStore struct {
	mu       sync.Mutex
	checkIns map[string]map[models.Date]models.CheckIn
	workouts []models.Workout
	meals    []models.Meal
	err      error
	onRead   func()
	reads    int
}

func newMemStore() *memStore {
	return &memStore{checkIns: map[string]map[models.Date]models.CheckIn{}}
}

func (s *memStore) GetCheckIns(_ context.Context, userID string, from, to models.Date) ([]models.CheckIn, error) {
	s.mu.Lock()
	s.reads++
	hook := s.onRead
	s.onRead = nil
	var out []models.CheckIn
	for d := from; !d.After(to); d = d.AddDays(1) {
		if c, ok := s.checkIns[userID][d]; ok {
			out = append(out, c)
		}
	}
	err := s.err
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *memStore) GetWorkouts(_ context.Context, userID string, from, to models.Date) ([]models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Workout
	for _, w := range s.workouts {
		if w.UserID == userID && !w.Date.Before(from) && !w.Date.After(to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memStore) GetMeals(_ context.Context, userID string, from, to models.Date) ([]models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Meal
	for _, m := range s.meals {
		if m.UserID == userID && !m.Date.Before(from) && !m.Date.After(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) UpsertCheckIn(_ context.Context, c *models.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkIns[c.UserID] == nil {
		s.checkIns[c.UserID] = map[models.Date]models.CheckIn{}
	}
	s.checkIns[c.UserID][c.Date] = *c
	return nil
}

func (s *memStore) DeleteCheckIn(_ context.Context, userID string, date models.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checkIns[userID][date]; !ok {
		return fmt.Errorf("check-in %s: %w", date, storage.ErrNotFound)
	}
	delete(s.checkIns[userID], date)
	return nil
}

func (s *memStore) CreateWorkout(_ context.Context, w *models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workouts = append(s.workouts, *w)
	return nil
}

func (s *memStore) DeleteWorkout(context.Context, string, string) error {
	return storage.ErrNotFound
}

func (s *memStore) CreateMeal(_ context.Context, m *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals = append(s.meals, *m)
	return nil
}

func (s *memStore) DeleteMeal(context.Context, string, string) error {
	return storage.ErrNotFound
}

type fixture struct {
	store   *memStore
	cache   *cache.Memory
	metrics *telemetry.Metrics
	svc     *Service
}

func newFixture(t *testing.T, opts ...func(*Options)) *fixture {
	t.Helper()
	scorer, err := readiness.NewScorer(readiness.DefaultWeights())
	require.NoError(t, err)
	rec, err := readiness.NewRecommender(readiness.DefaultThresholds())
	require.NoError(t, err)

	f := &fixture{
		store:   newMemStore(),
		cache:   cache.NewMemory(0),
		metrics: telemetry.NewMetrics(prometheus.NewRegistry()),
	}
	o := Options{
		Store:       f.store,
		Scorer:      scorer,
		Recommender: rec,
		Cache:       f.cache,
		Metrics:     f.metrics,
		Now:         func() time.Time { return time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local) },
	}
	for _, fn := range opts {
		fn(&o)
	}
	f.svc = f.service(t, o)
	return f
}

func (f *fixture) service(t *testing.T, o Options) *Service {
	t.Helper()
	e, err := New(o)
	require.NoError(t, err)
	return NewService(e, f.store)
}

// peer returns a second service over the fixture's store and cache, as a
// separate process sharing a cache backend would see them.
func (f *fixture) peer(t *testing.T) *Service {
	t.Helper()
	return f.service(t, Options{
		Store:       f.store,
		Scorer:      f.svc.scorer,
		Recommender: f.svc.recommender,
		Cache:       f.cache,
		Now:         f.svc.now,
	})
}

func checkIn(date models.Date, sleep float64, q, mood, energy, stress int) *models.CheckIn {
	return models.NewCheckIn(date, sleep, q, mood, energy, stress).ForUser(user)
}

func TestSubmitCheckInReturnsReadiness(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.SubmitCheckIn(context.Background(), checkIn(today, 8, 4, 4, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, 7.3, res.Score)
	assert.Equal(t, models.IntensityHigh, res.Intensity)
	assert.Equal(t, models.SourceRule, res.Source)
	assert.Equal(t, today, res.Date)
}

func TestSubmitCheckInRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitCheckIn(context.Background(), checkIn(today, 13, 4, 4, 4, 2))
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
	assert.Empty(t, f.store.checkIns[user])
}

func TestReadinessMissingCheckIn(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Readiness(context.Background(), user, today)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReportIsCachedForDefaultWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SubmitCheckIn(ctx, checkIn(today, 7, 3, 3, 3, 3))
	require.NoError(t, err)

	first, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	reads := f.store.reads

	second, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, reads, f.store.reads)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheMisses))
}

func TestNonDefaultWindowBypassesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Report(ctx, user, 7)
	require.NoError(t, err)
	_, ok := f.cache.Get(ctx, user)
	assert.False(t, ok)
}

func TestWriteInvalidatesThenRecomputes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitCheckIn(ctx, checkIn(today.AddDays(-1), 7, 3, 3, 3, 3))
	require.NoError(t, err)

	before, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, before.DaysLogged)

	_, err = f.svc.SubmitCheckIn(ctx, checkIn(today, 8, 4, 4, 4, 2))
	require.NoError(t, err)
	_, ok := f.cache.Get(ctx, user)
	assert.False(t, ok, "write must invalidate the cached report")

	after, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, after.DaysLogged)
	require.Len(t, after.Trends, 2)
	assert.Equal(t, today, after.Trends[1].Date)

	w := models.NewWorkout(today, models.WorkoutRun, 40, 6).ForUser(user)
	require.NoError(t, f.svc.Writer.CreateWorkout(ctx, w))

	withWorkout, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, withWorkout.WorkoutSummary.TotalSessions)
}

func TestWriteDuringBuildIsNotCachedStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SubmitCheckIn(ctx, checkIn(today.AddDays(-1), 7, 3, 3, 3, 3))
	require.NoError(t, err)

	// A write lands after the report read its check-ins.
	f.store.onRead = func() {
		err := f.svc.Writer.UpsertCheckIn(ctx, checkIn(today, 8, 4, 4, 4, 2))
		assert.NoError(t, err)
	}

	stale, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stale.DaysLogged)

	_, ok := f.cache.Get(ctx, user)
	assert.False(t, ok, "report computed before the write must not be cached")

	fresh, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.DaysLogged)
}

func TestWriteFromAnotherEngineDuringBuildIsNotCachedStale(t *testing.T) {
	f := newFixture(t)
	other := f.peer(t)
	ctx := context.Background()
	_, err := f.svc.SubmitCheckIn(ctx, checkIn(today.AddDays(-1), 7, 3, 3, 3, 3))
	require.NoError(t, err)

	// The first engine writes while the second is building its report.
	f.store.onRead = func() {
		_, err := f.svc.SubmitCheckIn(ctx, checkIn(today, 8, 4, 4, 4, 2))
		assert.NoError(t, err)
	}

	stale, err := other.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stale.DaysLogged)

	fresh, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.DaysLogged)

	cached, err := other.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Same(t, fresh, cached)
}

type noGenerationCache struct{ cache.Cache }

func (noGenerationCache) Generation(context.Context, string) (uint64, error) {
	return 0, errors.New("cache down")
}

func TestReportSkipsCacheWithoutGeneration(t *testing.T) {
	mem := cache.NewMemory(0)
	f := newFixture(t, func(o *Options) { o.Cache = noGenerationCache{mem} })
	ctx := context.Background()

	report, err := f.svc.Report(ctx, user, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, report.DaysLogged)
	_, ok := mem.Get(ctx, user)
	assert.False(t, ok)
}

func TestReportPropagatesStoreUnavailable(t *testing.T) {
	f := newFixture(t)
	f.store.err = fmt.Errorf("get check-ins: %w", storage.ErrStoreUnavailable)

	_, err := f.svc.Report(context.Background(), user, 0)
	assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
}

func TestReportRejectsNegativeWindow(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Report(context.Background(), user, -3)
	assert.True(t, models.IsValidationError(err))
}

func TestReportUsersAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SubmitCheckIn(ctx, checkIn(today, 7, 3, 3, 3, 3))
	require.NoError(t, err)

	other, err := f.svc.Report(ctx, "someone-else", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, other.DaysLogged)
	assert.Empty(t, other.Trends)
	assert.Empty(t, other.Correlations)
	assert.Nil(t, other.WorkoutSummary.AvgRPE)
}

type failingCache struct{ cache.Cache }

func (failingCache) Invalidate(context.Context, string) error { return errors.New("cache down") }

func TestInvalidateFailureSurfaces(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Cache = failingCache{cache.NewMemory(0)} })
	err := f.svc.Writer.UpsertCheckIn(context.Background(), checkIn(today, 7, 3, 3, 3, 3))
	assert.Error(t, err)
}

func TestSummaries(t *testing.T) {
	assert.Nil(t, SummarizeWorkouts(nil).AvgRPE)
	assert.Nil(t, SummarizeMeals(nil).AvgQuality)

	ws := SummarizeWorkouts([]models.Workout{
		*models.NewWorkout(today, models.WorkoutRun, 30, 6),
		*models.NewWorkout(today, models.WorkoutYoga, 45, 3),
		*models.NewWorkout(today, models.WorkoutSwim, 20, 5),
	})
	assert.Equal(t, 3, ws.TotalSessions)
	assert.Equal(t, 95, ws.TotalMinutes)
	require.NotNil(t, ws.AvgRPE)
	assert.Equal(t, 4.7, *ws.AvgRPE)

	ms := SummarizeMeals([]models.Meal{
		*models.NewMeal(today, models.MealLunch, 4),
		*models.NewMeal(today, models.MealDinner, 5),
	})
	assert.Equal(t, 2, ms.TotalMeals)
	require.NotNil(t, ms.AvgQuality)
	assert.Equal(t, 4.5, *ms.AvgQuality)
}

func TestTrendsUsesEngineDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.SubmitCheckIn(ctx, checkIn(today, 8, 4, 4, 4, 2))
	require.NoError(t, err)

	seq, err := f.svc.Trends(ctx, user, nil, 0)
	require.NoError(t, err)
	points := seq.Collect()
	require.Len(t, points, 1)
	assert.Equal(t, 7.3, points[0].Values["readiness"])
	assert.Equal(t, 8.0, points[0].Values["sleep_hours"])
}
