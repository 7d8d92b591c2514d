package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/wellsync/internal/cache"
	"github.com/harperreed/wellsync/internal/insights"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/harperreed/wellsync/internal/storage"
	"github.com/harperreed/wellsync/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db      *storage.DB
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "wellsync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	scorer, err := readiness.NewScorer(readiness.DefaultWeights())
	require.NoError(t, err)
	rec, err := readiness.NewRecommender(readiness.DefaultThresholds())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	engine, err := insights.New(insights.Options{
		Store:       db,
		Scorer:      scorer,
		Recommender: rec,
		Cache:       cache.NewMemory(0),
		Metrics:     metrics,
		Now:         func() time.Time { return time.Date(2025, 6, 30, 9, 0, 0, 0, time.Local) },
	})
	require.NoError(t, err)

	srv := NewServer(Options{
		Service:  insights.NewService(engine, db),
		Reader:   db,
		Logger:   zerolog.Nop(),
		Metrics:  metrics,
		Gatherer: reg,
	})
	return &fixture{db: db, handler: srv.Handler()}
}

func (f *fixture) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	return e
}

var scenario = map[string]interface{}{
	"date": "2025-06-30", "sleep_hours": 8, "sleep_quality": 4, "mood": 4, "energy": 4, "stress": 2,
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestMissingUserIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/api/insights", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "missing_user", decodeError(t, rr).Code)
}

func TestCreateCheckInReturnsReadiness(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/api/checkins", "alice", scenario)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		CheckIn   models.CheckIn         `json:"checkin"`
		Readiness models.ReadinessResult `json:"readiness"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 7.3, resp.Readiness.Score)
	assert.Equal(t, models.IntensityHigh, resp.Readiness.Intensity)
	assert.Equal(t, models.SourceRule, resp.Readiness.Source)
	assert.Equal(t, "alice", resp.CheckIn.UserID)

	rr = f.do(t, http.MethodGet, "/api/readiness/2025-06-30", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = f.do(t, http.MethodGet, "/api/readiness/today", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateCheckInValidation(t *testing.T) {
	f := newFixture(t)

	bad := map[string]interface{}{"sleep_hours": 8, "sleep_quality": 4, "mood": 9, "energy": 4, "stress": 2}
	rr := f.do(t, http.MethodPost, "/api/checkins", "alice", bad)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_input", decodeError(t, rr).Code)

	missing := map[string]interface{}{"sleep_hours": 8, "mood": 3, "energy": 4, "stress": 2}
	rr = f.do(t, http.MethodPost, "/api/checkins", "alice", missing)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Message, "sleep_quality")

	unknown := map[string]interface{}{"sleep_hours": 8, "steps": 10000}
	rr = f.do(t, http.MethodPost, "/api/checkins", "alice", unknown)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_json", decodeError(t, rr).Code)
}

func TestReadinessNotFound(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/api/readiness/2025-06-01", "alice", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/readiness/yesterday", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInsightsAreUserScoped(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/checkins", "alice", scenario).Code)

	rr := f.do(t, http.MethodGet, "/api/insights", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var report models.InsightReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 1, report.DaysLogged)
	assert.Equal(t, 30, report.WindowDays)
	require.Len(t, report.Trends, 1)
	assert.Equal(t, 7.3, report.Trends[0].Values["readiness"])
	assert.Empty(t, report.Correlations)

	rr = f.do(t, http.MethodGet, "/api/insights", "bob", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 0, report.DaysLogged)

	rr = f.do(t, http.MethodGet, "/api/insights?window=abc", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTrendsEndpoint(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/checkins", "alice", scenario).Code)

	rr := f.do(t, http.MethodGet, "/api/trends?metrics=mood,stress&window=7", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var points []models.TrendPoint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &points))
	require.Len(t, points, 1)
	assert.Equal(t, map[string]float64{"mood": 4, "stress": 2}, points[0].Values)

	rr = f.do(t, http.MethodGet, "/api/trends?metrics=steps", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWorkoutLifecycle(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/api/workouts", "alice", map[string]interface{}{
		"date": "2025-06-30", "type": "run", "duration_min": 40, "rpe": 7, "notes": "intervals",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var w models.Workout
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &w))

	rr = f.do(t, http.MethodGet, "/api/workouts", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []models.Workout
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, w.ID, list[0].ID)

	rr = f.do(t, http.MethodGet, "/api/insights", "alice", nil)
	var report models.InsightReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 1, report.WorkoutSummary.TotalSessions)
	assert.Equal(t, 40, report.WorkoutSummary.TotalMinutes)

	rr = f.do(t, http.MethodDelete, "/api/workouts/"+w.ID.String()[:8], "alice", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = f.do(t, http.MethodDelete, "/api/workouts/"+w.ID.String(), "alice", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// The cached report was invalidated by the delete.
	rr = f.do(t, http.MethodGet, "/api/insights", "alice", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 0, report.WorkoutSummary.TotalSessions)
	assert.Nil(t, report.WorkoutSummary.AvgRPE)
}

func TestMealValidation(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/api/meals", "alice", map[string]interface{}{"meal_type": "brunch", "quality": 3})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/meals", "alice", map[string]interface{}{"meal_type": "lunch", "quality": 3})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/meals?from=2025-06-30&to=2025-06-30", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var meals []models.Meal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meals))
	assert.Len(t, meals, 1)

	rr = f.do(t, http.MethodGet, "/api/meals?from=2025-07-01&to=2025-06-30", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteCheckIn(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/checkins", "alice", scenario).Code)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/checkins/2025-06-30", "alice", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/api/checkins/2025-06-30", "alice", nil).Code)

	rr := f.do(t, http.MethodGet, "/api/checkins", "alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestStoreUnavailable(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Close())

	rr := f.do(t, http.MethodGet, "/api/insights", "alice", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "store_unavailable", decodeError(t, rr).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/health", "", nil)

	rr := f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "wellsync_http_requests_total")
	assert.Contains(t, rr.Body.String(), "wellsync_insight_cache_hits_total")
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "endpoint_not_found", decodeError(t, rr).Code)
}
