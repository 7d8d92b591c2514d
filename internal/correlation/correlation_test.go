package correlation

import (
	"testing"

	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = models.NewDate(2025, 6, 1)

func series(values ...float64) Series {
	s := Series{}
	for i, v := range values {
		s[start.AddDays(i)] = v
	}
	return s
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	r, ok := Pearson(series(1, 2, 3, 4, 5), series(2, 4, 6, 8, 10), DefaultMinSamples)
	require.True(t, ok)
	assert.Equal(t, 1.0, r)

	r, ok = Pearson(series(1, 2, 3, 4, 5), series(10, 8, 6, 4, 2), DefaultMinSamples)
	require.True(t, ok)
	assert.Equal(t, -1.0, r)
}

func TestPearsonRoundsToTwoDecimals(t *testing.T) {
	r, ok := Pearson(series(1, 2, 3, 4, 5), series(2, 1, 4, 3, 5), DefaultMinSamples)
	require.True(t, ok)
	assert.Equal(t, 0.8, r)
}

func TestPearsonBelowMinimumSamples(t *testing.T) {
	_, ok := Pearson(series(6, 7, 8, 5), series(3, 4, 5, 2), DefaultMinSamples)
	assert.False(t, ok)
}

func TestPearsonConstantSeries(t *testing.T) {
	_, ok := Pearson(series(7, 7, 7, 7, 7, 7), series(1, 2, 3, 4, 5, 6), DefaultMinSamples)
	assert.False(t, ok)

	_, ok = Pearson(series(1, 2, 3, 4, 5, 6), series(3, 3, 3, 3, 3, 3), DefaultMinSamples)
	assert.False(t, ok)
}

func TestPearsonInnerJoinsOnDate(t *testing.T) {
	a := series(1, 2, 3, 4, 5, 6, 7)
	b := Series{}
	// Only five dates overlap.
	for i := 2; i < 7; i++ {
		b[start.AddDays(i)] = float64(i * 3)
	}
	b[start.AddDays(30)] = 100

	r, ok := Pearson(a, b, DefaultMinSamples)
	require.True(t, ok)
	assert.Equal(t, 1.0, r)

	_, ok = Pearson(a, b, 6)
	assert.False(t, ok)
}

func TestPearsonBounded(t *testing.T) {
	values := [][2][]float64{
		{{1, 5, 2, 8, 3, 9}, {2, 2, 7, 1, 8, 4}},
		{{0.1, 0.2, 0.3, 0.4, 0.5}, {5, 3, 4, 1, 2}},
		{{12, 0, 6, 3, 9}, {1, 5, 3, 4, 2}},
	}
	for _, v := range values {
		r, ok := Pearson(series(v[0]...), series(v[1]...), DefaultMinSamples)
		require.True(t, ok)
		assert.GreaterOrEqual(t, r, -1.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestFourPairedObservationsOmitKey(t *testing.T) {
	var checkIns []models.CheckIn
	for i, v := range []struct {
		sleep float64
		mood  int
	}{{6, 2}, {7, 3}, {8, 4}, {5, 1}} {
		checkIns = append(checkIns, *models.NewCheckIn(start.AddDays(i), v.sleep, 3, v.mood, 3, 3))
	}

	a, err := NewAnalyzer(DefaultPairs(), DefaultMinSamples)
	require.NoError(t, err)

	got := a.Analyze(BuildSeries(checkIns, nil, nil, nil))
	_, present := got["sleep_hours↔mood"]
	assert.False(t, present)
	assert.Empty(t, got)
}

func TestAnalyzeComputablePairs(t *testing.T) {
	var checkIns []models.CheckIn
	for i := 0; i < 6; i++ {
		// Sleep and mood rise together, energy stays flat.
		checkIns = append(checkIns, *models.NewCheckIn(start.AddDays(i), float64(5+i), 3, 1+i%5, 3, 3))
	}
	a, err := NewAnalyzer(DefaultPairs(), DefaultMinSamples)
	require.NoError(t, err)

	got := a.Analyze(BuildSeries(checkIns, nil, nil, nil))
	assert.Contains(t, got, "sleep_hours↔mood")
	assert.NotContains(t, got, "sleep_hours↔energy")
	assert.NotContains(t, got, "stress↔energy")
	assert.NotContains(t, got, "workout_rpe↔next_day_readiness")
}

func TestBuildSeriesDerived(t *testing.T) {
	scorer, err := readiness.NewScorer(readiness.DefaultWeights())
	require.NoError(t, err)

	checkIns := []models.CheckIn{
		*models.NewCheckIn(start, 6, 3, 3, 3, 3),
		*models.NewCheckIn(start.AddDays(1), 8, 4, 4, 4, 2),
	}
	workouts := []models.Workout{
		*models.NewWorkout(start, models.WorkoutRun, 30, 6),
		*models.NewWorkout(start, models.WorkoutStrength, 45, 8),
		*models.NewWorkout(start.AddDays(1), models.WorkoutWalk, 20, 2),
	}
	meals := []models.Meal{
		*models.NewMeal(start, models.MealLunch, 4),
		*models.NewMeal(start, models.MealDinner, 3),
	}

	s := BuildSeries(checkIns, workouts, meals, scorer)

	assert.Equal(t, 7.0, s[WorkoutRPE][start])
	assert.Equal(t, 75.0, s[WorkoutMinutes][start])
	assert.Equal(t, 3.5, s[MealQuality][start])
	assert.Equal(t, 7.3, s[Readiness][start.AddDays(1)])
	assert.Equal(t, 7.3, s[NextDayReadiness][start])
	_, ok := s[NextDayReadiness][start.AddDays(1)]
	assert.False(t, ok)
}

func TestValidatePairs(t *testing.T) {
	assert.NoError(t, ValidatePairs(DefaultPairs()))

	err := ValidatePairs([]Pair{{A: "mood", B: "energy"}, {A: "energy", B: "mood"}})
	assert.True(t, models.IsValidationError(err))

	err = ValidatePairs([]Pair{{A: "mood", B: "steps"}})
	assert.True(t, models.IsValidationError(err))

	err = ValidatePairs([]Pair{{A: "mood", B: "mood"}})
	assert.True(t, models.IsValidationError(err))
}

func TestPairKeyKeepsConfiguredOrder(t *testing.T) {
	assert.Equal(t, "stress↔energy", Pair{A: "stress", B: "energy"}.Key())
	assert.Equal(t, "energy↔stress", Pair{A: "energy", B: "stress"}.Key())
}
