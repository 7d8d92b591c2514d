// ABOUTME: Derives correlation series from check-ins, workouts, and meals.
// ABOUTME: Includes readiness and the next-day readiness shift.
package correlation

import (
	"github.com/harperreed/wellsync/internal/models"
	"github.com/harperreed/wellsync/internal/readiness"
	"github.com/harperreed/wellsync/internal/signals"
)

// Derived series names beyond the raw check-in metrics.
const (
	Readiness        = "readiness"
	NextDayReadiness = "next_day_readiness"
	WorkoutRPE       = "workout_rpe"
	WorkoutMinutes   = "workout_minutes"
	MealQuality      = "meal_quality"
)

// SeriesNames lists every series BuildSeries can produce.
var SeriesNames = []string{
	string(signals.SleepHours),
	string(signals.SleepQuality),
	string(signals.Mood),
	string(signals.Energy),
	string(signals.Stress),
	Readiness,
	NextDayReadiness,
	WorkoutRPE,
	WorkoutMinutes,
	MealQuality,
}

// IsSeriesName reports whether name is a known series.
func IsSeriesName(name string) bool {
	for _, s := range SeriesNames {
		if s == name {
			return true
		}
	}
	return false
}

// BuildSeries turns a window of logs into named date-keyed series.
// Check-ins that fail scoring are left out of the readiness series only.
func BuildSeries(checkIns []models.CheckIn, workouts []models.Workout, meals []models.Meal, scorer *readiness.Scorer) map[string]Series {
	out := make(map[string]Series, len(SeriesNames))
	for _, name := range SeriesNames {
		out[name] = Series{}
	}

	for i := range checkIns {
		c := &checkIns[i]
		for _, m := range signals.Scored {
			if v, err := signals.Raw(c, m); err == nil {
				out[string(m)][c.Date] = v
			}
		}
		if scorer != nil {
			if res, err := scorer.Score(c); err == nil {
				out[Readiness][c.Date] = res.Score
			}
		}
	}

	for d, v := range out[Readiness] {
		out[NextDayReadiness][d.AddDays(-1)] = v
	}

	rpeSum := map[models.Date]float64{}
	rpeCount := map[models.Date]int{}
	for _, w := range workouts {
		rpeSum[w.Date] += float64(w.RPE)
		rpeCount[w.Date]++
		out[WorkoutMinutes][w.Date] += float64(w.DurationMin)
	}
	for d, sum := range rpeSum {
		out[WorkoutRPE][d] = sum / float64(rpeCount[d])
	}

	qualitySum := map[models.Date]float64{}
	qualityCount := map[models.Date]int{}
	for _, m := range meals {
		qualitySum[m.Date] += float64(m.Quality)
		qualityCount[m.Date]++
	}
	for d, sum := range qualitySum {
		out[MealQuality][d] = sum / float64(qualityCount[d])
	}

	return out
}
