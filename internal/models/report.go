// ABOUTME: Insight report model: trend points, correlations, and summaries.
// ABOUTME: Trend points flatten their metric values into the JSON object.
package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// TrendPoint is one day's selected metric values.
type TrendPoint struct {
	Date   Date
	Values map[string]float64
}

// MarshalJSON renders {"date": "...", "<metric>": value, ...}.
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Values)+1)
	for k, v := range p.Values {
		out[k] = v
	}
	out["date"] = p.Date.String()
	return json.Marshal(out)
}

// UnmarshalJSON reads the flattened form produced by MarshalJSON.
func (p *TrendPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dateRaw, ok := raw["date"]
	if !ok {
		return fmt.Errorf("trend point missing date")
	}
	if err := json.Unmarshal(dateRaw, &p.Date); err != nil {
		return err
	}
	delete(raw, "date")
	p.Values = make(map[string]float64, len(raw))
	for k, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("trend metric %s: %w", k, err)
		}
		p.Values[k] = f
	}
	return nil
}

// MarshalYAML renders the same flattened shape as MarshalJSON.
func (p TrendPoint) MarshalYAML() (interface{}, error) {
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]interface{}, len(p.Values)+1)
	out["date"] = p.Date.String()
	for _, k := range keys {
		out[k] = p.Values[k]
	}
	return out, nil
}

// WorkoutSummary aggregates workouts over the report window.
type WorkoutSummary struct {
	TotalSessions int      `json:"total_sessions" yaml:"total_sessions"`
	TotalMinutes  int      `json:"total_minutes" yaml:"total_minutes"`
	AvgRPE        *float64 `json:"avg_rpe" yaml:"avg_rpe"`
}

// MealSummary aggregates meals over the report window.
type MealSummary struct {
	TotalMeals int      `json:"total_meals" yaml:"total_meals"`
	AvgQuality *float64 `json:"avg_quality" yaml:"avg_quality"`
}

// InsightReport is the assembled insights payload for one user.
// Correlations only contain pairs that could be computed.
type InsightReport struct {
	WindowDays     int                `json:"window_days" yaml:"window_days"`
	DaysLogged     int                `json:"days_logged" yaml:"days_logged"`
	Trends         []TrendPoint       `json:"trends" yaml:"trends"`
	Correlations   map[string]float64 `json:"correlations" yaml:"correlations"`
	WorkoutSummary WorkoutSummary     `json:"workout_summary" yaml:"workout_summary"`
	MealSummary    MealSummary        `json:"meal_summary" yaml:"meal_summary"`
	GeneratedAt    time.Time          `json:"generated_at" yaml:"generated_at"`
}
