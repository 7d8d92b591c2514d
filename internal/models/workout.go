// ABOUTME: Workout model with activity type, duration, and perceived exertion.
// ABOUTME: Several workouts may be logged for the same day.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutType is the kind of activity performed.
type WorkoutType string

const (
	WorkoutRun      WorkoutType = "run"
	WorkoutWalk     WorkoutType = "walk"
	WorkoutCycle    WorkoutType = "cycle"
	WorkoutSwim     WorkoutType = "swim"
	WorkoutStrength WorkoutType = "strength"
	WorkoutYoga     WorkoutType = "yoga"
	WorkoutHIIT     WorkoutType = "hiit"
	WorkoutSport    WorkoutType = "sport"
	WorkoutOther    WorkoutType = "other"
)

// AllWorkoutTypes lists every accepted workout type.
var AllWorkoutTypes = []WorkoutType{
	WorkoutRun, WorkoutWalk, WorkoutCycle, WorkoutSwim,
	WorkoutStrength, WorkoutYoga, WorkoutHIIT, WorkoutSport, WorkoutOther,
}

// IsValidWorkoutType checks if a string is a known workout type.
func IsValidWorkoutType(s string) bool {
	for _, wt := range AllWorkoutTypes {
		if string(wt) == s {
			return true
		}
	}
	return false
}

const (
	MinDurationMin = 1
	MaxDurationMin = 600
	MinRPE         = 1
	MaxRPE         = 10
)

// Workout represents one exercise session.
type Workout struct {
	ID          uuid.UUID   `json:"id" yaml:"id"`
	UserID      string      `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Date        Date        `json:"date" yaml:"date"`
	Type        WorkoutType `json:"type" yaml:"type"`
	DurationMin int         `json:"duration_min" yaml:"duration_min"`
	RPE         int         `json:"rpe" yaml:"rpe"`
	Notes       *string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
}

// NewWorkout creates a new Workout with generated UUID and current timestamp.
func NewWorkout(date Date, workoutType WorkoutType, durationMin, rpe int) *Workout {
	return &Workout{
		ID:          uuid.New(),
		Date:        date,
		Type:        WorkoutType(strings.ToLower(string(workoutType))),
		DurationMin: durationMin,
		RPE:         rpe,
		CreatedAt:   time.Now(),
	}
}

// ForUser sets the owning user.
func (w *Workout) ForUser(userID string) *Workout {
	w.UserID = userID
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = &notes
	return w
}

// Validate checks the workout's bounded fields.
func (w *Workout) Validate() error {
	if w.Date.IsZero() {
		return invalid("date", nil, "required")
	}
	if !IsValidWorkoutType(string(w.Type)) {
		return invalid("type", w.Type, "unknown workout type")
	}
	if w.DurationMin < MinDurationMin || w.DurationMin > MaxDurationMin {
		return invalid("duration_min", w.DurationMin, "must be between %d and %d", MinDurationMin, MaxDurationMin)
	}
	if w.RPE < MinRPE || w.RPE > MaxRPE {
		return invalid("rpe", w.RPE, "must be between %d and %d", MinRPE, MaxRPE)
	}
	return nil
}
