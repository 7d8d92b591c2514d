// ABOUTME: Meal model with meal type, quality rating, and optional notes.
// ABOUTME: Several meals may be logged for the same day.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MealType is the slot a meal was eaten in.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// AllMealTypes lists every accepted meal type.
var AllMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// IsValidMealType checks if a string is a known meal type.
func IsValidMealType(s string) bool {
	for _, mt := range AllMealTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// Meal is one logged meal.
type Meal struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	UserID    string    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Date      Date      `json:"date" yaml:"date"`
	MealType  MealType  `json:"meal_type" yaml:"meal_type"`
	Quality   int       `json:"quality" yaml:"quality"`
	Notes     *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewMeal creates a new Meal with generated UUID and current timestamp.
func NewMeal(date Date, mealType MealType, quality int) *Meal {
	return &Meal{
		ID:        uuid.New(),
		Date:      date,
		MealType:  MealType(strings.ToLower(string(mealType))),
		Quality:   quality,
		CreatedAt: time.Now(),
	}
}

// ForUser sets the owning user.
func (m *Meal) ForUser(userID string) *Meal {
	m.UserID = userID
	return m
}

// WithNotes sets notes on the meal.
func (m *Meal) WithNotes(notes string) *Meal {
	m.Notes = &notes
	return m
}

// Validate checks the meal's bounded fields.
func (m *Meal) Validate() error {
	if m.Date.IsZero() {
		return invalid("date", nil, "required")
	}
	if !IsValidMealType(string(m.MealType)) {
		return invalid("meal_type", m.MealType, "must be breakfast, lunch, dinner, or snack")
	}
	if m.Quality < MinScale || m.Quality > MaxScale {
		return invalid("quality", m.Quality, "must be between %d and %d", MinScale, MaxScale)
	}
	return nil
}
