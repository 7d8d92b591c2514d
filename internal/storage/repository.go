// ABOUTME: Signal store contracts for wellness logs.
// ABOUTME: Separates the date-range read contract from the write path.
package storage

import (
	"context"
	"errors"

	"github.com/harperreed/wellsync/internal/models"
)

var (
	// ErrStoreUnavailable wraps any transport or driver failure. Callers may retry.
	ErrStoreUnavailable = errors.New("signal store unavailable")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
)

// SignalReader reads a user's logs by inclusive date range, ascending by date.
type SignalReader interface {
	GetCheckIns(ctx context.Context, userID string, from, to models.Date) ([]models.CheckIn, error)
	GetWorkouts(ctx context.Context, userID string, from, to models.Date) ([]models.Workout, error)
	GetMeals(ctx context.Context, userID string, from, to models.Date) ([]models.Meal, error)
}

// SignalWriter mutates a user's logs. Every successful call must be
// followed by an insight cache invalidation for that user.
type SignalWriter interface {
	UpsertCheckIn(ctx context.Context, c *models.CheckIn) error
	DeleteCheckIn(ctx context.Context, userID string, date models.Date) error
	CreateWorkout(ctx context.Context, w *models.Workout) error
	DeleteWorkout(ctx context.Context, userID, idOrPrefix string) error
	CreateMeal(ctx context.Context, m *models.Meal) error
	DeleteMeal(ctx context.Context, userID, idOrPrefix string) error
}

// Repository is the full store used by the CLI, HTTP API, and MCP server.
type Repository interface {
	SignalReader
	SignalWriter

	GetCheckIn(ctx context.Context, userID string, date models.Date) (*models.CheckIn, error)
	ListCheckIns(ctx context.Context, userID string, limit int) ([]models.CheckIn, error)
	ListWorkouts(ctx context.Context, userID string, limit int) ([]models.Workout, error)
	ListMeals(ctx context.Context, userID string, limit int) ([]models.Meal, error)
	GetAllData(ctx context.Context, userID string) (*ExportData, error)
	Close() error
}
