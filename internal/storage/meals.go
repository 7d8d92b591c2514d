// ABOUTME: Meal operations for SQLite storage.
// ABOUTME: Mirrors the workout operations with a quality rating instead of RPE.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellsync/internal/models"
)

const mealColumns = `id, user_id, date, meal_type, quality, notes, created_at`

// CreateMeal inserts a new meal.
func (d *DB) CreateMeal(ctx context.Context, m *models.Meal) error {
	if m.UserID == "" {
		return fmt.Errorf("create meal: user id is required")
	}
	query := `INSERT INTO meals (` + mealColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query,
		m.ID.String(),
		m.UserID,
		m.Date.String(),
		string(m.MealType),
		m.Quality,
		m.Notes,
		formatTimestamp(m.CreatedAt),
	)
	if err != nil {
		return unavailable("insert meal", err)
	}
	return nil
}

// GetMeals returns meals in [from, to], ascending by date then creation.
func (d *DB) GetMeals(ctx context.Context, userID string, from, to models.Date) ([]models.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC
	`
	rows, err := d.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, unavailable("get meals", err)
	}
	defer rows.Close()

	return scanMeals(rows)
}

// ListMeals returns the most recent meals, newest first.
func (d *DB) ListMeals(ctx context.Context, userID string, limit int) ([]models.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE user_id = ? ORDER BY date DESC, created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list meals", err)
	}
	defer rows.Close()

	return scanMeals(rows)
}

// DeleteMeal removes a meal by ID or prefix.
func (d *DB) DeleteMeal(ctx context.Context, userID, idOrPrefix string) error {
	return d.deleteByID(ctx, "meals", userID, idOrPrefix)
}

func scanMeals(rows *sql.Rows) ([]models.Meal, error) {
	var out []models.Meal

	for rows.Next() {
		var m models.Meal
		var id, date, mealType, createdAt string
		var notes sql.NullString

		if err := rows.Scan(&id, &m.UserID, &date, &mealType, &m.Quality, &notes, &createdAt); err != nil {
			return nil, unavailable("scan meal", err)
		}

		var err error
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse meal id: %w", err)
		}
		if m.Date, err = models.ParseDate(date); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		m.MealType = models.MealType(mealType)
		if notes.Valid {
			m.Notes = &notes.String
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("scan meals", err)
	}
	return out, nil
}
