// ABOUTME: Workout operations for SQLite storage.
// ABOUTME: Workouts are append-only; several may share a day.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellsync/internal/models"
)

const workoutColumns = `id, user_id, date, workout_type, duration_min, rpe, notes, created_at`

// CreateWorkout inserts a new workout.
func (d *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	if w.UserID == "" {
		return fmt.Errorf("create workout: user id is required")
	}
	query := `INSERT INTO workouts (` + workoutColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query,
		w.ID.String(),
		w.UserID,
		w.Date.String(),
		string(w.Type),
		w.DurationMin,
		w.RPE,
		w.Notes,
		formatTimestamp(w.CreatedAt),
	)
	if err != nil {
		return unavailable("insert workout", err)
	}
	return nil
}

// GetWorkouts returns workouts in [from, to], ascending by date then creation.
func (d *DB) GetWorkouts(ctx context.Context, userID string, from, to models.Date) ([]models.Workout, error) {
	query := `
		SELECT ` + workoutColumns + `
		FROM workouts
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC
	`
	rows, err := d.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, unavailable("get workouts", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// ListWorkouts returns the most recent workouts, newest first.
func (d *DB) ListWorkouts(ctx context.Context, userID string, limit int) ([]models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts WHERE user_id = ? ORDER BY date DESC, created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list workouts", err)
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// DeleteWorkout removes a workout by ID or prefix.
func (d *DB) DeleteWorkout(ctx context.Context, userID, idOrPrefix string) error {
	return d.deleteByID(ctx, "workouts", userID, idOrPrefix)
}

// scanWorkouts scans rows into workouts.
func scanWorkouts(rows *sql.Rows) ([]models.Workout, error) {
	var out []models.Workout

	for rows.Next() {
		var w models.Workout
		var id, date, workoutType, createdAt string
		var notes sql.NullString

		if err := rows.Scan(&id, &w.UserID, &date, &workoutType, &w.DurationMin, &w.RPE, &notes, &createdAt); err != nil {
			return nil, unavailable("scan workout", err)
		}

		var err error
		if w.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse workout id: %w", err)
		}
		if w.Date, err = models.ParseDate(date); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		w.Type = models.WorkoutType(workoutType)
		if notes.Valid {
			w.Notes = &notes.String
		}
		w.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

		out = append(out, w)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("scan workouts", err)
	}
	return out, nil
}
