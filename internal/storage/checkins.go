// ABOUTME: Check-in operations for SQLite storage.
// ABOUTME: Upserts by (user, date) so a re-submitted day replaces the old one.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/wellsync/internal/models"
)

const checkInColumns = `user_id, date, sleep_hours, sleep_quality, mood, energy, stress, created_at, updated_at`

// UpsertCheckIn stores c, replacing any check-in for the same user and date.
// The original created_at is kept on replacement.
func (d *DB) UpsertCheckIn(ctx context.Context, c *models.CheckIn) error {
	if c.UserID == "" {
		return fmt.Errorf("upsert check-in: user id is required")
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	query := `
		INSERT INTO checkins (` + checkInColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			sleep_hours = excluded.sleep_hours,
			sleep_quality = excluded.sleep_quality,
			mood = excluded.mood,
			energy = excluded.energy,
			stress = excluded.stress,
			updated_at = excluded.updated_at
	`
	_, err := d.db.ExecContext(ctx, query,
		c.UserID,
		c.Date.String(),
		c.SleepHours,
		c.SleepQuality,
		c.Mood,
		c.Energy,
		c.Stress,
		formatTimestamp(c.CreatedAt),
		formatTimestamp(c.UpdatedAt),
	)
	if err != nil {
		return unavailable("upsert check-in", err)
	}
	return nil
}

// GetCheckIn returns the check-in for a user's day.
func (d *DB) GetCheckIn(ctx context.Context, userID string, date models.Date) (*models.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM checkins WHERE user_id = ? AND date = ?`
	rows, err := d.db.QueryContext(ctx, query, userID, date.String())
	if err != nil {
		return nil, unavailable("get check-in", err)
	}
	defer rows.Close()

	checkIns, err := scanCheckIns(rows)
	if err != nil {
		return nil, err
	}
	if len(checkIns) == 0 {
		return nil, fmt.Errorf("check-in %s: %w", date, ErrNotFound)
	}
	return &checkIns[0], nil
}

// GetCheckIns returns check-ins in [from, to], ascending by date.
func (d *DB) GetCheckIns(ctx context.Context, userID string, from, to models.Date) ([]models.CheckIn, error) {
	query := `
		SELECT ` + checkInColumns + `
		FROM checkins
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := d.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, unavailable("get check-ins", err)
	}
	defer rows.Close()

	return scanCheckIns(rows)
}

// ListCheckIns returns the most recent check-ins, newest first.
func (d *DB) ListCheckIns(ctx context.Context, userID string, limit int) ([]models.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM checkins WHERE user_id = ? ORDER BY date DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list check-ins", err)
	}
	defer rows.Close()

	return scanCheckIns(rows)
}

// DeleteCheckIn removes the check-in for a user's day.
func (d *DB) DeleteCheckIn(ctx context.Context, userID string, date models.Date) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM checkins WHERE user_id = ? AND date = ?", userID, date.String())
	if err != nil {
		return unavailable("delete check-in", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("delete check-in", err)
	}
	if affected == 0 {
		return fmt.Errorf("check-in %s: %w", date, ErrNotFound)
	}
	return nil
}

// scanCheckIns scans rows into check-ins.
func scanCheckIns(rows *sql.Rows) ([]models.CheckIn, error) {
	var out []models.CheckIn

	for rows.Next() {
		var c models.CheckIn
		var date, createdAt, updatedAt string

		err := rows.Scan(&c.UserID, &date, &c.SleepHours, &c.SleepQuality, &c.Mood, &c.Energy, &c.Stress, &createdAt, &updatedAt)
		if err != nil {
			return nil, unavailable("scan check-in", err)
		}

		if c.Date, err = models.ParseDate(date); err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("scan check-ins", err)
	}
	return out, nil
}
