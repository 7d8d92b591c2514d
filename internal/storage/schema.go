// ABOUTME: SQLite schema definition and versioned migrations.
// ABOUTME: Tracks the applied version in PRAGMA user_version.
package storage

import (
	"fmt"
)

// migrations are applied in order; index i moves the schema to version i+1.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS checkins (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		sleep_hours REAL NOT NULL,
		sleep_quality INTEGER NOT NULL,
		mood INTEGER NOT NULL,
		energy INTEGER NOT NULL,
		stress INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		workout_type TEXT NOT NULL,
		duration_min INTEGER NOT NULL,
		rpe INTEGER NOT NULL,
		notes TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		meal_type TEXT NOT NULL,
		quality INTEGER NOT NULL,
		notes TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, date);
	`,
}

// SchemaVersion is the version a freshly migrated database reports.
var SchemaVersion = len(migrations)

// migrate applies any migrations newer than the stored user_version.
func (d *DB) migrate() error {
	var current int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", current, SchemaVersion)
	}

	for v := current; v < SchemaVersion; v++ {
		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", v+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v+1, err)
		}
	}
	return nil
}

// Version returns the schema version stored in the database.
func (d *DB) Version() (int, error) {
	var v int
	err := d.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}
