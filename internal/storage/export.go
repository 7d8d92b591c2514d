// ABOUTME: Full-history export of a user's wellness logs.
// ABOUTME: Backs the JSON and YAML export commands.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/wellsync/internal/models"
)

// ExportVersion is bumped when the export layout changes.
const ExportVersion = "1.0"

// ExportData is the complete export payload.
type ExportData struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Tool       string           `json:"tool" yaml:"tool"`
	UserID     string           `json:"user_id" yaml:"user_id"`
	CheckIns   []models.CheckIn `json:"checkins" yaml:"checkins"`
	Workouts   []models.Workout `json:"workouts" yaml:"workouts"`
	Meals      []models.Meal    `json:"meals" yaml:"meals"`
}

var (
	exportFrom = models.NewDate(1, 1, 1)
	exportTo   = models.NewDate(9999, 12, 31)
)

// GetAllData retrieves every log for export, ascending by date.
func (d *DB) GetAllData(ctx context.Context, userID string) (*ExportData, error) {
	checkIns, err := d.GetCheckIns(ctx, userID, exportFrom, exportTo)
	if err != nil {
		return nil, err
	}
	workouts, err := d.GetWorkouts(ctx, userID, exportFrom, exportTo)
	if err != nil {
		return nil, err
	}
	meals, err := d.GetMeals(ctx, userID, exportFrom, exportTo)
	if err != nil {
		return nil, err
	}

	if checkIns == nil {
		checkIns = []models.CheckIn{}
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	if meals == nil {
		meals = []models.Meal{}
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "wellsync",
		UserID:     userID,
		CheckIns:   checkIns,
		Workouts:   workouts,
		Meals:      meals,
	}, nil
}
