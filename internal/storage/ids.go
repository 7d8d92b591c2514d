// ABOUTME: ID prefix resolution shared by workouts and meals.
// ABOUTME: Accepts a full UUID or any unambiguous prefix of one.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// resolveID finds the full ID in table for a user's id or id prefix.
// table is always a package constant, never user input.
func (d *DB) resolveID(ctx context.Context, table, userID, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("empty id: %w", ErrNotFound)
	}

	exact := len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4
	query := `SELECT id FROM ` + table + ` WHERE user_id = ? AND id = ?`
	args := []any{userID, idOrPrefix}
	if !exact {
		// Compared literally so % and _ match only themselves.
		query = `SELECT id FROM ` + table + ` WHERE user_id = ? AND substr(id, 1, length(?)) = ?`
		args = []any{userID, idOrPrefix, idOrPrefix}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return "", unavailable("resolve id", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", unavailable("scan id", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", unavailable("resolve id", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%s: %w", idOrPrefix, ErrNotFound)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}

	return matches[0], nil
}

// deleteByID removes one row of table after resolving its id.
func (d *DB) deleteByID(ctx context.Context, table, userID, idOrPrefix string) error {
	id, err := d.resolveID(ctx, table, userID, idOrPrefix)
	if err != nil {
		return err
	}

	result, err := d.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return unavailable("delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("delete", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", idOrPrefix, ErrNotFound)
	}
	return nil
}
