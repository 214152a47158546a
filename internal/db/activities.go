package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"caltrack/internal/model"
)

// ErrNotFound is returned when an activity id does not exist.
var ErrNotFound = errors.New("activity not found")

// timeLayout is fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const activityColumns = `id, category, name, calories, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (model.Activity, error) {
	var a model.Activity
	var createdAt, updatedAt string
	if err := row.Scan(&a.ID, &a.Category, &a.Name, &a.Calories, &createdAt, &updatedAt); err != nil {
		return model.Activity{}, err
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return a, nil
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ListActivities retrieves all activities in the order they were added,
// optionally filtered by a case-insensitive name match.
func ListActivities(db *sql.DB, filter string) ([]model.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE (? = '' OR name LIKE '%' || ? || '%')
		ORDER BY created_at, rowid
	`

	rows, err := db.Query(query, filter, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	results := []model.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		results = append(results, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return results, nil
}

// GetActivity retrieves a single activity by id.
func GetActivity(db *sql.DB, id string) (model.Activity, error) {
	row := db.QueryRow(`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Activity{}, fmt.Errorf("failed to get activity %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Activity{}, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// UpsertActivity inserts a new activity or updates the one with the same id.
// It reports which of the two happened and keeps created_at on update.
func UpsertActivity(db *sql.DB, a model.Activity) (string, error) {
	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(1) FROM activities WHERE id = ?`, a.ID).Scan(&exists); err != nil {
		return "", fmt.Errorf("failed to check activity: %w", err)
	}

	now := formatTime(time.Now())
	operation := "insert"
	if exists > 0 {
		operation = "update"
		_, err = tx.Exec(`
			UPDATE activities
			SET category = ?, name = ?, calories = ?, updated_at = ?
			WHERE id = ?
		`, a.Category, a.Name, a.Calories, now, a.ID)
		if err != nil {
			return "", fmt.Errorf("failed to update activity: %w", err)
		}
	} else {
		createdAt := now
		if !a.CreatedAt.IsZero() {
			createdAt = formatTime(a.CreatedAt)
		}
		_, err = tx.Exec(`
			INSERT INTO activities (id, category, name, calories, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.ID, a.Category, a.Name, a.Calories, createdAt, now)
		if err != nil {
			return "", fmt.Errorf("failed to insert activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return operation, nil
}

// DeleteActivity deletes an activity by id.
func DeleteActivity(db *sql.DB, id string) error {
	if _, err := db.Exec("DELETE FROM activities WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// DeleteAllActivities removes every activity and returns what was removed.
func DeleteAllActivities(db *sql.DB) ([]model.Activity, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT ` + activityColumns + ` FROM activities ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}
	var deleted []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		deleted = append(deleted, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM activities"); err != nil {
		return nil, fmt.Errorf("failed to delete activities: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return deleted, nil
}
