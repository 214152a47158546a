package db

import (
	"database/sql"
	"fmt"
	"time"

	"caltrack/internal/model"
)

// RestoreActivities re-inserts previously removed activities with their
// original ids and timestamps, replacing rows with the same id. The batch
// is applied in one transaction.
func RestoreActivities(db *sql.DB, activities []model.Activity) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range activities {
		if err := restoreActivity(tx, a); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func restoreActivity(tx *sql.Tx, a model.Activity) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := a.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := tx.Exec(`
		INSERT OR REPLACE INTO activities (id, category, name, calories, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Category, a.Name, a.Calories, formatTime(createdAt), formatTime(updatedAt))
	if err != nil {
		return fmt.Errorf("failed to restore activity %s: %w", a.ID, err)
	}
	return nil
}
