package db

import (
	"database/sql"

	"caltrack/internal/state"
)

// ApplyAction writes the effect of a state action to the database.
// Selection changes and loads have no storage effect.
func ApplyAction(db *sql.DB, action state.Action) error {
	switch a := action.(type) {
	case state.SaveActivity:
		_, err := UpsertActivity(db, a.Activity)
		return err
	case state.DeleteActivity:
		return DeleteActivity(db, a.ID)
	case state.RestartApp:
		_, err := DeleteAllActivities(db)
		return err
	case state.RestoreActivities:
		return RestoreActivities(db, a.Activities)
	}
	return nil
}
