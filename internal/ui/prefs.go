package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PrefsFileName is the name of the table preferences file in the data dir.
const PrefsFileName = "ui_prefs.json"

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	SortKey       string   `json:"sort_key"`
	SortDesc      bool     `json:"sort_desc"`
	HiddenColumns []string `json:"hidden_columns"`
	ActiveColumn  string   `json:"active_column"`
}

// UIPreferences stores persisted app preferences.
type UIPreferences struct {
	Activities TablePrefs `json:"activities"`
}

// loadUIPreferences reads prefs from path. A missing or unreadable file
// yields empty preferences.
func loadUIPreferences(path string) UIPreferences {
	if path == "" {
		return UIPreferences{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return UIPreferences{}
	}

	var prefs UIPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return UIPreferences{}
	}
	return prefs
}

func saveUIPreferences(path string, prefs UIPreferences) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
