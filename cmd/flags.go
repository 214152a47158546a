package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"caltrack/internal/config"
)

// Flags holds the global flag values. Config and DB are populated in the
// root Before hook and shared by every subcommand.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	DBPath     string

	Config *config.Config
	DB     *sql.DB
}

// DefaultDataDir returns ~/.caltrack, falling back to the working directory
// when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".caltrack"
	}
	return filepath.Join(home, ".caltrack")
}

// ConfigFile returns the config path, defaulting to <data-dir>/config.yaml.
func (f *Flags) ConfigFile() string {
	if f.ConfigPath != "" {
		return f.ConfigPath
	}
	return filepath.Join(f.DataDir, "config.yaml")
}

// DBFile returns the database path, defaulting to <data-dir>/caltrack.db.
func (f *Flags) DBFile() string {
	if f.DBPath != "" {
		return f.DBPath
	}
	return filepath.Join(f.DataDir, "caltrack.db")
}

// LogPath returns the log file path, defaulting to <data-dir>/caltrack.log.
func (f *Flags) LogPath() string {
	if f.LogFile != "" {
		return f.LogFile
	}
	return filepath.Join(f.DataDir, "caltrack.log")
}

// Close releases the database and then the logger. The logger is closed
// even when closing the database fails.
func (f *Flags) Close(closeLog func()) error {
	return closeAll(
		func() error {
			if f.DB == nil {
				return nil
			}
			if err := f.DB.Close(); err != nil {
				return fmt.Errorf("close database: %w", err)
			}
			return nil
		},
		func() error {
			if closeLog != nil {
				closeLog()
			}
			return nil
		},
	)
}

// closeAll runs every closer in order and joins their errors.
func closeAll(closers ...func() error) error {
	var errs []error
	for _, c := range closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
