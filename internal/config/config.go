// Package config handles configuration loading and validation for caltrack.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"caltrack/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Categories      []model.Category `yaml:"categories"`
	DefaultCategory int              `yaml:"default_category"`
	DailyGoal       int              `yaml:"daily_goal"` // 0 disables the goal
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Categories:      model.DefaultCategories(),
		DefaultCategory: model.CategoryFood,
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Save writes the config as YAML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if len(c.Categories) == 0 {
		c.Categories = defaults.Categories
	}
	if c.DefaultCategory == 0 {
		c.DefaultCategory = c.Categories[0].ID
	}
}

// CategoryByName finds a category by case-insensitive name or by numeric id.
func (c *Config) CategoryByName(value string) (model.Category, bool) {
	for _, cat := range c.Categories {
		if equalFold(cat.Name, value) || fmt.Sprint(cat.ID) == value {
			return cat, true
		}
	}
	return model.Category{}, false
}
