package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Validate checks the structural rules of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateCategories(),
		criterio.Run("default_category", c.DefaultCategory, c.isKnownCategory),
		criterio.Run("daily_goal", c.DailyGoal, nonNegative),
	)
}

func (c *Config) validateCategories() error {
	if len(c.Categories) == 0 {
		return criterio.NewFieldErrors("categories", errors.New("at least one category is required"))
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[int]bool, len(c.Categories))
	for i, cat := range c.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		if cat.ID <= 0 {
			errs = errs.Append(field+".id", fmt.Errorf("must be positive, got %d", cat.ID))
		}
		if seen[cat.ID] {
			errs = errs.Append(field+".id", fmt.Errorf("duplicate id %d", cat.ID))
		}
		seen[cat.ID] = true
		if strings.TrimSpace(cat.Name) == "" {
			errs = errs.Append(field+".name", errors.New("required"))
		}
	}
	return errs.ToError()
}

func (c *Config) isKnownCategory(id int) error {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return nil
		}
	}
	return fmt.Errorf("unknown category id %d", id)
}

func nonNegative(v int) error {
	if v < 0 {
		return fmt.Errorf("must not be negative, got %d", v)
	}
	return nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
