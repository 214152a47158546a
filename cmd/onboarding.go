package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"caltrack/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
)

// OnboardingSettings records whether the first-run questions were answered.
type OnboardingSettings struct {
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

func onboardingPath(dataDir string) string {
	return filepath.Join(dataDir, "onboarding.json")
}

func loadOnboardingSettings(dataDir string) (OnboardingSettings, error) {
	data, err := os.ReadFile(onboardingPath(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return OnboardingSettings{}, nil
		}
		return OnboardingSettings{}, err
	}

	var settings OnboardingSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return OnboardingSettings{}, err
	}
	return settings, nil
}

func saveOnboardingSettings(dataDir string, settings OnboardingSettings) error {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(onboardingPath(dataDir), data, 0o600)
}

// shouldRunOnboarding is true on the first interactive run when no config
// file exists yet.
func shouldRunOnboarding(settings OnboardingSettings, configPath string) bool {
	if settings.Completed {
		return false
	}
	if _, err := os.Stat(configPath); err == nil {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// onboardingAnswers are the values collected by the first-run form.
type onboardingAnswers struct {
	DailyGoal       string
	DefaultCategory int
}

// RunOnboarding asks for the daily goal and default category on first run
// and writes them to the config file. Aborting the form leaves everything
// untouched so the questions come back next time.
func RunOnboarding(flags *Flags) error {
	settings, err := loadOnboardingSettings(flags.DataDir)
	if err != nil {
		return fmt.Errorf("load onboarding settings: %w", err)
	}
	if !shouldRunOnboarding(settings, flags.ConfigPath) {
		return nil
	}

	answers := onboardingAnswers{
		DailyGoal:       "2000",
		DefaultCategory: flags.Config.DefaultCategory,
	}

	options := make([]huh.Option[int], 0, len(flags.Config.Categories))
	for _, c := range flags.Config.Categories {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to caltrack").
				Description("A couple of questions before your first entry."),
			huh.NewInput().
				Title("Daily calorie goal").
				Description("Net calories per day, 0 to turn the goal off").
				Validate(validateGoal).
				Value(&answers.DailyGoal),
			huh.NewSelect[int]().
				Title("Default category").
				Description("Preselected when logging a new activity").
				Options(options...).
				Value(&answers.DefaultCategory),
		),
	).WithTheme(huh.ThemeCharm()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			log.Info().Msg("onboarding aborted")
			return nil
		}
		return fmt.Errorf("onboarding form: %w", err)
	}

	return completeOnboarding(flags, answers, time.Now())
}

// completeOnboarding writes the answers to the config file and marks
// onboarding as done.
func completeOnboarding(flags *Flags, answers onboardingAnswers, now time.Time) error {
	goal, err := strconv.Atoi(strings.TrimSpace(answers.DailyGoal))
	if err != nil {
		return fmt.Errorf("daily goal: %w", err)
	}

	cfg := *flags.Config
	cfg.DailyGoal = goal
	cfg.DefaultCategory = answers.DefaultCategory
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid onboarding answers: %w", err)
	}

	if err := config.Save(flags.ConfigPath, cfg); err != nil {
		return err
	}
	flags.Config = &cfg

	if err := saveOnboardingSettings(flags.DataDir, OnboardingSettings{Completed: true, CompletedAt: now.UTC()}); err != nil {
		return fmt.Errorf("save onboarding settings: %w", err)
	}

	log.Info().Int("daily_goal", goal).Int("default_category", cfg.DefaultCategory).Msg("onboarding complete")
	return nil
}

func validateGoal(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 0 {
		return errors.New("goal cannot be negative")
	}
	return nil
}
