package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"caltrack/internal/logging"
	"caltrack/internal/state"
	"caltrack/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config
	store := state.NewStore(state.State{}, logging.Component("store"))

	m := ui.New(ui.Options{
		DB:              cmd.flags.DB,
		Store:           store,
		Categories:      cfg.Categories,
		DefaultCategory: cfg.DefaultCategory,
		DailyGoal:       cfg.DailyGoal,
		PrefsPath:       filepath.Join(cmd.flags.DataDir, ui.PrefsFileName),
		Logger:          logging.Component("tui"),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
