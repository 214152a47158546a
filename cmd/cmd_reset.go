package cmd

import (
	"context"
	"fmt"

	"caltrack/internal/state"

	"github.com/urfave/cli/v3"
)

type ResetCmd struct {
	flags *Flags
}

// NewResetCmd creates a new reset command
func NewResetCmd(flags *Flags) *ResetCmd {
	return &ResetCmd{flags: flags}
}

// Register adds the reset command to the application
func (cmd *ResetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "reset",
		Usage:     "Delete every logged activity",
		UsageText: "caltrack reset",
		Action:    cmd.run,
	})

	return app
}

func (cmd *ResetCmd) run(_ context.Context, c *cli.Command) error {
	s, err := newSession(cmd.flags)
	if err != nil {
		return err
	}

	count := len(s.store.State().Activities)
	s.Dispatch(state.RestartApp{})
	if err := s.flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "removed %d activities\n", count)
	return nil
}
