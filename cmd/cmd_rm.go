package cmd

import (
	"context"
	"errors"
	"fmt"

	"caltrack/internal/editor"
	"caltrack/internal/state"

	"github.com/urfave/cli/v3"
)

type RmCmd struct {
	flags *Flags
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete a logged activity",
		UsageText: "caltrack rm <id>",
		Action:    cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(_ context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("activity id is required")
	}

	s, err := newSession(cmd.flags)
	if err != nil {
		return err
	}

	removed, ok := s.store.State().Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", editor.ErrSelectionNotFound, id)
	}

	s.Dispatch(state.DeleteActivity{ID: id})
	if err := s.flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "removed %s (%s)\n", removed.ID, removed.Name)
	return nil
}
