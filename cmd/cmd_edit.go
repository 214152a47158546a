package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"caltrack/internal/editor"
	"caltrack/internal/state"

	"github.com/urfave/cli/v3"
)

type EditCmd struct {
	flags *Flags

	// flags
	set []string
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	flags := fieldFlags(map[editor.Field]string{
		editor.FieldCategory: "new category name or id",
		editor.FieldName:     "new name",
		editor.FieldCalories: "new calories",
	})
	flags = append(flags, &cli.StringSliceFlag{
		Name:        "set",
		Usage:       "field=value, may be repeated (fields: category, name, calories)",
		Destination: &cmd.set,
	})

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Change a logged activity",
		UsageText: "caltrack edit [--category C] [--name N] [--calories K] [--set field=value] <id>",
		Description: `Selects the activity and loads it into the editor, then applies only
the fields given on the command line and saves it again.`,
		Flags:  flags,
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(_ context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("activity id is required")
	}

	values := fieldValues(c)
	for _, pair := range cmd.set {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("--set %q: expected field=value", pair)
		}
		field, err := editor.ParseField(key)
		if err != nil {
			return fmt.Errorf("--set %q: %w", pair, err)
		}
		values[field] = value
	}

	s, err := newSession(cmd.flags)
	if err != nil {
		return err
	}

	if _, ok := s.store.State().Find(id); !ok {
		return fmt.Errorf("%w: %s", editor.ErrSelectionNotFound, id)
	}

	// The controller picks the selection up through its store listener.
	s.store.Dispatch(state.SetActiveID{ID: id})
	if mode := s.editor.Mode(); !mode.IsEditing() || mode.OriginalID != id {
		return fmt.Errorf("load %s into editor", id)
	}

	if err := s.apply(values); err != nil {
		return err
	}

	saved, err := s.submit(c.Root().ErrWriter)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "updated %s\n", saved.ID)
	return nil
}
