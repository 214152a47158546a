package cmd

import (
	"context"
	"fmt"

	"caltrack/internal/editor"
	"caltrack/internal/model"
	"caltrack/internal/util"

	"github.com/urfave/cli/v3"
)

type AddCmd struct {
	flags *Flags
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Log a food or exercise activity",
		UsageText: "caltrack add [--category food|exercise|<id>] --name NAME --calories N",
		Description: `Logs a new activity. The category defaults to the configured default
category. Invalid input prints the failing fields and nothing is written.`,
		Flags: fieldFlags(map[editor.Field]string{
			editor.FieldCategory: "category name or id",
			editor.FieldName:     "what was eaten or done",
			editor.FieldCalories: "calories, a positive whole number",
		}),
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(_ context.Context, c *cli.Command) error {
	s, err := newSession(cmd.flags)
	if err != nil {
		return err
	}

	if err := s.apply(fieldValues(c)); err != nil {
		return err
	}

	saved, err := s.submit(c.Root().ErrWriter)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "added %s (%s, %s)\n",
		saved.ID, model.CategoryName(cmd.flags.Config.Categories, saved.Category), util.FormatCalories(saved.Calories))
	return nil
}
