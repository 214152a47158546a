package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"caltrack/internal/db"
	"caltrack/internal/model"
	"caltrack/internal/util"

	"github.com/urfave/cli/v3"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	filter     string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List logged activities",
		UsageText: "caltrack ls [--json] [--filter TEXT]",
		Description: `Displays a table of activities in the order they were logged.

Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "only show activities whose name contains TEXT",
				Destination: &cmd.filter,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(_ context.Context, c *cli.Command) error {
	activities, err := db.ListActivities(cmd.flags.DB, cmd.filter)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}

	out := c.Root().Writer
	categories := cmd.flags.Config.Categories

	if cmd.jsonOutput {
		enc := json.NewEncoder(out)
		for _, a := range activities {
			if err := enc.Encode(newActivityInfo(a, categories)); err != nil {
				return fmt.Errorf("encode activity: %w", err)
			}
		}
		return nil
	}

	if len(activities) == 0 {
		_, _ = fmt.Fprintln(c.Root().ErrWriter, "No activities logged")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCATEGORY\tNAME\tCALORIES\tADDED")
	for _, a := range activities {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			model.CategoryName(categories, a.Category),
			util.TruncateString(a.Name, 40),
			util.FormatCalories(a.Calories),
			util.FormatDateHuman(a.CreatedAt),
		)
	}
	return w.Flush()
}

// activityInfo is the JSON output format for caltrack ls --json.
type activityInfo struct {
	ID        string    `json:"id"`
	Category  int       `json:"category"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newActivityInfo(a model.Activity, categories []model.Category) activityInfo {
	return activityInfo{
		ID:        a.ID,
		Category:  a.Category,
		Kind:      model.CategoryName(categories, a.Category),
		Name:      a.Name,
		Calories:  a.Calories,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
