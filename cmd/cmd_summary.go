package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"caltrack/internal/util"

	"github.com/urfave/cli/v3"
)

type SummaryCmd struct {
	flags *Flags
}

// NewSummaryCmd creates a new summary command
func NewSummaryCmd(flags *Flags) *SummaryCmd {
	return &SummaryCmd{flags: flags}
}

// Register adds the summary command to the application
func (cmd *SummaryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "summary",
		Usage:     "Show calorie totals",
		UsageText: "caltrack summary",
		Description: `Totals food as consumed and exercise as burned. When a daily goal is
configured the remaining budget is shown as well.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *SummaryCmd) run(_ context.Context, c *cli.Command) error {
	s, err := newSession(cmd.flags)
	if err != nil {
		return err
	}

	sum := s.store.State().Summary(cmd.flags.Config.DailyGoal)

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "activities\t%d\n", sum.Count)
	_, _ = fmt.Fprintf(w, "consumed\t%s\n", util.FormatCalories(sum.Consumed))
	_, _ = fmt.Fprintf(w, "burned\t%s\n", util.FormatCalories(sum.Burned))
	_, _ = fmt.Fprintf(w, "net\t%s kcal\n", util.FormatSignedCalories(sum.Net))
	if sum.HasGoal() {
		_, _ = fmt.Fprintf(w, "goal\t%s\n", util.FormatCalories(sum.Goal))
		if sum.Remaining < 0 {
			_, _ = fmt.Fprintf(w, "over goal by\t%s\n", util.FormatCalories(-sum.Remaining))
		} else {
			_, _ = fmt.Fprintf(w, "remaining\t%s\n", util.FormatCalories(sum.Remaining))
		}
	}
	return w.Flush()
}
