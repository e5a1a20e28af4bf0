package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberflow/ember/internal/decompose"
	"github.com/emberflow/ember/internal/tui"
)

// newBreakdownCmd decomposes an existing goal into tasks and work units,
// for goals created with --no-breakdown or that need another pass.
func newBreakdownCmd(ac *appContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "breakdown <goal-id>",
		Short: "Break a goal into daily-sized steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			goal, err := d.store.GetGoal(ctx, args[0])
			if err != nil {
				return err
			}

			b, err := ac.decomposer().Decompose(ctx, goal)
			if err != nil {
				return err
			}

			if ac.flags.JSONMode() && dryRun {
				return d.out.JSON(b)
			}
			if !ac.flags.JSONMode() {
				renderBreakdown(cmd, b)
			}
			if dryRun {
				d.out.Info("dry run; nothing saved")
				return nil
			}

			tasks, err := decompose.Apply(ctx, d.store, d.clock, goal, b)
			if err != nil {
				return err
			}
			if _, err := d.queue.Rehydrate(ctx); err != nil {
				return err
			}

			if ac.flags.JSONMode() {
				return d.out.JSON(tasks)
			}
			if b.Source == "template" {
				d.out.Warning("the assistant was unavailable, so a starter template was used")
			}
			d.out.Success(fmt.Sprintf("added %d tasks under %q", len(tasks), goal.Title))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the breakdown without saving it")
	return cmd
}

// renderBreakdown prints the proposed tasks and their steps.
func renderBreakdown(cmd *cobra.Command, b *decompose.Breakdown) {
	w := cmd.OutOrStdout()
	table := tui.NewTable(w, []tui.TableColumn{
		{Name: "TASK", Width: 32},
		{Name: "STEP", Width: 36},
		{Name: "MIN", Width: 4, Align: tui.AlignRight},
		{Name: "KIND", Width: 9},
	})
	table.WriteHeader()
	for _, t := range b.Tasks {
		task := t.Title
		for _, u := range t.Units {
			table.WriteRow(task, u.Title, fmt.Sprintf("%d", u.EstimatedMinutes), u.Kind)
			task = ""
		}
	}
}
