package cli

import (
	"github.com/spf13/cobra"

	"github.com/emberflow/ember/internal/plan"
	"github.com/emberflow/ember/internal/tui"
)

// newTodayCmd builds the daily plan. Slot allocation is the default; passing
// --minutes switches to the time-budgeted strategy.
func newTodayCmd(ac *appContext) *cobra.Command {
	var (
		minutes int
		shuffle bool
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's plan",
		Long: `Assemble today's slices from your active goals.

By default the plan holds a small number of steps sized by your recent
completion rate. With --minutes, it instead packs the most work that fits
the time you have.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}

			strategy := ac.slotStrategy(d)
			if cmd.Flags().Changed("minutes") {
				strategy = ac.timeStrategy(d)
				if minutes <= 0 {
					minutes = ac.cfg.Planner.DefaultMinutes
				}
			}

			p, err := ac.builder(d, strategy).Build(cmd.Context(), plan.Options{
				Minutes: minutes,
				Shuffle: shuffle,
				Seed:    seed,
			})
			if err != nil {
				return err
			}

			if ac.flags.JSONMode() {
				return d.out.JSON(p)
			}
			tui.RenderPlan(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "pack work into this many minutes instead of counting steps")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle the plan order")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed (0 uses the current time)")
	return cmd
}
