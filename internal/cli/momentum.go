package cli

import (
	"github.com/spf13/cobra"

	"github.com/emberflow/ember/internal/domain"
	"github.com/emberflow/ember/internal/momentum"
	"github.com/emberflow/ember/internal/tui"
)

// newMomentumCmd shows each active goal's momentum, hottest first.
func newMomentumCmd(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "momentum",
		Short: "Show which goals are warm and which need attention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			snapshots, err := d.tracker.All(ctx)
			if err != nil {
				return err
			}
			momentum.SortByMomentum(snapshots)

			if ac.flags.JSONMode() {
				return d.out.JSON(snapshots)
			}
			if len(snapshots) == 0 {
				d.out.Info("no active goals to measure")
				return nil
			}

			goals := make([]*domain.Goal, 0, len(snapshots))
			rows := make([]domain.GoalMomentum, 0, len(snapshots))
			for _, snap := range snapshots {
				g, err := d.store.GetGoal(ctx, snap.GoalID)
				if err != nil {
					ac.logger.Warn().Err(err).Str("goal_id", snap.GoalID).Msg("skipping unreadable goal")
					continue
				}
				goals = append(goals, g)
				rows = append(rows, *snap)
			}
			tui.RenderMomentum(cmd.OutOrStdout(), goals, rows)
			return nil
		},
	}
}
