package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberflow/ember/internal/constants"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// newDoneCmd records progress on a work unit. Without --minutes the unit is
// credited in full; with it, a partial session is logged instead.
func newDoneCmd(ac *appContext) *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "done <unit-id>",
		Short: "Mark a step done (or log partial minutes on it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			unit, err := d.store.GetWorkUnit(ctx, args[0])
			if err != nil {
				return err
			}
			task, err := d.store.GetTask(ctx, unit.TaskID)
			if err != nil {
				return err
			}

			credit := unit.RemainingMinutes()
			if cmd.Flags().Changed("minutes") {
				if minutes <= 0 {
					return fmt.Errorf("%w: --minutes", emberrors.ErrNegativeMinutes)
				}
				credit = minutes
				if credit > unit.RemainingMinutes() {
					credit = unit.RemainingMinutes()
				}
			}
			if credit == 0 {
				d.out.Info("that step is already done")
				return nil
			}

			now := d.clock.Now()
			unit.CompletedMinutes += credit
			unit.LastCompletedAt = &now
			unit.UpdatedAt = now
			if err := d.store.UpdateWorkUnit(ctx, unit); err != nil {
				return err
			}

			// Progress drains the parent reservoir too; overshoot is clamped.
			task.CompletedMinutes += credit
			if task.CompletedMinutes > task.EstimatedTotalMinutes {
				task.CompletedMinutes = task.EstimatedTotalMinutes
			}
			task.UpdatedAt = now
			if err := d.store.UpdateTask(ctx, task); err != nil {
				return err
			}

			drained := false
			if task.EffectivelyComplete() {
				if drained, err = maybeDrainGoal(ctx, d, task.GoalID); err != nil {
					return err
				}
			}

			if _, err := d.queue.Rehydrate(ctx); err != nil {
				return err
			}

			ac.logger.Info().
				Str("unit_id", unit.ID).
				Int("credited_minutes", credit).
				Bool("unit_complete", unit.EffectivelyComplete()).
				Msg("progress recorded")

			if ac.flags.JSONMode() {
				return d.out.JSON(unit)
			}
			switch {
			case unit.EffectivelyComplete() && task.EffectivelyComplete():
				d.out.Success(fmt.Sprintf("%q done — and that wraps up %q", unit.Title, task.Title))
			case unit.EffectivelyComplete():
				d.out.Success(fmt.Sprintf("%q done (+%d min)", unit.Title, credit))
			default:
				d.out.Success(fmt.Sprintf("logged %d min on %q (%d min left)", credit, unit.Title, unit.RemainingMinutes()))
			}
			if drained {
				d.out.Success("every task under that goal is finished — the goal is drained. Well done.")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "credit only this many minutes instead of the full step")
	return cmd
}

// maybeDrainGoal transitions the goal to drained when every active task
// under it is effectively complete. Lifelong goals never drain.
func maybeDrainGoal(ctx context.Context, d *deps, goalID string) (bool, error) {
	goal, err := d.store.GetGoal(ctx, goalID)
	if err != nil {
		return false, err
	}
	if !goal.IsActive() || !goal.CanDrain() {
		return false, nil
	}
	tasks, err := d.store.ListTasksByGoal(ctx, goalID)
	if err != nil {
		return false, err
	}
	for _, t := range tasks {
		if t.State == constants.TaskStateActive && !t.EffectivelyComplete() {
			return false, nil
		}
	}

	goal.Status = constants.GoalStatusDrained
	goal.UpdatedAt = d.clock.Now()
	if err := d.store.UpdateGoal(ctx, goal); err != nil {
		return false, err
	}
	return true, nil
}
