package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberflow/ember/internal/clock"
)

// newWrapCmd closes out the day: it tallies what got done against what was
// planned and lets the daily target drift up or down accordingly.
func newWrapCmd(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "wrap",
		Short: "Wrap up the day and adjust tomorrow's pace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			now := d.clock.Now()

			target, err := d.pace.Target(ctx)
			if err != nil {
				return err
			}

			// Score the day against the plan actually offered. With no plan
			// built today, the adaptive target stands in.
			planned, recorded, err := d.pace.PlannedFor(ctx, now)
			if err != nil {
				return err
			}
			if !recorded {
				planned = target
			}
			completed, err := countCompletedToday(ctx, d)
			if err != nil {
				return err
			}

			state, err := d.pace.RecordDay(ctx, now, planned, completed)
			if err != nil {
				return err
			}

			if ac.flags.JSONMode() {
				return d.out.JSON(map[string]any{
					"planned":     planned,
					"completed":   completed,
					"next_target": state.DailyTarget,
				})
			}
			d.out.Success(fmt.Sprintf("day wrapped: %d of %d planned steps done", completed, planned))
			switch {
			case state.DailyTarget > target:
				d.out.Info(fmt.Sprintf("strong stretch — tomorrow holds %d steps", state.DailyTarget))
			case state.DailyTarget < target:
				d.out.Info(fmt.Sprintf("easing off — tomorrow holds %d steps", state.DailyTarget))
			default:
				d.out.Info(fmt.Sprintf("tomorrow holds %d steps, same as today", state.DailyTarget))
			}
			return nil
		},
	}
}

// countCompletedToday counts work units finished since midnight across all
// active goals.
func countCompletedToday(ctx context.Context, d *deps) (int, error) {
	now := d.clock.Now()
	goals, err := d.store.ListGoals(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, g := range goals {
		if !g.IsActive() {
			continue
		}
		tasks, err := d.store.ListTasksByGoal(ctx, g.ID)
		if err != nil {
			return 0, err
		}
		for _, t := range tasks {
			units, err := d.store.ListWorkUnitsByTask(ctx, t.ID)
			if err != nil {
				return 0, err
			}
			for _, u := range units {
				if u.LastCompletedAt != nil && clock.SameDay(*u.LastCompletedAt, now) && u.EffectivelyComplete() {
					count++
				}
			}
		}
	}
	return count, nil
}
