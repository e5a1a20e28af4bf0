package plan

import (
	"context"

	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/momentum"
	"github.com/emberflow/ember/internal/queue"
)

// Next returns the single most natural slice to work on right now, or nil
// when nothing is pending. Slices whose unit already appears in existing are
// passed over, so topping up a plan never recommends a duplicate; pass nil
// when there is no plan to top up. It is a pure read: calling it repeatedly
// with the same arguments and without completing anything returns the same
// slice every time. Goals are visited in momentum rank order, tasks in queue
// order (progression order when the cache is silent), units in insertion
// order; the first incomplete, unplanned unit wins.
func (b *Builder) Next(ctx context.Context, existing []domain.Slice) (*domain.Slice, error) {
	snapshots, err := b.tracker.All(ctx)
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to rank goals")
	}
	momentum.SortByMomentum(snapshots)

	inPlan := make(map[string]bool, len(existing))
	for _, sl := range existing {
		inPlan[sl.Unit.ID] = true
	}

	entries, err := b.store.LoadQueue(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("recommending without the task queue cache")
		entries = nil
	}
	positions := queue.Positions(entries)

	for _, snap := range snapshots {
		goal, err := b.store.GetGoal(ctx, snap.GoalID)
		if err != nil {
			b.logger.Warn().Err(err).Str("goal_id", snap.GoalID).Msg("skipping unreadable goal")
			continue
		}
		tasks, err := b.store.ListTasksByGoal(ctx, goal.ID)
		if err != nil {
			b.logger.Warn().Err(err).Str("goal_id", goal.ID).Msg("skipping goal with unreadable tasks")
			continue
		}
		queue.OrderTasks(tasks, positions)
		for _, task := range tasks {
			if !task.IsPlannable() {
				continue
			}
			units, err := b.store.ListWorkUnitsByTask(ctx, task.ID)
			if err != nil {
				b.logger.Warn().Err(err).Str("task_id", task.ID).Msg("skipping task with unreadable work units")
				continue
			}
			for _, unit := range units {
				if unit.EffectivelyComplete() || inPlan[unit.ID] {
					continue
				}
				sl := domain.NewSlice(unit, task, goal)
				return &sl, nil
			}
		}
	}
	return nil, nil
}
