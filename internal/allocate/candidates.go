package allocate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/queue"
	"github.com/emberflow/ember/internal/score"
	"github.com/emberflow/ember/internal/store"
)

// goalWork is one active goal's plannable work: tasks in queue order (so skip
// rotation carries into selection), falling back to progression order for
// anything the cache does not cover; units in insertion order, complete units
// and archived tasks filtered out.
type goalWork struct {
	goal       *domain.Goal
	candidates []score.Candidate
}

// gather collects plannable candidates for every active goal. Duplicate
// capabilities are deduplicated across the whole set (first in queue order
// wins); records that fail to load are skipped with a warning, never
// allowed to abort the planning pass.
func gather(ctx context.Context, s store.Store, logger zerolog.Logger) ([]goalWork, error) {
	goals, err := s.ListActiveGoals(ctx)
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to list active goals")
	}

	// The queue cache feeds rotation and perceived effort. It is rebuildable,
	// so a read failure degrades to progression order rather than aborting.
	entries, err := s.LoadQueue(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("planning without the task queue cache")
		entries = nil
	}
	positions := queue.Positions(entries)
	efforts := queue.Efforts(entries)

	seenCapability := make(map[string]bool)
	work := make([]goalWork, 0, len(goals))

	for _, goal := range goals {
		tasks, err := s.ListTasksByGoal(ctx, goal.ID)
		if err != nil {
			logger.Warn().Err(err).Str("goal_id", goal.ID).Msg("skipping goal with unreadable tasks")
			continue
		}
		queue.OrderTasks(tasks, positions)
		gw := goalWork{goal: goal}
		for _, task := range tasks {
			if !task.IsPlannable() {
				continue
			}
			units, err := s.ListWorkUnitsByTask(ctx, task.ID)
			if err != nil {
				logger.Warn().Err(err).Str("task_id", task.ID).Msg("skipping task with unreadable work units")
				continue
			}
			for _, unit := range units {
				if unit.EffectivelyComplete() {
					continue
				}
				if unit.TaskID != task.ID {
					// Integrity violation from a partial write; filter, don't abort.
					logger.Warn().Str("unit_id", unit.ID).Str("task_id", task.ID).Msg("skipping work unit with mismatched parent")
					continue
				}
				if unit.CapabilityID != "" {
					if seenCapability[unit.CapabilityID] {
						continue
					}
					seenCapability[unit.CapabilityID] = true
				}
				gw.candidates = append(gw.candidates, score.Candidate{
					Unit: unit, Task: task, Goal: goal, Effort: efforts[task.ID],
				})
			}
		}
		work = append(work, gw)
	}
	return work, nil
}

// flatten concatenates all goals' candidates in goal order.
func flatten(work []goalWork) []score.Candidate {
	var out []score.Candidate
	for i := range work {
		out = append(out, work[i].candidates...)
	}
	return out
}
