package decompose

import (
	"context"
	"time"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/store"
)

// Apply materializes a breakdown under the goal: one task per draft, in
// order after any existing tasks, each with its work units in order. A task
// draft without an explicit estimate inherits the sum of its units.
func Apply(ctx context.Context, s store.Store, c clock.Clock, goal *domain.Goal, b *Breakdown) ([]*domain.Task, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}
	if c == nil {
		c = clock.RealClock{}
	}

	existing, err := s.ListTasksByGoal(ctx, goal.ID)
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to list existing tasks")
	}
	nextOrder := len(existing)

	now := c.Now()
	created := make([]*domain.Task, 0, len(b.Tasks))
	for i, draft := range b.Tasks {
		estimate := draft.EstimatedTotalMinutes
		if estimate == 0 {
			for _, u := range draft.Units {
				estimate += u.EstimatedMinutes
			}
		}
		task := &domain.Task{
			ID:                    domain.NewTaskID(),
			GoalID:                goal.ID,
			Title:                 draft.Title,
			EstimatedTotalMinutes: estimate,
			Order:                 nextOrder + i,
			State:                 constants.TaskStateActive,
			CreatedAt:             now,
			UpdatedAt:             now,
			SchemaVersion:         constants.SchemaVersion,
		}
		if err := s.CreateTask(ctx, task); err != nil {
			return created, emberrors.Wrapf(err, "failed to create task %q", draft.Title)
		}

		for j, ud := range draft.Units {
			unit := &domain.WorkUnit{
				ID:                    domain.NewUnitID(),
				TaskID:                task.ID,
				Title:                 ud.Title,
				EstimatedTotalMinutes: ud.EstimatedMinutes,
				Kind:                  kindOrDefault(ud.Kind),
				CapabilityID:          ud.CapabilityID,
				FirstAction:           ud.FirstAction,
				SuccessSignal:         ud.SuccessSignal,
				// Millisecond offsets pin insertion order for stores that
				// sort by creation time.
				CreatedAt:     now.Add(time.Duration(j) * time.Millisecond),
				UpdatedAt:     now,
				SchemaVersion: constants.SchemaVersion,
			}
			if err := s.CreateWorkUnit(ctx, unit); err != nil {
				return created, emberrors.Wrapf(err, "failed to create work unit %q", ud.Title)
			}
		}
		created = append(created, task)
	}
	return created, nil
}
