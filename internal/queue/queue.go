// Package queue maintains the task queue cache and turns skip behavior into
// pacing feedback: repeated skips surface advisory target date extensions
// and quietly lower an item's perceived effort tier.
package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/store"
)

// SkipOutcome reports what one skip changed and what it suggests. The
// suggestion is advisory only: the engine never moves a target date itself.
type SkipOutcome struct {
	// Entry is the queue entry after the skip was applied.
	Entry domain.QueueEntry

	// SuggestExtension is set when the skip pattern indicates the goal's
	// target date is too ambitious.
	SuggestExtension bool

	// ExtensionDays is the proposed extension (14 or 30), meaningful only
	// when SuggestExtension is set.
	ExtensionDays int

	// ProposedTarget is the goal's target date plus the extension, nil when
	// no suggestion applies or the goal has no target date.
	ProposedTarget *time.Time

	// Downgraded is set when this skip crossed the effort downgrade
	// threshold.
	Downgraded bool
}

// Manager owns queue mutation and rehydration.
type Manager struct {
	store  store.Store
	clock  clock.Clock
	logger zerolog.Logger
}

// NewManager wires a queue manager. A nil clock falls back to wall time.
func NewManager(s store.Store, c clock.Clock, logger zerolog.Logger) *Manager {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Manager{store: s, clock: c, logger: logger}
}

// HandleSkip records that the user declined the task's work today: the skip
// count rises, the entry rotates to the back of the queue, and thresholds
// are evaluated. The task itself is never touched except for a one-way
// effort downgrade at the persistent-skip threshold.
func (m *Manager) HandleSkip(ctx context.Context, taskID string) (*SkipOutcome, error) {
	task, err := m.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	goal, err := m.store.GetGoal(ctx, task.GoalID)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	outcome := &SkipOutcome{}

	_, err = m.store.UpdateQueue(ctx, func(entries []domain.QueueEntry) ([]domain.QueueEntry, error) {
		idx := indexOf(entries, taskID)
		if idx < 0 {
			entries = append(entries, m.entryFor(task, goal, now))
			idx = len(entries) - 1
		}

		e := entries[idx]
		e.SkipCount++
		e.LastSkippedAt = &now
		if e.SkipCount >= constants.SkipDowngradeThreshold {
			next := e.Effort.Downgrade()
			if next != e.Effort {
				outcome.Downgraded = true
				e.Effort = next
			}
		}

		// Rotate the skipped entry to the back so tomorrow leads with
		// something else.
		entries = append(append(entries[:idx], entries[idx+1:]...), e)

		// Advisory extension: this item is stuck and the whole goal is
		// being avoided.
		if e.SkipCount >= constants.SkipAdvisoryThreshold &&
			goalAverageSkips(entries, goal.ID) >= constants.SkipGoalAverageThreshold {
			outcome.SuggestExtension = true
			outcome.ExtensionDays = extensionFor(goal, now)
			if goal.TargetDate != nil {
				proposed := goal.TargetDate.AddDate(0, 0, outcome.ExtensionDays)
				outcome.ProposedTarget = &proposed
			}
		}

		outcome.Entry = e
		return entries, nil
	})
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to update queue")
	}

	if outcome.Downgraded {
		m.logger.Info().
			Str("task_id", taskID).
			Str("effort", outcome.Entry.Effort.String()).
			Int("skips", outcome.Entry.SkipCount).
			Msg("task effort downgraded after repeated skips")
	}
	return outcome, nil
}

// Rehydrate rebuilds the queue cache from the goal and task tables: stale
// entries (archived tasks, drained or paused goals, complete work) drop out,
// new plannable tasks join at the back, and waiting days refresh. Skip
// history on surviving entries is preserved.
func (m *Manager) Rehydrate(ctx context.Context) ([]domain.QueueEntry, error) {
	goals, err := m.store.ListActiveGoals(ctx)
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to list active goals")
	}

	now := m.clock.Now()
	type liveTask struct {
		task *domain.Task
		goal *domain.Goal
	}
	live := make(map[string]liveTask)
	var order []string

	for _, goal := range goals {
		tasks, err := m.store.ListTasksByGoal(ctx, goal.ID)
		if err != nil {
			m.logger.Warn().Err(err).Str("goal_id", goal.ID).Msg("skipping goal with unreadable tasks")
			continue
		}
		for _, task := range tasks {
			if !task.IsPlannable() {
				continue
			}
			live[task.ID] = liveTask{task: task, goal: goal}
			order = append(order, task.ID)
		}
	}

	return m.store.UpdateQueue(ctx, func(entries []domain.QueueEntry) ([]domain.QueueEntry, error) {
		kept := make([]domain.QueueEntry, 0, len(order))
		seen := make(map[string]bool, len(order))

		// Existing entries keep their queue position and skip history.
		for _, e := range entries {
			lt, ok := live[e.TaskID]
			if !ok {
				continue
			}
			e.GoalID = lt.goal.ID
			e.GoalTargetDate = lt.goal.TargetDate
			e.WaitingDays = clock.DaysBetween(e.QueuedAt, now)
			kept = append(kept, e)
			seen[e.TaskID] = true
		}

		// New plannable tasks join at the back in progression order.
		for _, id := range order {
			if seen[id] {
				continue
			}
			lt := live[id]
			kept = append(kept, m.entryFor(lt.task, lt.goal, now))
		}
		return kept, nil
	})
}

// entryFor builds a fresh queue entry for a task.
func (m *Manager) entryFor(task *domain.Task, goal *domain.Goal, now time.Time) domain.QueueEntry {
	return domain.QueueEntry{
		TaskID:         task.ID,
		GoalID:         goal.ID,
		Effort:         domain.EffortFor(task.RemainingMinutes()),
		GoalTargetDate: goal.TargetDate,
		QueuedAt:       now,
	}
}

// goalAverageSkips is the mean skip count across the goal's queued tasks.
func goalAverageSkips(entries []domain.QueueEntry, goalID string) float64 {
	total, count := 0, 0
	for _, e := range entries {
		if e.GoalID == goalID {
			total += e.SkipCount
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// extensionFor picks the proposed extension size: near targets get a gentle
// two weeks, far or undated targets a month.
func extensionFor(goal *domain.Goal, now time.Time) int {
	if days, ok := goal.DaysUntilTarget(now); ok && days < constants.NearTargetDays {
		return constants.ShortExtensionDays
	}
	return constants.LongExtensionDays
}

func indexOf(entries []domain.QueueEntry, taskID string) int {
	for i := range entries {
		if entries[i].TaskID == taskID {
			return i
		}
	}
	return -1
}
