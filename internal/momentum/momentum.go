// Package momentum derives per-goal engagement scores from completion history.
//
// Momentum rewards recent activity far more than cumulative activity: the
// product wants a "don't lose your streak" feel, not a "finish what's
// biggest" one. Snapshots are recomputed from work unit history on every
// request and never cached, so a completion recorded a second ago already
// counts.
package momentum

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/store"
)

// Scoring bonuses and penalties. Worked-today and worked-yesterday are
// mutually exclusive, not additive.
const (
	workedTodayBonus     = 30
	workedYesterdayBonus = 20
	perRecentCompletion  = 5
	nearDoneBonus        = 20
	neglectPenalty       = 15
	recentWindowDays     = 7
)

// Tracker computes momentum snapshots from the store.
type Tracker struct {
	store  store.Store
	clock  clock.Clock
	logger zerolog.Logger
}

// NewTracker creates a Tracker. A nil clock defaults to the real clock.
func NewTracker(s store.Store, c clock.Clock, logger zerolog.Logger) *Tracker {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Tracker{store: s, clock: c, logger: logger}
}

// Calculate builds the momentum snapshot for one goal by walking every work
// unit under every task. Orphaned or unreadable children are skipped with a
// warning; a few bad records never abort a planning pass.
func (t *Tracker) Calculate(ctx context.Context, goal *domain.Goal) (*domain.GoalMomentum, error) {
	if goal == nil {
		return nil, emberrors.ErrEmptyValue
	}

	tasks, err := t.store.ListTasksByGoal(ctx, goal.ID)
	if err != nil {
		return nil, emberrors.Wrapf(err, "failed to list tasks for goal %s", goal.ID)
	}

	now := t.clock.Now()
	m := &domain.GoalMomentum{GoalID: goal.ID}

	for _, task := range tasks {
		units, err := t.store.ListWorkUnitsByTask(ctx, task.ID)
		if err != nil {
			t.logger.Warn().Err(err).Str("task_id", task.ID).Msg("skipping unreadable work units")
			continue
		}
		for _, unit := range units {
			m.TotalWorkUnits++
			if !unit.EffectivelyComplete() {
				continue
			}
			m.TotalCompleted++
			if unit.LastCompletedAt == nil {
				continue
			}
			done := *unit.LastCompletedAt
			if done.After(m.LastWorkedAt) {
				m.LastWorkedAt = done
			}
			if clock.DaysBetween(done, now) < recentWindowDays {
				m.CompletionsLast7Days++
			}
		}
	}

	if m.TotalWorkUnits > 0 {
		m.CompletionPercentage = float64(m.TotalCompleted) / float64(m.TotalWorkUnits)
	}
	if m.LastWorkedAt.IsZero() {
		// Finite sentinel: large enough to trip every staleness rule, never
		// infinity leaking into arithmetic.
		m.DaysSinceLastWork = constants.NeverWorkedSentinelDays
	} else {
		m.DaysSinceLastWork = clock.DaysBetween(m.LastWorkedAt, now)
	}

	m.Score = scoreOf(m)
	return m, nil
}

// scoreOf applies the momentum formula: base 50, recency bonuses, trailing
// completions, near-done bonus, neglect penalty, floored at zero.
func scoreOf(m *domain.GoalMomentum) int {
	s := constants.MomentumBase
	switch m.DaysSinceLastWork {
	case 0:
		s += workedTodayBonus
	case 1:
		s += workedYesterdayBonus
	}
	s += perRecentCompletion * m.CompletionsLast7Days
	if m.CompletionPercentage >= constants.NearDoneFraction {
		s += nearDoneBonus
	}
	if m.DaysSinceLastWork >= constants.NeglectDays {
		s -= neglectPenalty
	}
	if s < 0 {
		s = 0
	}
	return s
}

// NeedsAttention reports whether the goal is neglected but not nearly done:
// idle for three or more days with under 80% of its units complete. Such
// goals are guaranteed a representation slot when possible.
func NeedsAttention(m *domain.GoalMomentum) bool {
	return m.DaysSinceLastWork >= constants.NeglectDays &&
		m.CompletionPercentage < constants.NearDoneFraction
}

// All computes momentum for every active goal, in goal creation order so the
// subsequent stable sort is deterministic.
func (t *Tracker) All(ctx context.Context) ([]*domain.GoalMomentum, error) {
	goals, err := t.store.ListActiveGoals(ctx)
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to list active goals")
	}
	snapshots := make([]*domain.GoalMomentum, 0, len(goals))
	for _, goal := range goals {
		m, err := t.Calculate(ctx, goal)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, m)
	}
	return snapshots, nil
}

// SortByMomentum orders snapshots by descending score. The sort is stable:
// ties keep their incoming (creation) order.
func SortByMomentum(snapshots []*domain.GoalMomentum) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Score > snapshots[j].Score
	})
}
