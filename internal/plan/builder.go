// Package plan turns allocation output into the user-facing daily plan and
// answers "what should I do right now" with a single next slice.
package plan

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/emberflow/ember/internal/allocate"
	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/momentum"
	"github.com/emberflow/ember/internal/pace"
	"github.com/emberflow/ember/internal/store"
)

// Empty-state messages. An empty plan is a valid steady state with its own
// encouragement, never an error.
const (
	// MsgNoActiveGoals shows when the user has nothing set up yet.
	MsgNoActiveGoals = "No active goals yet — take your time."

	// MsgAllComplete shows when every active goal's work is done.
	MsgAllComplete = "Everything on your plate is finished. Savor it."

	// MsgNothingFits shows when pending work exists but none of it fits the
	// requested budget.
	MsgNothingFits = "Nothing fits today's window. Try again with more minutes."
)

// Options tunes one plan build.
type Options struct {
	// Minutes, when positive, is the time budget handed to a time-based
	// strategy. Zero leaves the budget count-driven.
	Minutes int

	// Shuffle randomizes presentation order using Seed. Off by default;
	// plans are otherwise fully deterministic.
	Shuffle bool

	// Seed drives Shuffle. Ignored unless Shuffle is set.
	Seed int64
}

// Builder assembles daily plans from the store via an allocation strategy.
type Builder struct {
	store    store.Store
	tracker  *momentum.Tracker
	pace     *pace.Controller
	strategy allocate.Strategy
	clock    clock.Clock
	logger   zerolog.Logger
}

// NewBuilder wires a plan builder. A nil clock falls back to wall time.
func NewBuilder(s store.Store, tracker *momentum.Tracker, controller *pace.Controller, strategy allocate.Strategy, c clock.Clock, logger zerolog.Logger) *Builder {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Builder{
		store:    s,
		tracker:  tracker,
		pace:     controller,
		strategy: strategy,
		clock:    c,
		logger:   logger,
	}
}

// Build produces today's plan. The daily target count always comes from the
// adaptive controller; opts.Minutes additionally bounds time-based
// strategies.
func (b *Builder) Build(ctx context.Context, opts Options) (*domain.Plan, error) {
	now := b.clock.Now()
	p := &domain.Plan{
		Date: clock.StartOfDay(now),
		Metadata: domain.PlanMetadata{
			Strategy: b.strategy.Name(),
		},
	}

	goals, err := b.store.ListActiveGoals(ctx)
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to list active goals")
	}
	if len(goals) == 0 {
		p.Message = MsgNoActiveGoals
		return p, nil
	}

	target, err := b.pace.Target(ctx)
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to read daily target")
	}
	p.Metadata.TargetCount = target
	p.Metadata.BudgetMinutes = opts.Minutes

	slices, err := b.strategy.Allocate(ctx, allocate.Budget{
		TargetCount: target,
		Minutes:     opts.Minutes,
	})
	if err != nil {
		return nil, emberrors.Wrap(err, "allocation failed")
	}

	// Remember the plan's real size so wrap-up scores the day against what
	// was offered, not the target the allocator may have come up short of.
	// The plan itself stands even if the bookkeeping write fails.
	if err := b.pace.RecordPlanned(ctx, now, len(slices)); err != nil {
		b.logger.Warn().Err(err).Msg("failed to record plan size")
	}

	if len(slices) == 0 {
		pending, err := b.hasPendingWork(ctx, goals)
		if err != nil {
			return nil, err
		}
		if pending {
			p.Message = MsgNothingFits
		} else {
			p.Message = MsgAllComplete
		}
		return p, nil
	}

	if opts.Shuffle {
		allocate.Shuffle(slices, opts.Seed)
	}

	p.Slices = slices
	p.Metadata.GoalCount = len(p.Goals())
	p.Message = summarize(len(slices), p.Metadata.GoalCount)

	b.logger.Debug().
		Str("strategy", b.strategy.Name()).
		Int("slices", len(slices)).
		Int("goals", p.Metadata.GoalCount).
		Int("target", target).
		Msg("plan built")
	return p, nil
}

// hasPendingWork reports whether any active goal still has a plannable,
// incomplete work unit.
func (b *Builder) hasPendingWork(ctx context.Context, goals []*domain.Goal) (bool, error) {
	for _, goal := range goals {
		tasks, err := b.store.ListTasksByGoal(ctx, goal.ID)
		if err != nil {
			return false, emberrors.Wrapf(err, "failed to list tasks for goal %s", goal.ID)
		}
		for _, task := range tasks {
			if !task.IsPlannable() {
				continue
			}
			units, err := b.store.ListWorkUnitsByTask(ctx, task.ID)
			if err != nil {
				return false, emberrors.Wrapf(err, "failed to list work units for task %s", task.ID)
			}
			for _, unit := range units {
				if !unit.EffectivelyComplete() {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// summarize renders the one-line plan headline.
func summarize(steps, goals int) string {
	stepWord := "steps"
	if steps == 1 {
		stepWord = "step"
	}
	goalWord := "goals"
	if goals == 1 {
		goalWord = "goal"
	}
	return fmt.Sprintf("%d %s across %d %s", steps, stepWord, goals, goalWord)
}
