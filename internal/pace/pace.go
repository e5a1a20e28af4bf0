// Package pace adapts the daily work unit target to observed follow-through.
//
// The controller is a deliberately slow integral-feedback loop over a single
// scalar: the number of work units to plan per day, bounded to [2,7]. It
// moves one step per evaluation regardless of how far off the completion
// rate is; proportional corrections would oscillate and feel erratic. The
// scalar is a ratchet with memory, persisted through the store's locked
// read-modify-write so no evaluation is ever lost.
package pace

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

// Controller thresholds.
const (
	// raiseRate is the trailing completion rate at or above which the target
	// grows by one.
	raiseRate = 0.9

	// lowerRate is the trailing completion rate below which the target
	// shrinks by one.
	lowerRate = 0.5

	// coldStartRate is the optimistic prior used when no history exists,
	// avoiding a cold-start spiral toward the floor.
	coldStartRate = 0.8

	// windowDays is the trailing evaluation window.
	windowDays = 7

	// keepDays bounds how much history the state file retains. Twice the
	// window is plenty; older records can never influence the rate.
	keepDays = 14
)

// Controller owns the adaptive daily target.
type Controller struct {
	store  store.Store
	clock  clock.Clock
	logger zerolog.Logger
}

// NewController creates a Controller. A nil clock defaults to the real clock.
func NewController(s store.Store, c clock.Clock, logger zerolog.Logger) *Controller {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Controller{store: s, clock: c, logger: logger}
}

// Target returns the current daily work unit target.
func (c *Controller) Target(ctx context.Context) (int, error) {
	state, err := c.store.LoadPlannerState(ctx)
	if err != nil {
		return 0, emberrors.Wrap(err, "failed to load planner state")
	}
	return state.DailyTarget, nil
}

// RecordPlanned remembers how many slices the day's built plan offered.
// Wrap-up scores the day against this number; the target itself is untouched.
// Rebuilding the plan replaces the record.
func (c *Controller) RecordPlanned(ctx context.Context, date time.Time, slices int) error {
	if slices < 0 {
		return emberrors.ErrNegativeMinutes
	}
	day := clock.StartOfDay(date.UTC())
	_, err := c.store.UpdatePlannerState(ctx, func(st *domain.PlannerState) error {
		st.LastPlanned = &domain.PlanRecord{Date: day, Slices: slices}
		return nil
	})
	if err != nil {
		return emberrors.Wrap(err, "failed to record plan size")
	}
	return nil
}

// PlannedFor returns the recorded plan size for the given day. The second
// return is false when no plan was built that day.
func (c *Controller) PlannedFor(ctx context.Context, date time.Time) (int, bool, error) {
	state, err := c.store.LoadPlannerState(ctx)
	if err != nil {
		return 0, false, emberrors.Wrap(err, "failed to load planner state")
	}
	if state.LastPlanned == nil || !clock.SameDay(state.LastPlanned.Date, date.UTC()) {
		return 0, false, nil
	}
	return state.LastPlanned.Slices, true, nil
}

// RecordDay stores one day's outcome and re-evaluates the target. Recording
// the same date twice replaces the earlier record (the user re-ran wrap-up),
// then the rate is recomputed from the corrected history.
func (c *Controller) RecordDay(ctx context.Context, date time.Time, planned, completed int) (*domain.PlannerState, error) {
	if planned < 0 || completed < 0 {
		return nil, emberrors.ErrNegativeMinutes
	}
	day := clock.StartOfDay(date.UTC())

	state, err := c.store.UpdatePlannerState(ctx, func(st *domain.PlannerState) error {
		replaced := false
		for i := range st.Days {
			if st.Days[i].Date.Equal(day) {
				st.Days[i].Planned = planned
				st.Days[i].Completed = completed
				replaced = true
				break
			}
		}
		if !replaced {
			st.Days = append(st.Days, domain.DayRecord{Date: day, Planned: planned, Completed: completed})
		}
		st.Days = trim(st.Days, day)

		rate := trailingRate(st.Days, day)
		before := st.DailyTarget
		st.DailyTarget = step(st.DailyTarget, rate)
		if st.DailyTarget != before {
			c.logger.Info().
				Float64("rate", rate).
				Int("from", before).
				Int("to", st.DailyTarget).
				Msg("adjusted daily target")
		}
		return nil
	})
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to record day")
	}
	return state, nil
}

// trailingRate computes sum(completed)/sum(planned) over the trailing window
// ending at day, falling back to the optimistic prior when there is no
// history (or only zero-planned days).
func trailingRate(days []domain.DayRecord, day time.Time) float64 {
	var planned, completed int
	for _, d := range days {
		age := clock.DaysBetween(d.Date, day)
		if age < 0 || age >= windowDays {
			continue
		}
		planned += d.Planned
		completed += d.Completed
	}
	if planned == 0 {
		return coldStartRate
	}
	return float64(completed) / float64(planned)
}

// step applies the one-step-per-evaluation rule within [2,7].
func step(target int, rate float64) int {
	switch {
	case rate >= raiseRate && target < constants.MaxDailyUnits:
		return target + 1
	case rate < lowerRate && target > constants.MinDailyUnits:
		return target - 1
	default:
		return target
	}
}

// trim drops records older than the retention horizon.
func trim(days []domain.DayRecord, day time.Time) []domain.DayRecord {
	kept := days[:0]
	for _, d := range days {
		if clock.DaysBetween(d.Date, day) < keepDays {
			kept = append(kept, d)
		}
	}
	return kept
}
