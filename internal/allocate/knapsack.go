package allocate

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
	"github.com/emberflow/ember/internal/score"
	"github.com/emberflow/ember/internal/store"
)

// TimeOptions tunes the knapsack strategy. Zero values fall back to the
// product defaults.
type TimeOptions struct {
	// HeavyCap bounds how many heavy items (remaining > 90 minutes) one plan
	// may carry.
	HeavyCap int

	// MaxSlices is the hard upper bound on selected items.
	MaxSlices int

	// MinSlices is the representation floor: the balance pass may exceed the
	// minute budget only while the selection sits below this count.
	MinSlices int
}

// withDefaults fills unset options.
func (o TimeOptions) withDefaults() TimeOptions {
	if o.HeavyCap == 0 {
		o.HeavyCap = constants.DefaultHeavyCap
	}
	if o.MaxSlices == 0 {
		o.MaxSlices = constants.DefaultMaxSlices
	}
	if o.MinSlices == 0 {
		o.MinSlices = constants.DefaultMinSlices
	}
	return o
}

// TimeAllocator is the minutes-budgeted greedy knapsack: score every
// candidate, walk them light-before-heavy in value-density order, skip
// (never abort on) anything that would burst the minute budget or the heavy
// cap, then run a balance pass that force-includes the cheapest item of any
// goal left without representation. Output is sorted gentlest-first.
type TimeAllocator struct {
	store  store.Store
	clock  clock.Clock
	logger zerolog.Logger
	opts   TimeOptions
}

// NewTimeAllocator creates the capacity-based strategy.
func NewTimeAllocator(s store.Store, c clock.Clock, logger zerolog.Logger, opts TimeOptions) *TimeAllocator {
	if c == nil {
		c = clock.RealClock{}
	}
	return &TimeAllocator{store: s, clock: c, logger: logger, opts: opts.withDefaults()}
}

// Name identifies the strategy.
func (a *TimeAllocator) Name() string { return "time-knapsack" }

// Allocate selects within budget.Minutes.
func (a *TimeAllocator) Allocate(ctx context.Context, budget Budget) ([]domain.Slice, error) {
	work, err := gather(ctx, a.store, a.logger)
	if err != nil {
		return nil, err
	}
	candidates := flatten(work)
	if len(candidates) == 0 {
		return nil, nil
	}

	now := a.clock.Now()
	score.Sort(candidates, now)

	var (
		selected   []score.Candidate
		usedMin    int
		heavyCount int
		inPlan     = make(map[string]bool) // unit id -> selected
		goalSeen   = make(map[string]bool) // goal id -> represented
	)

	take := func(c score.Candidate) {
		selected = append(selected, c)
		usedMin += c.RemainingMinutes()
		if c.IsHeavy() {
			heavyCount++
		}
		inPlan[c.Unit.ID] = true
		goalSeen[c.Goal.ID] = true
	}

	// Greedy pass: skip, don't abort, on any candidate that would burst a
	// limit; stop once the slice bound is hit.
	for _, c := range candidates {
		if len(selected) >= a.opts.MaxSlices {
			break
		}
		m := c.RemainingMinutes()
		if usedMin+m > budget.Minutes {
			continue
		}
		if c.IsHeavy() && heavyCount >= a.opts.HeavyCap {
			continue
		}
		take(c)
	}

	// Balance pass: every active goal deserves representation. For each goal
	// with nothing selected, force-include its cheapest eligible candidate if
	// it fits the leftover budget, or unconditionally while the plan is still
	// below the minimum floor.
	for i := range work {
		gw := &work[i]
		if goalSeen[gw.goal.ID] || len(gw.candidates) == 0 {
			continue
		}
		if len(selected) >= a.opts.MaxSlices {
			break
		}
		cheapest, ok := cheapestEligible(gw.candidates, inPlan, heavyCount, a.opts.HeavyCap)
		if !ok {
			continue
		}
		m := cheapest.RemainingMinutes()
		if usedMin+m <= budget.Minutes || len(selected) < a.opts.MinSlices {
			take(cheapest)
		}
	}

	// Presentation order: gentlest item first. This transforms the output
	// order only; selection is already fixed.
	slices := make([]domain.Slice, 0, len(selected))
	for _, c := range selected {
		slices = append(slices, domain.NewSlice(c.Unit, c.Task, c.Goal))
	}
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Minutes < slices[j].Minutes
	})
	return slices, nil
}

// cheapestEligible returns the goal's fewest-remaining-minutes candidate not
// already in the plan and not blocked by the heavy cap.
func cheapestEligible(candidates []score.Candidate, inPlan map[string]bool, heavyCount, heavyCap int) (score.Candidate, bool) {
	var best score.Candidate
	found := false
	for _, c := range candidates {
		if inPlan[c.Unit.ID] {
			continue
		}
		if c.IsHeavy() && heavyCount >= heavyCap {
			continue
		}
		if !found || c.RemainingMinutes() < best.RemainingMinutes() {
			best = c
			found = true
		}
	}
	return best, found
}

// Ensure TimeAllocator satisfies Strategy.
var _ Strategy = (*TimeAllocator)(nil)
