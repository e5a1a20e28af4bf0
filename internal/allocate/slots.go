package allocate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/domain"
	"github.com/emberflow/ember/internal/momentum"
	"github.com/emberflow/ember/internal/store"
)

// topShareFraction is the fraction of the daily budget granted to the
// top-momentum goal (floored, minimum two slots).
const topShareFraction = 0.6

// SlotAllocator is the count-budgeted, momentum-weighted strategy: the goal
// the user is most engaged with gets the lion's share of today's slots, every
// other goal gets one, neglected goals first. Within a goal, slots fill in
// queue order, not by score: a skipped task's rotation to the back of the
// cache pushes its units behind its siblings, and tasks the cache does not
// cover fall back to earliest-incomplete-first progression order.
type SlotAllocator struct {
	store   store.Store
	tracker *momentum.Tracker
	clock   clock.Clock
	logger  zerolog.Logger
}

// NewSlotAllocator creates the primary daily strategy.
func NewSlotAllocator(s store.Store, tracker *momentum.Tracker, c clock.Clock, logger zerolog.Logger) *SlotAllocator {
	if c == nil {
		c = clock.RealClock{}
	}
	return &SlotAllocator{store: s, tracker: tracker, clock: c, logger: logger}
}

// Name identifies the strategy.
func (a *SlotAllocator) Name() string { return "momentum-slots" }

// Allocate distributes budget.TargetCount slots across active goals by
// momentum rank.
func (a *SlotAllocator) Allocate(ctx context.Context, budget Budget) ([]domain.Slice, error) {
	work, err := gather(ctx, a.store, a.logger)
	if err != nil {
		return nil, err
	}
	if len(work) == 0 {
		return nil, nil
	}

	snapshots, err := a.tracker.All(ctx)
	if err != nil {
		return nil, err
	}
	momentum.SortByMomentum(snapshots)

	// Re-order gathered work by momentum rank; snapshots cover exactly the
	// active goals, so the join is total.
	byGoal := make(map[string]*goalWork, len(work))
	for i := range work {
		byGoal[work[i].goal.ID] = &work[i]
	}
	ranked := make([]*goalWork, 0, len(snapshots))
	attention := make(map[string]bool, len(snapshots))
	for _, m := range snapshots {
		if gw, ok := byGoal[m.GoalID]; ok {
			ranked = append(ranked, gw)
			attention[m.GoalID] = momentum.NeedsAttention(m)
		}
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	slots := budget.TargetCount
	if slots <= 0 {
		return nil, nil
	}
	taken := make([]int, len(ranked))

	if len(ranked) == 1 {
		// A single active goal receives the entire budget.
		taken[0] = minInt(slots, len(ranked[0].candidates))
	} else {
		// The top-momentum goal gets max(2, floor(target*0.6)).
		topShare := int(float64(slots) * topShareFraction)
		if topShare < 2 {
			topShare = 2
		}
		taken[0] = minInt(minInt(topShare, slots), len(ranked[0].candidates))
		remaining := slots - taken[0]

		// One slot each for the rest, needs-attention goals first.
		order := restOrder(ranked, attention)
		for _, idx := range order {
			if remaining == 0 {
				break
			}
			if len(ranked[idx].candidates) > 0 {
				taken[idx] = 1
				remaining--
			}
		}

		// Leftover slots rotate through the ranking again, top goal first.
		for remaining > 0 {
			progressed := false
			for idx := range ranked {
				if remaining == 0 {
					break
				}
				if taken[idx] < len(ranked[idx].candidates) {
					taken[idx]++
					remaining--
					progressed = true
				}
			}
			if !progressed {
				break // every queue is drained
			}
		}
	}

	var slices []domain.Slice
	for idx, gw := range ranked {
		for _, c := range gw.candidates[:taken[idx]] {
			slices = append(slices, domain.NewSlice(c.Unit, c.Task, c.Goal))
		}
	}
	return slices, nil
}

// restOrder returns the non-top goal indexes, needs-attention goals first,
// preserving momentum rank within each group.
func restOrder(ranked []*goalWork, attention map[string]bool) []int {
	var first, rest []int
	for idx := 1; idx < len(ranked); idx++ {
		if attention[ranked[idx].goal.ID] {
			first = append(first, idx)
		} else {
			rest = append(rest, idx)
		}
	}
	return append(first, rest...)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Ensure SlotAllocator satisfies Strategy.
var _ Strategy = (*SlotAllocator)(nil)
