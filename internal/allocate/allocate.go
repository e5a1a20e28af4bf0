// Package allocate selects which work units enter a daily plan.
//
// Two interchangeable strategies sit behind the Strategy interface: a
// count-budgeted, momentum-weighted slot allocator (the primary "today"
// plan) and a time-budgeted greedy knapsack for capacity-based planning
// ("I have 240 minutes"). Both are deterministic for identical inputs; the
// only randomness offered anywhere is the explicitly seeded Shuffle step,
// which is off unless a caller asks for it.
package allocate

import (
	"context"

	"github.com/emberflow/ember/internal/domain"
)

// Budget carries the capacity for one allocation. Exactly one field is
// meaningful per strategy: TargetCount for slots, Minutes for the knapsack.
type Budget struct {
	// TargetCount is the adaptive daily work unit count.
	TargetCount int

	// Minutes is the time capacity for the knapsack strategy.
	Minutes int
}

// Strategy is a daily selection algorithm.
type Strategy interface {
	// Name identifies the strategy in plan metadata and logs.
	Name() string

	// Allocate returns the selected slices for the given budget.
	Allocate(ctx context.Context, budget Budget) ([]domain.Slice, error)
}
