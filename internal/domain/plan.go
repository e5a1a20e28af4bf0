package domain

import (
	"time"

	"github.com/emberflow/ember/internal/constants"
)

// Slice is an ephemeral daily scheduling decision: a work unit placed into
// today's plan with an allotted minute budget. Slices are never persisted;
// they are regenerated from source data each time a plan is requested.
type Slice struct {
	// Unit is the scheduled work unit.
	Unit *WorkUnit `json:"unit"`

	// Task is the unit's parent task.
	Task *Task `json:"task"`

	// Goal is the task's parent goal.
	Goal *Goal `json:"goal"`

	// Minutes is the effort allotted to this session, not the unit's total.
	Minutes int `json:"minutes"`

	// Size labels how the slice should feel to start (warm-up, settle, dive).
	Size constants.SliceSize `json:"size"`
}

// SliceSizeFor returns the size label for a slice of the given minutes.
func SliceSizeFor(minutes int) constants.SliceSize {
	switch {
	case minutes <= constants.WarmUpMaxMinutes:
		return constants.SliceWarmUp
	case minutes <= constants.SettleMaxMinutes:
		return constants.SliceSettle
	default:
		return constants.SliceDive
	}
}

// NewSlice bundles a unit with its parents, allotting the unit's remaining
// minutes and the matching size label.
func NewSlice(unit *WorkUnit, task *Task, goal *Goal) Slice {
	m := unit.RemainingMinutes()
	return Slice{
		Unit:    unit,
		Task:    task,
		Goal:    goal,
		Minutes: m,
		Size:    SliceSizeFor(m),
	}
}

// PlanMetadata carries plan provenance for display and logging.
type PlanMetadata struct {
	// Strategy names the allocation strategy that produced the plan.
	Strategy string `json:"strategy"`

	// GoalCount is the number of distinct goals represented.
	GoalCount int `json:"goal_count"`

	// TargetCount is the adaptive daily target in effect (slot strategy only).
	TargetCount int `json:"target_count,omitempty"`

	// BudgetMinutes is the minute capacity in effect (time strategy only).
	BudgetMinutes int `json:"budget_minutes,omitempty"`
}

// Plan is the user-facing daily selection: an ordered list of slices plus a
// human-readable summary. Empty plans are valid steady states with their own
// friendly messages, never errors.
type Plan struct {
	// Date is the calendar day the plan was built for.
	Date time.Time `json:"date"`

	// Slices is the ordered selection, gentlest first.
	Slices []Slice `json:"slices"`

	// Message is the human-readable summary or empty-state encouragement.
	Message string `json:"message"`

	// Metadata carries provenance for display and logging.
	Metadata PlanMetadata `json:"metadata"`
}

// IsEmpty reports whether the plan carries no slices.
func (p *Plan) IsEmpty() bool {
	return len(p.Slices) == 0
}

// Goals returns the distinct goal ids represented in the plan, in first
// appearance order.
func (p *Plan) Goals() []string {
	seen := make(map[string]bool, len(p.Slices))
	var ids []string
	for i := range p.Slices {
		id := p.Slices[i].Goal.ID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// TotalMinutes sums the allotted minutes across all slices.
func (p *Plan) TotalMinutes() int {
	total := 0
	for i := range p.Slices {
		total += p.Slices[i].Minutes
	}
	return total
}
