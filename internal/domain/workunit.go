package domain

import (
	"time"

	"github.com/emberflow/ember/internal/constants"
)

// WorkUnit is the atomic, schedulable action inside a task.
type WorkUnit struct {
	// ID is the unique identifier for the work unit. Format: unit-<8 hex chars>.
	ID string `json:"id"`

	// TaskID links this work unit to its parent task.
	TaskID string `json:"task_id"`

	// Title is the action the user will actually take.
	Title string `json:"title"`

	// EstimatedTotalMinutes is the expected effort for the whole unit.
	EstimatedTotalMinutes int `json:"estimated_total_minutes"`

	// CompletedMinutes is the effort recorded so far. Toggling completion
	// typically sets it to the full estimate or back to zero; fractional
	// partial credit is allowed but not required.
	CompletedMinutes int `json:"completed_minutes"`

	// Kind classifies the unit for display and light prioritization.
	Kind constants.WorkUnitKind `json:"kind"`

	// CapabilityID is an optional dedup key: two units sharing one represent
	// the same underlying skill and must not both be scheduled.
	CapabilityID string `json:"capability_id,omitempty"`

	// FirstAction is an optional sub-two-minute activation step.
	FirstAction string `json:"first_action,omitempty"`

	// SuccessSignal is an optional observable completion criterion.
	SuccessSignal string `json:"success_signal,omitempty"`

	// LastCompletedAt records the most recent completion. Kept separate from
	// UpdatedAt so momentum never mistakes an edit for progress.
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`

	// CreatedAt is when the work unit was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the record was last modified for any reason.
	UpdatedAt time.Time `json:"updated_at"`

	// SchemaVersion enables forward-compatible schema migrations.
	SchemaVersion int `json:"schema_version"`
}

// RemainingMinutes returns the unworked effort, clamped at zero.
func (w *WorkUnit) RemainingMinutes() int {
	r := w.EstimatedTotalMinutes - w.CompletedMinutes
	if r < 0 {
		return 0
	}
	return r
}

// EffectivelyComplete reports whether the unit has crossed the completion
// threshold, computed independently of its parent task.
func (w *WorkUnit) EffectivelyComplete() bool {
	if w.EstimatedTotalMinutes <= 0 {
		return true
	}
	return float64(w.CompletedMinutes) >= float64(w.EstimatedTotalMinutes)*constants.CompletionThreshold
}

// IsHeavy reports whether the remaining effort exceeds the heavy boundary.
// Heavy items are capped at one per daily plan.
func (w *WorkUnit) IsHeavy() bool {
	return w.RemainingMinutes() > constants.HeavyRemainingMinutes
}
