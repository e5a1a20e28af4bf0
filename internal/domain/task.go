package domain

import (
	"time"

	"github.com/emberflow/ember/internal/constants"
)

// Task is a bounded reservoir of effort under a goal. Effort is tracked as a
// capacity (EstimatedTotalMinutes) being drained by CompletedMinutes rather
// than as discrete done/not-done steps.
type Task struct {
	// ID is the unique identifier for the task. Format: task-<8 hex chars>.
	ID string `json:"id"`

	// GoalID links this task to its parent goal.
	GoalID string `json:"goal_id"`

	// Title is a human-readable summary of the reservoir.
	Title string `json:"title"`

	// EstimatedTotalMinutes is the capacity of the reservoir.
	EstimatedTotalMinutes int `json:"estimated_total_minutes"`

	// CompletedMinutes is the amount drained so far. Monotonically
	// non-decreasing; overshoot from rounding is clamped, never an error.
	CompletedMinutes int `json:"completed_minutes"`

	// Order is the stable sibling sequence used for earliest-first selection.
	Order int `json:"order"`

	// Complexity is an optional 1-3 rating. Zero means unset.
	Complexity int `json:"complexity,omitempty"`

	// Phase is an optional label used only for display and secondary grouping.
	Phase string `json:"phase,omitempty"`

	// State is the archival lifecycle (active, archived, deleted), decoupled
	// from the parent goal's status.
	State constants.TaskState `json:"state"`

	// ArchivedAt records when the task was archived (nil while active).
	ArchivedAt *time.Time `json:"archived_at,omitempty"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task record was last modified.
	UpdatedAt time.Time `json:"updated_at"`

	// SchemaVersion enables forward-compatible schema migrations.
	SchemaVersion int `json:"schema_version"`
}

// RemainingMinutes returns the undrained capacity, clamped at zero.
func (t *Task) RemainingMinutes() int {
	r := t.EstimatedTotalMinutes - t.CompletedMinutes
	if r < 0 {
		return 0
	}
	return r
}

// CompletionFraction returns drained/capacity in [0,1]. A zero-capacity task
// counts as fully drained.
func (t *Task) CompletionFraction() float64 {
	if t.EstimatedTotalMinutes <= 0 {
		return 1
	}
	f := float64(t.CompletedMinutes) / float64(t.EstimatedTotalMinutes)
	if f > 1 {
		return 1
	}
	return f
}

// EffectivelyComplete reports whether the reservoir has drained past the
// completion threshold. Pixel-perfect 100% tracking is never required.
func (t *Task) EffectivelyComplete() bool {
	if t.EstimatedTotalMinutes <= 0 {
		return true
	}
	return float64(t.CompletedMinutes) >= float64(t.EstimatedTotalMinutes)*constants.CompletionThreshold
}

// IsPlannable reports whether the task is eligible for selection.
func (t *Task) IsPlannable() bool {
	return t.State == constants.TaskStateActive && !t.EffectivelyComplete()
}
