package domain

import (
	"time"

	"github.com/emberflow/ember/internal/constants"
)

// QueueEntry is an internal scheduling aid that lets waiting time and skip
// history accumulate across sessions for fairness. It is a cache rebuildable
// from the goal and task tables, never a source of truth.
type QueueEntry struct {
	// TaskID identifies the queued task.
	TaskID string `yaml:"task_id" json:"task_id"`

	// GoalID identifies the task's parent goal.
	GoalID string `yaml:"goal_id" json:"goal_id"`

	// Effort is the perceived effort tier. Skip feedback may downgrade it
	// one step at a time; it is never auto-upgraded.
	Effort constants.EffortLevel `yaml:"effort" json:"effort"`

	// GoalTargetDate mirrors the parent goal's soft target date.
	GoalTargetDate *time.Time `yaml:"goal_target_date,omitempty" json:"goal_target_date,omitempty"`

	// SkipCount is how many times the user has declined this task's items.
	SkipCount int `yaml:"skip_count" json:"skip_count"`

	// LastSkippedAt records the most recent skip (nil if never skipped).
	LastSkippedAt *time.Time `yaml:"last_skipped_at,omitempty" json:"last_skipped_at,omitempty"`

	// WaitingDays is the whole days since the entry was queued, refreshed
	// on rehydration.
	WaitingDays int `yaml:"waiting_days" json:"waiting_days"`

	// QueuedAt is when the entry first entered the queue.
	QueuedAt time.Time `yaml:"queued_at" json:"queued_at"`
}

// EffortFor classifies remaining minutes into an effort tier. The heavy
// boundary matches the scorer's 90-minute rule.
func EffortFor(remainingMinutes int) constants.EffortLevel {
	switch {
	case remainingMinutes <= 30:
		return constants.EffortLight
	case remainingMinutes <= constants.HeavyRemainingMinutes:
		return constants.EffortMedium
	default:
		return constants.EffortHeavy
	}
}

// DayRecord is one day's planning outcome, consumed by the adaptive count
// controller's trailing window.
type DayRecord struct {
	// Date is the calendar day, stored at midnight UTC.
	Date time.Time `json:"date"`

	// Planned is how many work units the plan offered.
	Planned int `json:"planned"`

	// Completed is how many of them the user finished.
	Completed int `json:"completed"`
}

// PlanRecord captures the size of the most recently built plan. Wrap-up
// scores the day against this number rather than the abstract target, since
// allocation can come up short of the target when little work is pending.
type PlanRecord struct {
	// Date is the calendar day the plan was built for, at midnight UTC.
	Date time.Time `json:"date"`

	// Slices is how many work units the plan offered.
	Slices int `json:"slices"`
}

// PlannerState is the single mutable scalar the engine keeps between
// sessions (plus the rolling day records that justify it). Read-modify-write
// of this record is a critical section.
type PlannerState struct {
	// DailyTarget is the adaptive number of work units to plan per day,
	// bounded to [MinDailyUnits, MaxDailyUnits].
	DailyTarget int `json:"daily_target"`

	// Days holds recent day records, newest last.
	Days []DayRecord `json:"days"`

	// LastPlanned is the size of the most recently built plan, nil until the
	// first plan is built.
	LastPlanned *PlanRecord `json:"last_planned,omitempty"`

	// SchemaVersion enables forward-compatible schema migrations.
	SchemaVersion int `json:"schema_version"`
}
