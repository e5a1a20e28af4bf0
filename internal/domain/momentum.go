package domain

import "time"

// GoalMomentum is a derived, non-persisted engagement snapshot for one goal.
// It is recomputed on demand from work unit history and never cached across
// requests, so every read reflects the latest completions.
type GoalMomentum struct {
	// GoalID identifies the goal this snapshot describes.
	GoalID string `json:"goal_id"`

	// LastWorkedAt is the most recent completion time across the goal's
	// work units (zero when nothing was ever completed).
	LastWorkedAt time.Time `json:"last_worked_at"`

	// CompletionsLast7Days counts completions in the trailing seven days.
	CompletionsLast7Days int `json:"completions_last_7_days"`

	// TotalCompleted counts effectively-complete work units.
	TotalCompleted int `json:"total_completed"`

	// TotalWorkUnits counts all work units under the goal.
	TotalWorkUnits int `json:"total_work_units"`

	// CompletionPercentage is TotalCompleted/TotalWorkUnits in [0,1];
	// zero-unit goals report 0.
	CompletionPercentage float64 `json:"completion_percentage"`

	// DaysSinceLastWork is the whole days since LastWorkedAt. Goals with no
	// completions ever report a large finite sentinel, never infinity.
	DaysSinceLastWork int `json:"days_since_last_work"`

	// Score is the recency-weighted engagement score, floored at zero.
	Score int `json:"score"`
}
