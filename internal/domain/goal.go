// Package domain provides shared domain types for the Ember planning engine.
// These types are used across all internal packages to ensure consistent data
// structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"time"

	"github.com/emberflow/ember/internal/constants"
)

// Goal represents a user intention: a free-text ambition the decomposition
// flow breaks into task reservoirs and work units.
//
// Example JSON representation:
//
//	{
//	    "id": "goal-7f3a2b1c",
//	    "title": "Learn conversational Spanish",
//	    "target_date": "2026-12-01T00:00:00Z",
//	    "lifelong": false,
//	    "status": "active",
//	    "created_at": "2026-08-01T09:00:00Z",
//	    "updated_at": "2026-08-28T19:12:00Z",
//	    "schema_version": 1
//	}
type Goal struct {
	// ID is the unique identifier for the goal. Format: goal-<8 hex chars>.
	ID string `json:"id"`

	// Title is the user's free-text description of the intention.
	Title string `json:"title"`

	// TargetDate is a soft, advisory finish date. Nil means no target; the
	// scorer degrades to a neutral urgency, never an error.
	TargetDate *time.Time `json:"target_date,omitempty"`

	// Lifelong marks recurring, habit-style goals. A lifelong goal never
	// transitions to drained.
	Lifelong bool `json:"lifelong"`

	// Status is the lifecycle state (active, paused, drained).
	Status constants.GoalStatus `json:"status"`

	// CreatedAt is when the goal was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the goal record was last modified.
	UpdatedAt time.Time `json:"updated_at"`

	// SchemaVersion enables forward-compatible schema migrations.
	SchemaVersion int `json:"schema_version"`
}

// IsActive reports whether the goal participates in daily planning.
func (g *Goal) IsActive() bool {
	return g.Status == constants.GoalStatusActive
}

// CanDrain reports whether the goal is allowed to transition to drained.
// Lifelong goals never drain.
func (g *Goal) CanDrain() bool {
	return !g.Lifelong
}

// DaysUntilTarget returns the whole days from now until the target date, or
// false when no target date is set. Overdue targets return negative values.
func (g *Goal) DaysUntilTarget(now time.Time) (int, bool) {
	if g.TargetDate == nil {
		return 0, false
	}
	return daysBetween(now, *g.TargetDate), true
}

// daysBetween mirrors clock.DaysBetween without importing it; domain stays a
// leaf package.
func daysBetween(earlier, later time.Time) int {
	e := time.Date(earlier.Year(), earlier.Month(), earlier.Day(), 0, 0, 0, 0, earlier.Location())
	l := later.In(earlier.Location())
	l = time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, l.Location())
	return int(l.Sub(e).Hours() / 24)
}
