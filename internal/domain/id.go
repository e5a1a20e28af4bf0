package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for the three persisted record types.
const (
	GoalIDPrefix = "goal-"
	TaskIDPrefix = "task-"
	UnitIDPrefix = "unit-"
)

// newID returns prefix plus the first segment of a random UUID, e.g.
// "goal-7f3a2b1c". Short enough to read in a terminal, random enough for a
// single-user store.
func newID(prefix string) string {
	u := uuid.NewString()
	return prefix + u[:strings.IndexByte(u, '-')]
}

// NewGoalID returns a fresh goal id.
func NewGoalID() string { return newID(GoalIDPrefix) }

// NewTaskID returns a fresh task id.
func NewTaskID() string { return newID(TaskIDPrefix) }

// NewUnitID returns a fresh work unit id.
func NewUnitID() string { return newID(UnitIDPrefix) }
