package constants

// GoalStatus represents the lifecycle state of a goal.
// Status values use snake_case for JSON serialization compatibility.
type GoalStatus string

// Goal status constants define the valid states a goal can be in.
//
//	Active → Paused, Drained
//	Paused → Active
//	Drained is terminal; lifelong goals never reach it.
const (
	// GoalStatusActive indicates a goal is participating in daily planning.
	GoalStatusActive GoalStatus = "active"

	// GoalStatusPaused indicates a goal is temporarily excluded from planning.
	GoalStatusPaused GoalStatus = "paused"

	// GoalStatusDrained indicates every task reservoir under the goal is
	// effectively complete. Terminal for non-lifelong goals.
	GoalStatusDrained GoalStatus = "drained"
)

// String returns the string representation of the GoalStatus.
func (s GoalStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid value.
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusActive, GoalStatusPaused, GoalStatusDrained:
		return true
	default:
		return false
	}
}

// TaskState represents the archival lifecycle of a task, independent of the
// parent goal's status.
type TaskState string

// Task state constants.
const (
	// TaskStateActive indicates a task is eligible for planning.
	TaskStateActive TaskState = "active"

	// TaskStateArchived indicates a task is excluded from planning but kept
	// for history.
	TaskStateArchived TaskState = "archived"

	// TaskStateDeleted is a tombstone; the store filters deleted tasks from
	// every listing.
	TaskStateDeleted TaskState = "deleted"
)

// String returns the string representation of the TaskState.
func (s TaskState) String() string {
	return string(s)
}

// IsValid checks if the state is a valid value.
func (s TaskState) IsValid() bool {
	switch s {
	case TaskStateActive, TaskStateArchived, TaskStateDeleted:
		return true
	default:
		return false
	}
}

// WorkUnitKind classifies a work unit for display and light prioritization.
type WorkUnitKind string

// Work unit kind constants.
const (
	KindStudy    WorkUnitKind = "study"
	KindPractice WorkUnitKind = "practice"
	KindBuild    WorkUnitKind = "build"
	KindReview   WorkUnitKind = "review"
	KindExplore  WorkUnitKind = "explore"
)

// String returns the string representation of the WorkUnitKind.
func (k WorkUnitKind) String() string {
	return string(k)
}

// IsValid checks if the kind is a valid value.
func (k WorkUnitKind) IsValid() bool {
	switch k {
	case KindStudy, KindPractice, KindBuild, KindReview, KindExplore:
		return true
	default:
		return false
	}
}

// ValidKinds returns all valid work unit kinds.
func ValidKinds() []WorkUnitKind {
	return []WorkUnitKind{KindStudy, KindPractice, KindBuild, KindReview, KindExplore}
}

// EffortLevel is the perceived effort tier of a queued task.
type EffortLevel string

// Effort level constants, ordered lightest first.
const (
	EffortLight  EffortLevel = "light"
	EffortMedium EffortLevel = "medium"
	EffortHeavy  EffortLevel = "heavy"
)

// String returns the string representation of the EffortLevel.
func (e EffortLevel) String() string {
	return string(e)
}

// Downgrade returns the next lighter tier. Light stays light; the ratchet
// only ever moves one way.
func (e EffortLevel) Downgrade() EffortLevel {
	switch e {
	case EffortHeavy:
		return EffortMedium
	case EffortMedium:
		return EffortLight
	default:
		return EffortLight
	}
}

// SliceSize labels how a planned slice should feel to start.
type SliceSize string

// Slice size constants.
const (
	SliceWarmUp SliceSize = "warm-up"
	SliceSettle SliceSize = "settle"
	SliceDive   SliceSize = "dive"
)

// String returns the string representation of the SliceSize.
func (s SliceSize) String() string {
	return string(s)
}
