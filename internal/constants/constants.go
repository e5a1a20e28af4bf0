// Package constants provides centralized constant values used throughout Ember.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// File names used by Ember for state persistence.
const (
	// GoalFileName is the name of the JSON file that stores goal state.
	GoalFileName = "goal.json"

	// TaskFileName is the name of the JSON file that stores task state.
	TaskFileName = "task.json"

	// PlannerStateFileName is the name of the JSON file that stores the
	// adaptive daily target and recent day records.
	PlannerStateFileName = "planner.json"

	// QueueFileName is the name of the YAML file that caches task queue entries.
	QueueFileName = "queue.yaml"
)

// Directory names and paths used by Ember for organizing data.
const (
	// EmberHome is the hidden directory name where Ember stores all its data.
	// This directory is created in the user's home directory.
	EmberHome = ".ember"

	// GoalsDir is the directory name where goal records are stored.
	GoalsDir = "goals"

	// TasksDir is the directory name (under a goal) where task records are stored.
	TasksDir = "tasks"

	// UnitsDir is the directory name (under a task) where work unit records are stored.
	UnitsDir = "units"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// CompletionThreshold is the fraction of estimated minutes at which a Task
// or WorkUnit counts as effectively complete. Tracking is never pixel-perfect,
// so 100% is not required.
const CompletionThreshold = 0.85

// Planning policy values. These encode product behavior, not tuning knobs:
// never overwhelm, always show progress, rotate fairly across goals.
const (
	// HeavyRemainingMinutes is the boundary above which a candidate counts
	// as a heavy item.
	HeavyRemainingMinutes = 90

	// DefaultHeavyCap is the maximum number of heavy items allowed in a
	// single daily plan.
	DefaultHeavyCap = 1

	// DefaultMaxSlices is the hard upper bound on slices in a time-budgeted plan.
	DefaultMaxSlices = 6

	// DefaultMinSlices is the representation floor: balance-pass force-includes
	// may exceed the minute budget only while the plan is below this count.
	DefaultMinSlices = 3

	// MinDailyUnits is the lower bound of the adaptive daily target.
	MinDailyUnits = 2

	// MaxDailyUnits is the upper bound of the adaptive daily target.
	MaxDailyUnits = 7

	// InitialDailyUnits is the starting adaptive daily target for new users.
	InitialDailyUnits = 3

	// DefaultMinuteBudget is the minute capacity assumed by the time-budgeted
	// strategy when the user does not provide one.
	DefaultMinuteBudget = 120
)

// Slice size label boundaries, in minutes allotted to the slice.
const (
	// WarmUpMaxMinutes is the upper bound for a "warm-up" slice.
	WarmUpMaxMinutes = 20

	// SettleMaxMinutes is the upper bound for a "settle" slice.
	// Anything above it is a "dive".
	SettleMaxMinutes = 45
)

// Momentum scoring values (see the momentum package for the full formula).
const (
	// MomentumBase is the starting momentum score for every goal.
	MomentumBase = 50

	// NeglectDays is the number of idle days after which a goal is
	// considered neglected.
	NeglectDays = 3

	// NearDoneFraction is the completion fraction at or above which a goal
	// no longer needs attention and earns the finishing bonus.
	NearDoneFraction = 0.8

	// NeverWorkedSentinelDays is the finite days-since-last-work value
	// reported for goals with no completions ever. Large enough to trip
	// every staleness rule, finite so it never poisons arithmetic.
	NeverWorkedSentinelDays = 3650
)

// Skip feedback thresholds.
const (
	// SkipAdvisoryThreshold is the per-item skip count at which a target
	// date extension is proposed.
	SkipAdvisoryThreshold = 3

	// SkipGoalAverageThreshold is the goal-wide average skip count that
	// must also be met before proposing an extension.
	SkipGoalAverageThreshold = 2

	// SkipDowngradeThreshold is the per-item skip count at which the
	// perceived effort tier is downgraded one step.
	SkipDowngradeThreshold = 5

	// NearTargetDays is the horizon below which a proposed extension uses
	// the short increment.
	NearTargetDays = 30

	// ShortExtensionDays is the proposed extension for near targets.
	ShortExtensionDays = 14

	// LongExtensionDays is the proposed extension for far targets.
	LongExtensionDays = 30
)

// Decomposition service limits.
const (
	// DecomposeMaxAttempts bounds retries against the external
	// text-generation service before falling back locally.
	DecomposeMaxAttempts = 2

	// DecomposeMinTasks and DecomposeMaxTasks bound the accepted shape of a
	// generated breakdown.
	DecomposeMinTasks = 3
	DecomposeMaxTasks = 6

	// DefaultDecomposeTimeout is the maximum duration for a single
	// decomposition call.
	DefaultDecomposeTimeout = 2 * time.Minute
)

// LockTimeout is the maximum duration to wait when acquiring a file lock for
// a read-modify-write of planner state or the queue cache.
const LockTimeout = 5 * time.Second

// LockRetryInterval is how often lock acquisition is retried until LockTimeout.
const LockRetryInterval = 50 * time.Millisecond

// SchemaVersion is the current schema version written into persisted records.
const SchemaVersion = 1
