// Package errors provides centralized error handling for Ember.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrGoalNotFound indicates a goal id does not resolve to a stored record.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrTaskNotFound indicates a task id does not resolve to a stored record.
	ErrTaskNotFound = errors.New("task not found")

	// ErrWorkUnitNotFound indicates a work unit id does not resolve to a stored record.
	ErrWorkUnitNotFound = errors.New("work unit not found")

	// ErrGoalExists indicates an attempt to create a goal with an id already in use.
	ErrGoalExists = errors.New("goal already exists")

	// ErrTaskExists indicates an attempt to create a task with an id already in use.
	ErrTaskExists = errors.New("task already exists")

	// ErrWorkUnitExists indicates an attempt to create a work unit with an id
	// already in use.
	ErrWorkUnitExists = errors.New("work unit already exists")

	// ErrEmptyValue indicates a required value was empty or nil.
	ErrEmptyValue = errors.New("must not be empty")

	// ErrNegativeMinutes indicates a caller supplied a negative minute amount.
	// This is a programmer-contract violation, not a recoverable condition.
	ErrNegativeMinutes = errors.New("minutes must not be negative")

	// ErrLockTimeout indicates a file lock could not be acquired in time.
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrStoreUnavailable indicates the data home could not be created or read.
	// This is the only failure class surfaced to the user as an error state.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrDecomposeFailed indicates the external decomposition service failed
	// after bounded retries. Callers recover via the local fallback.
	ErrDecomposeFailed = errors.New("decomposition failed")

	// ErrInvalidBreakdown indicates the decomposition service returned content
	// with an unacceptable shape. Treated identically to ErrDecomposeFailed.
	ErrInvalidBreakdown = errors.New("invalid breakdown")

	// ErrGoalDrained indicates planning was requested for a drained goal.
	ErrGoalDrained = errors.New("goal is drained")

	// ErrConfigNil indicates a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates a configuration value is out of range.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidOutputFormat indicates an unsupported --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)
