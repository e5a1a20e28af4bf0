// Package testutil provides testing utilities for Ember.
//
// This package contains mock errors and test helpers used across test files.
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockStoreUnavailable simulates a store that cannot be reached.
	ErrMockStoreUnavailable = errors.New("store unavailable")

	// ErrMockDecompose simulates a failing decomposition service call.
	ErrMockDecompose = errors.New("decompose call failed")

	// ErrMockNotFound simulates a missing record.
	ErrMockNotFound = errors.New("not found")

	// ErrMockTimeout simulates a timed-out external call.
	ErrMockTimeout = errors.New("timed out")
)
