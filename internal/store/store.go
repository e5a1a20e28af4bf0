// Package store provides persistence for Ember's goals, tasks, and work units.
// This package implements the storage layer as JSON records on the local
// filesystem, with atomic writes, cascade deletes, and file-locked
// read-modify-write for the two cross-session ratchets (planner state and the
// task queue cache).
package store

import (
	"context"

	"github.com/emberflow/ember/internal/domain"
)

// Store defines the persistence operations the planning engine consumes.
// Listings are stable: goals sort by creation time, tasks by sibling order,
// work units by insertion order, so every selection pass is deterministic.
type Store interface {
	// CreateGoal persists a new goal. Returns ErrGoalExists if the id is taken.
	CreateGoal(ctx context.Context, goal *domain.Goal) error

	// GetGoal retrieves a goal by id. Returns ErrGoalNotFound if absent.
	GetGoal(ctx context.Context, id string) (*domain.Goal, error)

	// UpdateGoal saves the goal state (atomic write).
	UpdateGoal(ctx context.Context, goal *domain.Goal) error

	// DeleteGoal removes a goal and cascades to its tasks and work units.
	DeleteGoal(ctx context.Context, id string) error

	// ListGoals returns all goals sorted by creation time (oldest first).
	ListGoals(ctx context.Context) ([]*domain.Goal, error)

	// ListActiveGoals returns goals with status active, same ordering.
	ListActiveGoals(ctx context.Context) ([]*domain.Goal, error)

	// CreateTask persists a new task under its goal.
	CreateTask(ctx context.Context, task *domain.Task) error

	// GetTask retrieves a task by id. Returns ErrTaskNotFound if absent.
	GetTask(ctx context.Context, id string) (*domain.Task, error)

	// UpdateTask saves the task state (atomic write).
	UpdateTask(ctx context.Context, task *domain.Task) error

	// DeleteTask removes a task and its work units.
	DeleteTask(ctx context.Context, id string) error

	// ListTasksByGoal returns the goal's tasks sorted by Order then creation
	// time. Deleted tombstones are filtered.
	ListTasksByGoal(ctx context.Context, goalID string) ([]*domain.Task, error)

	// CreateWorkUnit persists a new work unit under its task.
	CreateWorkUnit(ctx context.Context, unit *domain.WorkUnit) error

	// GetWorkUnit retrieves a work unit by id. Returns ErrWorkUnitNotFound if absent.
	GetWorkUnit(ctx context.Context, id string) (*domain.WorkUnit, error)

	// UpdateWorkUnit saves the work unit state (atomic write).
	UpdateWorkUnit(ctx context.Context, unit *domain.WorkUnit) error

	// DeleteWorkUnit removes a work unit.
	DeleteWorkUnit(ctx context.Context, id string) error

	// ListWorkUnitsByTask returns the task's work units in insertion order.
	ListWorkUnitsByTask(ctx context.Context, taskID string) ([]*domain.WorkUnit, error)

	// LoadPlannerState reads the adaptive planner state, initializing it with
	// defaults on first use.
	LoadPlannerState(ctx context.Context) (*domain.PlannerState, error)

	// UpdatePlannerState applies fn to the current state under an exclusive
	// lock and persists the result atomically. The returned state is the
	// post-update snapshot.
	UpdatePlannerState(ctx context.Context, fn func(*domain.PlannerState) error) (*domain.PlannerState, error)

	// LoadQueue reads the cached task queue entries (empty if none).
	LoadQueue(ctx context.Context) ([]domain.QueueEntry, error)

	// UpdateQueue applies fn to the current queue under an exclusive lock and
	// persists the result atomically.
	UpdateQueue(ctx context.Context, fn func([]domain.QueueEntry) ([]domain.QueueEntry, error)) ([]domain.QueueEntry, error)
}
