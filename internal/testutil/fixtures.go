package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
	"github.com/emberflow/ember/internal/store"
)

// BaseTime is the pinned "now" shared by planner tests.
var BaseTime = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // Shared test fixture

// TempStore returns a FileStore rooted in a per-test temp directory.
func TempStore(t *testing.T) *store.FileStore {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

// GoalSpec describes a goal fixture.
type GoalSpec struct {
	ID         string
	Title      string
	TargetDate *time.Time
	Lifelong   bool
	Status     constants.GoalStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SeedGoal creates a goal from the spec, defaulting missing fields.
func SeedGoal(t *testing.T, s store.Store, spec GoalSpec) *domain.Goal {
	t.Helper()
	if spec.Status == "" {
		spec.Status = constants.GoalStatusActive
	}
	if spec.CreatedAt.IsZero() {
		spec.CreatedAt = BaseTime.AddDate(0, -1, 0)
	}
	if spec.UpdatedAt.IsZero() {
		spec.UpdatedAt = spec.CreatedAt
	}
	if spec.Title == "" {
		spec.Title = "goal " + spec.ID
	}
	g := &domain.Goal{
		ID:         spec.ID,
		Title:      spec.Title,
		TargetDate: spec.TargetDate,
		Lifelong:   spec.Lifelong,
		Status:     spec.Status,
		CreatedAt:  spec.CreatedAt,
		UpdatedAt:  spec.UpdatedAt,
	}
	require.NoError(t, s.CreateGoal(context.Background(), g))
	return g
}

// TaskSpec describes a task fixture.
type TaskSpec struct {
	ID        string
	GoalID    string
	Minutes   int
	Completed int
	Order     int
}

// SeedTask creates a task from the spec.
func SeedTask(t *testing.T, s store.Store, spec TaskSpec) *domain.Task {
	t.Helper()
	if spec.Minutes == 0 {
		spec.Minutes = 120
	}
	created := BaseTime.AddDate(0, -1, 0).Add(time.Duration(spec.Order) * time.Second)
	task := &domain.Task{
		ID:                    spec.ID,
		GoalID:                spec.GoalID,
		Title:                 "task " + spec.ID,
		EstimatedTotalMinutes: spec.Minutes,
		CompletedMinutes:      spec.Completed,
		Order:                 spec.Order,
		State:                 constants.TaskStateActive,
		CreatedAt:             created,
		UpdatedAt:             created,
	}
	require.NoError(t, s.CreateTask(context.Background(), task))
	return task
}

// UnitSpec describes a work unit fixture.
type UnitSpec struct {
	ID          string
	TaskID      string
	Minutes     int
	Completed   int
	Seq         int
	CompletedAt *time.Time
	Capability  string
}

// SeedUnit creates a work unit from the spec. Seq fixes insertion order.
func SeedUnit(t *testing.T, s store.Store, spec UnitSpec) *domain.WorkUnit {
	t.Helper()
	if spec.Minutes == 0 {
		spec.Minutes = 30
	}
	created := BaseTime.AddDate(0, -1, 0).Add(time.Duration(spec.Seq) * time.Second)
	unit := &domain.WorkUnit{
		ID:                    spec.ID,
		TaskID:                spec.TaskID,
		Title:                 "unit " + spec.ID,
		EstimatedTotalMinutes: spec.Minutes,
		CompletedMinutes:      spec.Completed,
		Kind:                  constants.KindPractice,
		CapabilityID:          spec.Capability,
		LastCompletedAt:       spec.CompletedAt,
		CreatedAt:             created,
		UpdatedAt:             created,
	}
	require.NoError(t, s.CreateWorkUnit(context.Background(), unit))
	return unit
}

// Ptr returns a pointer to v, for optional fixture fields.
func Ptr[T any](v T) *T {
	return &v
}
