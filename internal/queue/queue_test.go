package queue

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/store"
	"github.com/emberflow/ember/internal/testutil"
)

func newManager(t *testing.T) (*Manager, *store.FileStore) {
	t.Helper()
	s := testutil.TempStore(t)
	return NewManager(s, clock.At(testutil.BaseTime), zerolog.Nop()), s
}

func TestHandleSkip_CountsAndRotates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, s := newManager(t)

	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-q"})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-q1", GoalID: "goal-q", Order: 0})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-q2", GoalID: "goal-q", Order: 1})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-q1", TaskID: "task-q1"})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-q2", TaskID: "task-q2"})
	_, err := m.Rehydrate(ctx)
	require.NoError(t, err)

	outcome, err := m.HandleSkip(ctx, "task-q1")
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Entry.SkipCount)
	require.NotNil(t, outcome.Entry.LastSkippedAt)
	assert.False(t, outcome.SuggestExtension)
	assert.False(t, outcome.Downgraded)

	// The skipped task moved behind its sibling.
	entries, err := s.LoadQueue(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "task-q2", entries[0].TaskID)
	assert.Equal(t, "task-q1", entries[1].TaskID)
}

func TestHandleSkip_AdvisoryExtension(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("near target proposes two weeks", func(t *testing.T) {
		t.Parallel()
		m, s := newManager(t)

		target := testutil.BaseTime.AddDate(0, 0, 10)
		testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-near", TargetDate: &target})
		testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-near", GoalID: "goal-near"})
		testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-near", TaskID: "task-near"})

		var outcome *SkipOutcome
		var err error
		for i := 0; i < constants.SkipAdvisoryThreshold; i++ {
			outcome, err = m.HandleSkip(ctx, "task-near")
			require.NoError(t, err)
		}

		// Single queued task, 3 skips: item threshold and goal average both met.
		assert.True(t, outcome.SuggestExtension)
		assert.Equal(t, constants.ShortExtensionDays, outcome.ExtensionDays)
		require.NotNil(t, outcome.ProposedTarget)
		assert.Equal(t, target.AddDate(0, 0, constants.ShortExtensionDays), *outcome.ProposedTarget)

		// Advisory only: the stored goal is untouched.
		goal, err := s.GetGoal(ctx, "goal-near")
		require.NoError(t, err)
		require.NotNil(t, goal.TargetDate)
		assert.Equal(t, target, goal.TargetDate.UTC())
	})

	t.Run("far target proposes a month", func(t *testing.T) {
		t.Parallel()
		m, s := newManager(t)

		target := testutil.BaseTime.AddDate(0, 0, 90)
		testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-far", TargetDate: &target})
		testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-far", GoalID: "goal-far"})
		testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-far", TaskID: "task-far"})

		var outcome *SkipOutcome
		var err error
		for i := 0; i < constants.SkipAdvisoryThreshold; i++ {
			outcome, err = m.HandleSkip(ctx, "task-far")
			require.NoError(t, err)
		}
		assert.True(t, outcome.SuggestExtension)
		assert.Equal(t, constants.LongExtensionDays, outcome.ExtensionDays)
	})

	t.Run("low goal average suppresses the suggestion", func(t *testing.T) {
		t.Parallel()
		m, s := newManager(t)

		testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-avg"})
		testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-avg1", GoalID: "goal-avg", Order: 0})
		testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-avg2", GoalID: "goal-avg", Order: 1})
		testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-avg3", GoalID: "goal-avg", Order: 2})
		testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-avg1", TaskID: "task-avg1"})
		testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-avg2", TaskID: "task-avg2"})
		testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-avg3", TaskID: "task-avg3"})
		_, err := m.Rehydrate(ctx)
		require.NoError(t, err)

		// Three skips on one of three tasks: item threshold met, but the
		// goal average is 1, below the goal-wide threshold.
		var outcome *SkipOutcome
		for i := 0; i < constants.SkipAdvisoryThreshold; i++ {
			outcome, err = m.HandleSkip(ctx, "task-avg1")
			require.NoError(t, err)
		}
		assert.False(t, outcome.SuggestExtension)
	})
}

func TestHandleSkip_EffortDowngrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, s := newManager(t)

	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-d"})
	// 120 remaining minutes classifies as heavy.
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-d", GoalID: "goal-d", Minutes: 120})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-d", TaskID: "task-d", Minutes: 120})

	var outcome *SkipOutcome
	var err error
	for i := 0; i < constants.SkipDowngradeThreshold; i++ {
		outcome, err = m.HandleSkip(ctx, "task-d")
		require.NoError(t, err)
	}
	assert.True(t, outcome.Downgraded)
	assert.Equal(t, constants.EffortMedium, outcome.Entry.Effort)

	// One more skip steps down again; the ratchet never climbs back.
	outcome, err = m.HandleSkip(ctx, "task-d")
	require.NoError(t, err)
	assert.True(t, outcome.Downgraded)
	assert.Equal(t, constants.EffortLight, outcome.Entry.Effort)

	outcome, err = m.HandleSkip(ctx, "task-d")
	require.NoError(t, err)
	assert.False(t, outcome.Downgraded, "light has no lower tier")
	assert.Equal(t, constants.EffortLight, outcome.Entry.Effort)
}

func TestRehydrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, s := newManager(t)

	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-r"})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-r1", GoalID: "goal-r", Order: 0})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-r2", GoalID: "goal-r", Order: 1})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-r1", TaskID: "task-r1"})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-r2", TaskID: "task-r2"})

	entries, err := m.Rehydrate(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "task-r1", entries[0].TaskID)
	assert.Equal(t, constants.EffortHeavy, entries[0].Effort)

	// A skip survives rehydration; a task finished in the meantime drops out.
	_, err = m.HandleSkip(ctx, "task-r1")
	require.NoError(t, err)

	unit, err := s.GetWorkUnit(ctx, "unit-r2")
	require.NoError(t, err)
	unit.CompletedMinutes = unit.EstimatedTotalMinutes
	require.NoError(t, s.UpdateWorkUnit(ctx, unit))
	task, err := s.GetTask(ctx, "task-r2")
	require.NoError(t, err)
	task.CompletedMinutes = task.EstimatedTotalMinutes
	require.NoError(t, s.UpdateTask(ctx, task))

	entries, err = m.Rehydrate(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "task-r1", entries[0].TaskID)
	assert.Equal(t, 1, entries[0].SkipCount)
}

func TestHandleSkip_UnknownTask(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)

	_, err := m.HandleSkip(context.Background(), "task-missing")
	require.Error(t, err)
}

func TestRehydrate_WaitingDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testutil.TempStore(t)

	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-w"})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-w", GoalID: "goal-w"})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-w", TaskID: "task-w"})

	early := NewManager(s, clock.At(testutil.BaseTime.AddDate(0, 0, -5)), zerolog.Nop())
	_, err := early.Rehydrate(ctx)
	require.NoError(t, err)

	later := NewManager(s, clock.At(testutil.BaseTime), zerolog.Nop())
	entries, err := later.Rehydrate(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].WaitingDays)
}
