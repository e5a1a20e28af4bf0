package allocate

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/momentum"
	"github.com/emberflow/ember/internal/queue"
	"github.com/emberflow/ember/internal/store"
	"github.com/emberflow/ember/internal/testutil"
)

func newSlotAllocator(t *testing.T) (*SlotAllocator, *store.FileStore) {
	t.Helper()
	s := testutil.TempStore(t)
	c := clock.At(testutil.BaseTime)
	tracker := momentum.NewTracker(s, c, zerolog.Nop())
	return NewSlotAllocator(s, tracker, c, zerolog.Nop()), s
}

func TestSlotAllocator_SingleGoalShortcut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, s := newSlotAllocator(t)

	// Scenario: one active goal, five incomplete units of 10..50 minutes,
	// target 3. The plan takes the three earliest in progression order,
	// regardless of score.
	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-solo"})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-solo", GoalID: "goal-solo", Minutes: 150})
	for i, m := range []int{10, 20, 30, 40, 50} {
		testutil.SeedUnit(t, s, testutil.UnitSpec{
			ID: "unit-" + string(rune('a'+i)), TaskID: "task-solo", Minutes: m, Seq: i,
		})
	}

	slices, err := a.Allocate(ctx, Budget{TargetCount: 3})
	require.NoError(t, err)
	require.Len(t, slices, 3)
	assert.Equal(t, "unit-a", slices[0].Unit.ID)
	assert.Equal(t, "unit-b", slices[1].Unit.ID)
	assert.Equal(t, "unit-c", slices[2].Unit.ID)
}

func TestSlotAllocator_TwoGoalsWithAttention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, s := newSlotAllocator(t)

	// Goal X worked today (high momentum); goal Y never worked (needs
	// attention). Target 4: X gets max(2, floor(4*0.6)) = 2, Y gets the
	// attention slot, and the leftover slot falls back to X.
	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-x", CreatedAt: testutil.BaseTime.AddDate(0, 0, -30)})
	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-y", CreatedAt: testutil.BaseTime.AddDate(0, 0, -20)})

	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-x", GoalID: "goal-x", Minutes: 300})
	doneToday := testutil.BaseTime.Add(-time.Hour)
	testutil.SeedUnit(t, s, testutil.UnitSpec{
		ID: "unit-x0", TaskID: "task-x", Minutes: 30, Completed: 30, CompletedAt: &doneToday,
	})
	for i := 1; i <= 4; i++ {
		testutil.SeedUnit(t, s, testutil.UnitSpec{
			ID: "unit-x" + string(rune('0'+i)), TaskID: "task-x", Minutes: 30, Seq: i,
		})
	}

	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-y", GoalID: "goal-y", Minutes: 120})
	for i := 0; i < 3; i++ {
		testutil.SeedUnit(t, s, testutil.UnitSpec{
			ID: "unit-y" + string(rune('0'+i)), TaskID: "task-y", Minutes: 30, Seq: i,
		})
	}

	slices, err := a.Allocate(ctx, Budget{TargetCount: 4})
	require.NoError(t, err)
	require.Len(t, slices, 4)

	perGoal := map[string]int{}
	for _, sl := range slices {
		perGoal[sl.Goal.ID]++
	}
	assert.Equal(t, 3, perGoal["goal-x"], "top goal gets its share plus the leftover")
	assert.Equal(t, 1, perGoal["goal-y"], "needs-attention goal is guaranteed a slot")

	// Within-goal order is strict progression, skipping the completed unit.
	assert.Equal(t, "unit-x1", slices[0].Unit.ID)
}

func TestSlotAllocator_Degenerate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no goals yields nil", func(t *testing.T) {
		a, _ := newSlotAllocator(t)
		slices, err := a.Allocate(ctx, Budget{TargetCount: 3})
		require.NoError(t, err)
		assert.Empty(t, slices)
	})

	t.Run("zero target yields nil", func(t *testing.T) {
		a, s := newSlotAllocator(t)
		testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-z"})
		slices, err := a.Allocate(ctx, Budget{TargetCount: 0})
		require.NoError(t, err)
		assert.Empty(t, slices)
	})

	t.Run("all units complete yields nil", func(t *testing.T) {
		a, s := newSlotAllocator(t)
		testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-done"})
		testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-done", GoalID: "goal-done"})
		testutil.SeedUnit(t, s, testutil.UnitSpec{
			ID: "unit-done", TaskID: "task-done", Minutes: 30, Completed: 30,
		})
		slices, err := a.Allocate(ctx, Budget{TargetCount: 3})
		require.NoError(t, err)
		assert.Empty(t, slices)
	})
}

func TestSlotAllocator_Deterministic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, s := newSlotAllocator(t)

	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-d1", CreatedAt: testutil.BaseTime.AddDate(0, 0, -10)})
	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-d2", CreatedAt: testutil.BaseTime.AddDate(0, 0, -5)})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-d1", GoalID: "goal-d1"})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-d2", GoalID: "goal-d2"})
	for i := 0; i < 3; i++ {
		testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-d1" + string(rune('a'+i)), TaskID: "task-d1", Seq: i})
		testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-d2" + string(rune('a'+i)), TaskID: "task-d2", Seq: i})
	}

	first, err := a.Allocate(ctx, Budget{TargetCount: 4})
	require.NoError(t, err)
	second, err := a.Allocate(ctx, Budget{TargetCount: 4})
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Unit.ID, second[i].Unit.ID)
	}
}

func TestSlotAllocator_SkipRotationReordersSiblings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, s := newSlotAllocator(t)

	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-rot"})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-rot1", GoalID: "goal-rot", Order: 0, Minutes: 30})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-rot2", GoalID: "goal-rot", Order: 1, Minutes: 30})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-rot1", TaskID: "task-rot1", Minutes: 30})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-rot2", TaskID: "task-rot2", Minutes: 30})

	m := queue.NewManager(s, clock.At(testutil.BaseTime), zerolog.Nop())
	_, err := m.Rehydrate(ctx)
	require.NoError(t, err)

	slices, err := a.Allocate(ctx, Budget{TargetCount: 1})
	require.NoError(t, err)
	require.Len(t, slices, 1)
	assert.Equal(t, "unit-rot1", slices[0].Unit.ID)

	// Skipping the lead task rotates it behind its sibling, and the next
	// allocation leads with the sibling's unit instead.
	_, err = m.HandleSkip(ctx, "task-rot1")
	require.NoError(t, err)

	slices, err = a.Allocate(ctx, Budget{TargetCount: 1})
	require.NoError(t, err)
	require.Len(t, slices, 1)
	assert.Equal(t, "unit-rot2", slices[0].Unit.ID)
}

func TestSlotAllocator_CapabilityDedup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, s := newSlotAllocator(t)

	testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-cap"})
	testutil.SeedTask(t, s, testutil.TaskSpec{ID: "task-cap", GoalID: "goal-cap"})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-cap1", TaskID: "task-cap", Capability: "skill:scales", Seq: 0})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-cap2", TaskID: "task-cap", Capability: "skill:scales", Seq: 1})
	testutil.SeedUnit(t, s, testutil.UnitSpec{ID: "unit-cap3", TaskID: "task-cap", Seq: 2})

	slices, err := a.Allocate(ctx, Budget{TargetCount: 5})
	require.NoError(t, err)
	require.Len(t, slices, 2, "duplicate capability is scheduled once")
	assert.Equal(t, "unit-cap1", slices[0].Unit.ID)
	assert.Equal(t, "unit-cap3", slices[1].Unit.ID)
}
