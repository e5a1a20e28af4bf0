package pace

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
	"github.com/emberflow/ember/internal/testutil"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	return NewController(testutil.TempStore(t), clock.At(testutil.BaseTime), zerolog.Nop())
}

func TestTarget_ColdStart(t *testing.T) {
	t.Parallel()
	c := newController(t)
	target, err := c.Target(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constants.InitialDailyUnits, target)
}

func TestRecordDay_RaisesOnHighRate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t)

	// Perfect follow-through for a week, starting at 3.
	var state *domain.PlannerState
	var err error
	for i := 0; i < 7; i++ {
		day := testutil.BaseTime.AddDate(0, 0, -6+i)
		state, err = c.RecordDay(ctx, day, 3, 3)
		require.NoError(t, err)
	}

	// The rate crosses 0.9 on the first evaluation already; the slow
	// controller still moves only one step per recorded day, so seven
	// perfect days saturate at the cap: 3 -> 4 -> 5 -> 6 -> 7 -> 7 -> 7.
	assert.Equal(t, constants.MaxDailyUnits, state.DailyTarget)
}

func TestRecordDay_ScenarioE(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t)

	// One recorded day with 10/10: rate 1.0 >= 0.9, 3 -> 4.
	state, err := c.RecordDay(ctx, testutil.BaseTime, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, state.DailyTarget)

	// A middling day keeps the target: rate stays between 0.5 and 0.9.
	state, err = c.RecordDay(ctx, testutil.BaseTime.AddDate(0, 0, 1), 10, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, state.DailyTarget, "rate 17/20 = 0.85 leaves the target unchanged")
}

func TestRecordDay_LowersOnLowRate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t)

	state, err := c.RecordDay(ctx, testutil.BaseTime, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.DailyTarget, "rate 0.25 steps 3 down to 2")

	// Further bad days cannot push below the floor.
	state, err = c.RecordDay(ctx, testutil.BaseTime.AddDate(0, 0, 1), 4, 0)
	require.NoError(t, err)
	assert.Equal(t, constants.MinDailyUnits, state.DailyTarget)
}

func TestRecordDay_BoundsAndStepSize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t)

	prev := constants.InitialDailyUnits
	outcomes := []struct{ planned, completed int }{
		{3, 3}, {4, 4}, {5, 5}, {6, 6}, {7, 7}, {7, 7}, {7, 7}, // climb to cap
		{7, 0}, {7, 0}, {7, 0}, {7, 0}, {7, 0}, {7, 0}, {7, 0}, // crash to floor
	}
	for i, o := range outcomes {
		day := testutil.BaseTime.AddDate(0, 0, i)
		state, err := c.RecordDay(ctx, day, o.planned, o.completed)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, state.DailyTarget, constants.MinDailyUnits)
		assert.LessOrEqual(t, state.DailyTarget, constants.MaxDailyUnits)
		assert.LessOrEqual(t, abs(state.DailyTarget-prev), 1, "changes at most 1 per evaluation")
		prev = state.DailyTarget
	}
	assert.Equal(t, constants.MinDailyUnits, prev)
}

func TestRecordDay_ColdStartPrior(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t)

	// A day where nothing was planned: prior 0.8 applies, target holds
	// instead of spiraling toward the floor.
	state, err := c.RecordDay(ctx, testutil.BaseTime, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, constants.InitialDailyUnits, state.DailyTarget)
}

func TestRecordPlanned(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t)

	// Nothing recorded yet.
	_, ok, err := c.PlannedFor(ctx, testutil.BaseTime)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.RecordPlanned(ctx, testutil.BaseTime, 2))
	planned, ok, err := c.PlannedFor(ctx, testutil.BaseTime)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, planned)

	// Rebuilding the plan replaces the record.
	require.NoError(t, c.RecordPlanned(ctx, testutil.BaseTime, 5))
	planned, ok, err = c.PlannedFor(ctx, testutil.BaseTime)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, planned)

	// Yesterday's record does not speak for today.
	_, ok, err = c.PlannedFor(ctx, testutil.BaseTime.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, c.RecordPlanned(ctx, testutil.BaseTime, -1))
}

func TestRecordDay_SameDateReplaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t)

	_, err := c.RecordDay(ctx, testutil.BaseTime, 3, 0)
	require.NoError(t, err)
	state, err := c.RecordDay(ctx, testutil.BaseTime, 3, 3)
	require.NoError(t, err)

	require.Len(t, state.Days, 1, "re-recording a date replaces, not appends")
	assert.Equal(t, 3, state.Days[0].Completed)
}

func TestRecordDay_NegativeCounts(t *testing.T) {
	t.Parallel()
	c := newController(t)
	_, err := c.RecordDay(context.Background(), testutil.BaseTime, -1, 0)
	assert.Error(t, err)
}

func TestRecordDay_TrimsOldHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newController(t)

	_, err := c.RecordDay(ctx, testutil.BaseTime.AddDate(0, 0, -30), 3, 3)
	require.NoError(t, err)
	state, err := c.RecordDay(ctx, testutil.BaseTime, 3, 3)
	require.NoError(t, err)

	require.Len(t, state.Days, 1, "month-old records fall off")
	assert.True(t, state.Days[0].Date.Equal(clock.StartOfDay(testutil.BaseTime.UTC())))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
