package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanningBounds(t *testing.T) {
	t.Run("daily unit bounds bracket the initial target", func(t *testing.T) {
		assert.GreaterOrEqual(t, InitialDailyUnits, MinDailyUnits)
		assert.LessOrEqual(t, InitialDailyUnits, MaxDailyUnits)
	})

	t.Run("min slice floor stays below max slices", func(t *testing.T) {
		assert.Less(t, DefaultMinSlices, DefaultMaxSlices)
	})

	t.Run("slice size boundaries are ordered", func(t *testing.T) {
		assert.Less(t, WarmUpMaxMinutes, SettleMaxMinutes)
		assert.Less(t, SettleMaxMinutes, HeavyRemainingMinutes)
	})
}

func TestEffortLevel_Downgrade(t *testing.T) {
	t.Run("steps down one tier at a time", func(t *testing.T) {
		assert.Equal(t, EffortMedium, EffortHeavy.Downgrade())
		assert.Equal(t, EffortLight, EffortMedium.Downgrade())
	})

	t.Run("light is a fixed point", func(t *testing.T) {
		assert.Equal(t, EffortLight, EffortLight.Downgrade())
	})
}

func TestGoalStatus_IsValid(t *testing.T) {
	for _, s := range []GoalStatus{GoalStatusActive, GoalStatusPaused, GoalStatusDrained} {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, GoalStatus("done").IsValid())
}

func TestWorkUnitKind_IsValid(t *testing.T) {
	for _, k := range ValidKinds() {
		assert.True(t, k.IsValid(), k.String())
	}
	assert.False(t, WorkUnitKind("binge").IsValid())
}
