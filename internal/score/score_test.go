package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func candidate(unitMinutes, unitDone int, goal *domain.Goal) Candidate {
	if goal == nil {
		goal = &domain.Goal{ID: "goal-1", UpdatedAt: testNow}
	}
	task := &domain.Task{ID: "task-1", GoalID: goal.ID, EstimatedTotalMinutes: unitMinutes, CompletedMinutes: unitDone}
	unit := &domain.WorkUnit{ID: "unit-1", TaskID: task.ID, EstimatedTotalMinutes: unitMinutes, CompletedMinutes: unitDone}
	return Candidate{Unit: unit, Task: task, Goal: goal}
}

func goalWithTarget(daysAhead int) *domain.Goal {
	target := testNow.AddDate(0, 0, daysAhead)
	return &domain.Goal{ID: "goal-t", TargetDate: &target, UpdatedAt: testNow}
}

func TestScore_UrgencySteps(t *testing.T) {
	t.Parallel()

	// Same progression and rotation throughout, so score differences come
	// from the urgency step function alone.
	scoreAt := func(goal *domain.Goal) float64 {
		return Score(candidate(60, 0, goal), testNow)
	}

	overdue := scoreAt(goalWithTarget(-1))
	thisWeek := scoreAt(goalWithTarget(5))
	twoWeeks := scoreAt(goalWithTarget(12))
	thisMonth := scoreAt(goalWithTarget(25))
	someday := scoreAt(goalWithTarget(90))
	noTarget := scoreAt(&domain.Goal{ID: "goal-n", UpdatedAt: testNow})

	assert.Greater(t, overdue, thisWeek)
	assert.Greater(t, thisWeek, twoWeeks)
	assert.Greater(t, twoWeeks, thisMonth)
	assert.Greater(t, thisMonth, someday)
	// Neutral 0.5 vs someday 0.3: the gap is exactly the urgency weight times
	// the step difference.
	assert.InDelta(t, 100*0.4*(0.5-0.3), noTarget-someday, 0.001)
}

func TestScore_Progression(t *testing.T) {
	t.Parallel()
	goal := &domain.Goal{ID: "goal-p", UpdatedAt: testNow}

	t.Run("equal remaining fraction scores identically", func(t *testing.T) {
		fresh := candidate(60, 0, goal)
		half := candidate(120, 60, goal)
		// 60/60 = 1.0 vs 60/120 = 0.5: fractions differ, scores differ.
		assert.Greater(t, Score(fresh, testNow), Score(half, testNow))

		// Same fraction, same score regardless of absolute size.
		a := candidate(100, 50, goal)
		b := candidate(200, 100, goal)
		assert.InDelta(t, Score(a, testNow), Score(b, testNow), 0.0001)
	})
}

func TestScore_RotationFairness(t *testing.T) {
	t.Parallel()

	scoreIdleDays := func(days int) float64 {
		g := &domain.Goal{ID: "goal-r", UpdatedAt: testNow.AddDate(0, 0, -days)}
		return Score(candidate(60, 0, g), testNow)
	}

	assert.Greater(t, scoreIdleDays(3), scoreIdleDays(0))
	assert.Greater(t, scoreIdleDays(7), scoreIdleDays(3))
	assert.Equal(t, scoreIdleDays(7), scoreIdleDays(30), "fairness caps at 7 days")
}

func TestScore_NeutralDefaults(t *testing.T) {
	t.Parallel()

	t.Run("missing optional fields never error", func(t *testing.T) {
		c := candidate(60, 0, &domain.Goal{ID: "goal-bare"})
		assert.NotPanics(t, func() { Score(c, testNow) })
		assert.Positive(t, Score(c, testNow))
	})
}

func TestScore_ContractViolations(t *testing.T) {
	t.Parallel()

	t.Run("nil goal panics", func(t *testing.T) {
		c := candidate(60, 0, nil)
		c.Goal = nil
		assert.Panics(t, func() { Score(c, testNow) })
	})

	t.Run("negative minutes panic", func(t *testing.T) {
		c := candidate(60, 0, nil)
		c.Unit.EstimatedTotalMinutes = -5
		assert.Panics(t, func() { Score(c, testNow) })
	})
}

func TestDensity(t *testing.T) {
	t.Parallel()
	goal := &domain.Goal{ID: "goal-d", UpdatedAt: testNow}

	short := candidate(20, 0, goal)
	long := candidate(80, 0, goal)

	assert.Greater(t, Density(short, testNow), Density(long, testNow),
		"equal-score candidates rank by value per minute")

	t.Run("zero remaining falls back to raw score", func(t *testing.T) {
		done := candidate(60, 60, goal)
		assert.Equal(t, Score(done, testNow), Density(done, testNow))
	})
}

func TestSort_LightBeforeHeavy(t *testing.T) {
	t.Parallel()
	goal := &domain.Goal{ID: "goal-s", UpdatedAt: testNow.AddDate(0, 0, -7)}

	heavyHighScore := candidate(240, 0, goalWithTarget(-1)) // overdue, heavy
	lightLowScore := candidate(25, 0, goal)

	cands := []Candidate{heavyHighScore, lightLowScore}
	Sort(cands, testNow)

	require.Len(t, cands, 2)
	assert.False(t, cands[0].IsHeavy(), "light sorts first regardless of score")
	assert.True(t, cands[1].IsHeavy())
}

func TestIsHeavy_PerceivedEffortOverride(t *testing.T) {
	t.Parallel()

	c := candidate(240, 0, nil)
	assert.True(t, c.IsHeavy(), "240 remaining minutes read heavy by default")

	c.Effort = constants.EffortMedium
	assert.False(t, c.IsHeavy(), "a downgraded tier overrides the minute boundary")

	c.Effort = constants.EffortHeavy
	assert.True(t, c.IsHeavy())
}

func TestSort_Deterministic(t *testing.T) {
	t.Parallel()
	goal := &domain.Goal{ID: "goal-det", UpdatedAt: testNow}

	a := candidate(30, 0, goal)
	a.Unit.ID = "unit-a"
	b := candidate(30, 0, goal)
	b.Unit.ID = "unit-b"

	cands := []Candidate{a, b}
	Sort(cands, testNow)
	assert.Equal(t, "unit-a", cands[0].Unit.ID, "stable sort keeps incoming order on ties")

	again := []Candidate{a, b}
	Sort(again, testNow)
	assert.Equal(t, cands[0].Unit.ID, again[0].Unit.ID)
}
