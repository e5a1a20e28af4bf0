package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	c := RealClock{}

	before := time.Now()
	got := c.Now()
	after := time.Now()

	assert.False(t, got.Before(before), "clock.Now() should not return time before actual time.Now()")
	assert.False(t, got.After(after), "clock.Now() should not return time after actual time.Now()")
}

func TestFixed_Now(t *testing.T) {
	pinned := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	c := At(pinned)

	assert.Equal(t, pinned, c.Now())
	// Repeated calls return the same instant.
	assert.Equal(t, pinned, c.Now())
}

func TestSameDay(t *testing.T) {
	t.Parallel()
	morning := time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)
	night := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2025, 3, 2, 0, 1, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(night, nextDay))
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	t.Run("same day is zero", func(t *testing.T) {
		a := time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC)
		b := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, 0, DaysBetween(a, b))
	})

	t.Run("late yesterday to early today is one", func(t *testing.T) {
		a := time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC)
		b := time.Date(2025, 3, 2, 0, 10, 0, 0, time.UTC)
		assert.Equal(t, 1, DaysBetween(a, b))
	})

	t.Run("reversed order goes negative", func(t *testing.T) {
		a := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
		b := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, -3, DaysBetween(a, b))
	})

	t.Run("week span", func(t *testing.T) {
		a := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		b := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, 7, DaysBetween(a, b))
	})
}
