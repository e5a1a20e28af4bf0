package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelIdentity(t *testing.T) {
	t.Parallel()

	t.Run("wrapped sentinels remain matchable", func(t *testing.T) {
		err := fmt.Errorf("loading plan: %w", ErrGoalNotFound)
		assert.True(t, stderrors.Is(err, ErrGoalNotFound))
		assert.False(t, stderrors.Is(err, ErrTaskNotFound))
	})

	t.Run("messages are lowercase", func(t *testing.T) {
		for _, err := range []error{
			ErrGoalNotFound, ErrTaskNotFound, ErrWorkUnitNotFound,
			ErrEmptyValue, ErrNegativeMinutes, ErrStoreUnavailable,
			ErrDecomposeFailed, ErrInvalidBreakdown,
		} {
			msg := err.Error()
			require.NotEmpty(t, msg)
			assert.Equal(t, msg[0], msg[0]|0x20, "sentinel %q should start lowercase", msg)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
		assert.NoError(t, Wrapf(nil, "context %d", 1))
	})

	t.Run("adds context and preserves chain", func(t *testing.T) {
		err := Wrap(ErrLockTimeout, "saving planner state")
		require.Error(t, err)
		assert.Equal(t, "saving planner state: lock acquisition timed out", err.Error())
		assert.True(t, stderrors.Is(err, ErrLockTimeout))
	})

	t.Run("wrapf interpolates", func(t *testing.T) {
		err := Wrapf(ErrGoalNotFound, "failed to load goal %s", "goal-abc123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "goal-abc123")
		assert.True(t, stderrors.Is(err, ErrGoalNotFound))
	})
}
