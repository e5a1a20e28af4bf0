//go:build unix

package flock_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/ember/internal/flock"
)

func TestExclusive(t *testing.T) {
	t.Parallel()

	t.Run("acquires and releases on a new file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "test.lock")
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test temp dir
		require.NoError(t, err)
		defer func() { require.NoError(t, f.Close()) }()

		require.NoError(t, flock.Exclusive(f.Fd()))
		require.NoError(t, flock.Unlock(f.Fd()))
	})

	t.Run("second descriptor cannot acquire while held", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "test.lock")

		f1, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test temp dir
		require.NoError(t, err)
		defer func() { require.NoError(t, f1.Close()) }()
		require.NoError(t, flock.Exclusive(f1.Fd()))

		f2, err := os.OpenFile(path, os.O_RDWR, 0o600) // #nosec G304 -- test temp dir
		require.NoError(t, err)
		defer func() { require.NoError(t, f2.Close()) }()
		assert.Error(t, flock.Exclusive(f2.Fd()))

		require.NoError(t, flock.Unlock(f1.Fd()))
	})
}

func TestAcquire(t *testing.T) {
	t.Parallel()

	t.Run("returns a working release func", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "state.lock")

		release, err := flock.Acquire(context.Background(), path)
		require.NoError(t, err)
		release()

		// Lock can be re-acquired after release.
		release2, err := flock.Acquire(context.Background(), path)
		require.NoError(t, err)
		release2()
	})

	t.Run("respects context cancellation while waiting", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "state.lock")

		release, err := flock.Acquire(context.Background(), path)
		require.NoError(t, err)
		defer release()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = flock.Acquire(ctx, path)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
