// Package flock provides file locking for read-modify-write critical sections.
//
// The planner keeps two ratchets on disk (the adaptive daily target and the
// task queue cache); both must be updated without lost writes even if a second
// process appears later (multi-tab, device sync). Exclusive/Unlock are the
// raw non-blocking primitives; Acquire layers bounded retry on top and returns
// a release function:
//
//	release, err := flock.Acquire(ctx, lockPath)
//	if err != nil {
//	    return err
//	}
//	defer release()
package flock

import (
	"context"
	"os"
	"time"

	"github.com/emberflow/ember/internal/constants"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// lockFilePerm is the permission for lock files.
const lockFilePerm = 0o600

// Acquire opens (creating if needed) the lock file at path and acquires an
// exclusive lock, retrying every LockRetryInterval until LockTimeout or
// context cancellation. The returned function releases the lock and closes
// the file; it is safe to call exactly once.
func Acquire(ctx context.Context, path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, lockFilePerm) // #nosec G304 -- path is store-internal
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to open lock file")
	}

	deadline := time.Now().Add(constants.LockTimeout)
	for {
		if err := Exclusive(f.Fd()); err == nil {
			return func() {
				_ = Unlock(f.Fd())
				_ = f.Close()
			}, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, emberrors.ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		case <-time.After(constants.LockRetryInterval):
		}
	}
}
