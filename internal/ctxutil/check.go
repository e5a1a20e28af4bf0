// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled returns the context's error when it has been canceled or has
// exceeded its deadline, nil while it is still live. Store operations and
// the decomposition loop call it at entry so a dead context fails fast
// instead of touching disk or spawning a subprocess.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
