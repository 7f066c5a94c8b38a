// Package lock provides keyed mutual exclusion used to serialize
// code generation per project.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock could not be taken before ctx was done.
var ErrNotAcquired = errors.New("lock not acquired")

// UnlockFunc releases a held lock. It is safe to call more than once.
type UnlockFunc func()

// Locker hands out exclusive locks keyed by an arbitrary string.
type Locker interface {
	// Lock blocks until key is held or ctx is done.
	Lock(ctx context.Context, key string) (UnlockFunc, error)
}
