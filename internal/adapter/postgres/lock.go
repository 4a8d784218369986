package postgres

import (
	"context"
	"errors"
)

// errNoTx is returned when a transaction-scoped lock is requested outside RunInTx.
var errNoTx = errors.New("advisory lock requires a transaction")

// AcquireXactLock takes a transaction-scoped advisory lock on key and blocks
// until it is granted. The lock is released when the surrounding transaction
// commits or rolls back, so it also serialises creators of rows that do not
// exist yet, which SELECT ... FOR UPDATE cannot do.
func AcquireXactLock(ctx context.Context, key string) error {
	if !InTx(ctx) {
		return errNoTx
	}
	q := QuerierFromCtx(ctx, nil)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return MapError(err, "advisory_lock", key)
	}
	return nil
}

// Locker exposes AcquireXactLock as a value so services can depend on an
// interface instead of the package function.
type Locker struct{}

// Lock calls AcquireXactLock.
func (Locker) Lock(ctx context.Context, key string) error {
	return AcquireXactLock(ctx, key)
}
