package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	lockKey   = "explore-sync:lock"
	cancelKey = "explore-sync:cancel"
)

// RunLock serializes sync runs across instances through a Redis SETNX key
// with a TTL, and carries a cooperative cancel flag. The TTL guards against
// a crashed run holding the lock forever.
type RunLock struct {
	ttl time.Duration
}

// NewRunLock creates a run lock with the given expiry.
func NewRunLock(ttl time.Duration) *RunLock {
	return &RunLock{ttl: ttl}
}

// Acquire takes the lock. It returns false when another run holds it.
func (l *RunLock) Acquire(ctx context.Context) (bool, error) {
	return SetNX(ctx, lockKey, time.Now().UTC().Format(time.RFC3339), l.ttl)
}

// Release drops the lock.
func (l *RunLock) Release(ctx context.Context) error {
	return Del(ctx, lockKey)
}

// RequestCancel raises the cancel flag the running pipeline polls between
// persistence batches. The flag outlives the lock TTL slightly so a cancel
// raised near expiry still lands.
func (l *RunLock) RequestCancel(ctx context.Context) error {
	return Set(ctx, cancelKey, "1", l.ttl+time.Minute)
}

// Canceled reports whether the cancel flag is raised.
func (l *RunLock) Canceled(ctx context.Context) (bool, error) {
	_, err := Get(ctx, cancelKey)
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ClearCancel lowers the cancel flag. Called at run start so a stale flag
// from a previous run cannot abort a fresh one.
func (l *RunLock) ClearCancel(ctx context.Context) error {
	return Del(ctx, cancelKey)
}
