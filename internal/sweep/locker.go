package sweep

import (
	"context"
	"time"

	"studiovault/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// lockTTL bounds how long a crashed run can hold a job lock.
const lockTTL = 10 * time.Minute

// RedisLocker serializes sweep jobs across processes using a concurrency
// cap of one per job key. Cron-triggered and interval-triggered runs of the
// same job therefore never overlap.
type RedisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb}
}

func (l *RedisLocker) TryLock(ctx context.Context, job string) (func(), bool, error) {
	key := "sweep:lock:" + job
	ok, err := utils.AcquireConcurrencyCap(ctx, l.rdb, key, 1, lockTTL)
	if err != nil || !ok {
		return nil, false, err
	}
	release := func() {
		// Best-effort; the TTL reclaims the lock if this fails.
		_ = utils.ReleaseConcurrencyCap(context.WithoutCancel(ctx), l.rdb, key)
	}
	return release, true, nil
}
