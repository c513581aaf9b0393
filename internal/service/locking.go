package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gymops/gym-ops-api/pkg/config"
	appErrors "github.com/gymops/gym-ops-api/pkg/errors"
	"github.com/gymops/gym-ops-api/pkg/lock"
)

// trainerLockKey serialises every check-then-write against one trainer's
// agenda: class rule writes, shift assignment and session booking all take
// the same key, so two concurrent requests cannot both pass the conflict
// check and both persist.
func trainerLockKey(trainerID string) string {
	return "schedule:trainer:" + trainerID
}

func occurrenceLockKey(occurrenceID string) string {
	return "occurrence:" + occurrenceID
}

// acquireLock takes the named lock, retrying a bounded number of times
// before giving up with a retryable 503.
func acquireLock(ctx context.Context, locker lock.Locker, cfg config.BookingConfig, key string) error {
	attempts := cfg.LockRetries + 1
	for i := 0; i < attempts; i++ {
		ok, err := locker.Acquire(ctx, key, cfg.LockTTL)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire schedule lock")
		}
		if ok {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.LockRetryWait):
		}
	}
	return appErrors.Clone(appErrors.ErrLockUnavailable, "")
}

func releaseLock(ctx context.Context, locker lock.Locker, logger *zap.Logger, key string) {
	if err := locker.Release(ctx, key); err != nil {
		logger.Warn("failed to release schedule lock", zap.String("key", key), zap.Error(err))
	}
}
