package ratelimit

import (
	"context"
	"time"
)

// Store persists daily counters. Increment must be atomic: it either bumps the
// counter below limit and reports allowed, or leaves it untouched and reports denied.
type Store interface {
	Increment(ctx context.Context, key string, day time.Time, limit int) (count int, allowed bool, err error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}
