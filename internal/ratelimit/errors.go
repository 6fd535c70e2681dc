package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRateLimitExceeded   = errors.New("rate_limit_exceeded")
	ErrInvalidSubscriberNo = errors.New("invalid_subscriber_no")
	ErrLockNotConfigured   = errors.New("lock client not configured")
	ErrLockNotAcquired     = errors.New("lock_not_acquired")

	errStoreNotConfigured = errors.New("rate limit store not configured")
)

// LimitExceededError reports a denied query together with the counter it hit.
type LimitExceededError struct {
	SubscriberNo string
	Day          time.Time
	Limit        int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("Daily query limit exceeded for subscriber %s. Max %d per day.", e.SubscriberNo, e.Limit)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}

// RetryAfter is the time left until the counter day rolls over.
func (e *LimitExceededError) RetryAfter(now time.Time) time.Duration {
	next := e.Day.AddDate(0, 0, 1)
	if wait := next.Sub(now.UTC()); wait > 0 {
		return wait
	}
	return 0
}
