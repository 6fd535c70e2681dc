package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/smallbiznis/billhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

func newDBLimiter(t *testing.T, limit int) *DailyQueryLimiter {
	t.Helper()

	db := testutil.NewDB(t, &QueryLimitLog{})
	policy := config.DefaultBillingPolicy()
	policy.DailyQueryLimit = limit
	return NewDailyQueryLimiter(LimiterParams{
		Store:  NewDBStore(db, testutil.NewNode(t)),
		Policy: config.NewStaticPolicyHolder(policy),
		Log:    zap.NewNop(),
	})
}

func newRedisLimiter(t *testing.T, limit int) *DailyQueryLimiter {
	t.Helper()

	client, _ := setupTestRedis(t)
	policy := config.DefaultBillingPolicy()
	policy.DailyQueryLimit = limit
	return NewDailyQueryLimiter(LimiterParams{
		Store:  NewRedisStore(client),
		Policy: config.NewStaticPolicyHolder(policy),
		Log:    zap.NewNop(),
	})
}

func TestDailyQueryLimiter(t *testing.T) {
	backends := map[string]func(*testing.T, int) *DailyQueryLimiter{
		"database": newDBLimiter,
		"redis":    newRedisLimiter,
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("fourth query of the day is denied", func(t *testing.T) {
				ctx := context.Background()
				limiter := build(t, 3)
				clk := clock.NewFakeClock(time.Date(2024, 10, 5, 9, 0, 0, 0, time.UTC))

				for i := 1; i <= 3; i++ {
					decision, err := limiter.CheckAndIncrement(ctx, "1001", clk.Now())
					require.NoError(t, err)
					assert.True(t, decision.Allowed)
					assert.Equal(t, i, decision.Count)
					clk.Advance(time.Minute)
				}

				decision, err := limiter.CheckAndIncrement(ctx, "1001", clk.Now())
				require.Error(t, err)
				assert.False(t, decision.Allowed)
				assert.True(t, errors.Is(err, ErrRateLimitExceeded))

				var limitErr *LimitExceededError
				require.ErrorAs(t, err, &limitErr)
				assert.Equal(t, "1001", limitErr.SubscriberNo)
				assert.Equal(t, 3, limitErr.Limit)
				assert.Equal(t, time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC), limitErr.Day)
				assert.Equal(t, "Daily query limit exceeded for subscriber 1001. Max 3 per day.", limitErr.Error())
			})

			t.Run("counter resets on the next UTC day", func(t *testing.T) {
				ctx := context.Background()
				limiter := build(t, 3)
				clk := clock.NewFakeClock(time.Date(2024, 10, 5, 23, 59, 0, 0, time.UTC))

				for i := 0; i < 3; i++ {
					_, err := limiter.CheckAndIncrement(ctx, "1001", clk.Now())
					require.NoError(t, err)
				}
				_, err := limiter.CheckAndIncrement(ctx, "1001", clk.Now())
				require.ErrorIs(t, err, ErrRateLimitExceeded)

				clk.Advance(2 * time.Minute)
				decision, err := limiter.CheckAndIncrement(ctx, "1001", clk.Now())
				require.NoError(t, err)
				assert.Equal(t, 1, decision.Count)
			})

			t.Run("subscribers are counted independently and case-insensitively", func(t *testing.T) {
				ctx := context.Background()
				limiter := build(t, 1)
				now := time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC)

				_, err := limiter.CheckAndIncrement(ctx, "AB1", now)
				require.NoError(t, err)
				_, err = limiter.CheckAndIncrement(ctx, "ab1", now)
				require.ErrorIs(t, err, ErrRateLimitExceeded)

				_, err = limiter.CheckAndIncrement(ctx, "1002", now)
				require.NoError(t, err)
			})

			t.Run("concurrent callers never exceed the limit", func(t *testing.T) {
				ctx := context.Background()
				limiter := build(t, 3)
				now := time.Date(2024, 10, 5, 12, 0, 0, 0, time.UTC)

				var (
					wg      sync.WaitGroup
					mu      sync.Mutex
					allowed int
					denied  int
				)
				for i := 0; i < 10; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, err := limiter.CheckAndIncrement(ctx, "1003", now)
						mu.Lock()
						defer mu.Unlock()
						if err == nil {
							allowed++
						} else if errors.Is(err, ErrRateLimitExceeded) {
							denied++
						}
					}()
				}
				wg.Wait()

				assert.Equal(t, 3, allowed)
				assert.Equal(t, 7, denied)
			})
		})
	}
}

func TestCheckAndIncrementRejectsEmptySubscriber(t *testing.T) {
	limiter := newDBLimiter(t, 3)
	_, err := limiter.CheckAndIncrement(context.Background(), "  ", time.Now())
	assert.ErrorIs(t, err, ErrInvalidSubscriberNo)
}

func TestRedisCounterExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client)

	day := Day(time.Now())
	_, allowed, err := store.Increment(context.Background(), "1001", day, 3)
	require.NoError(t, err)
	assert.True(t, allowed)

	key := "billhub:query:1001:" + day.Format("20060102")
	assert.True(t, mr.Exists(key))
	assert.Greater(t, mr.TTL(key), time.Duration(0))
}

func TestLimitExceededRetryAfter(t *testing.T) {
	err := &LimitExceededError{SubscriberNo: "1001", Day: time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC), Limit: 3}
	now := time.Date(2024, 10, 5, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, 2*time.Hour, err.RetryAfter(now))
	assert.Equal(t, time.Duration(0), err.RetryAfter(now.Add(48*time.Hour)))
}
