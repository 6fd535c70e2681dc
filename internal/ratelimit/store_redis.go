package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyDailyQuery = "billhub:query:%s:%s"

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Increment(ctx context.Context, key string, day time.Time, limit int) (int, bool, error) {
	if s.client == nil {
		return 0, false, errStoreNotConfigured
	}

	redisKey := fmt.Sprintf(keyDailyQuery, key, day.Format("20060102"))
	// Counters outlive their day by 24h so late readers still see the final value.
	expireAt := day.AddDate(0, 0, 2)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireAt(ctx, redisKey, expireAt)
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	count := int(incr.Val())
	if count <= limit {
		return count, true, nil
	}

	if err := s.client.Decr(ctx, redisKey).Err(); err != nil {
		return 0, false, err
	}
	return limit, false, nil
}

// Purge is a no-op: redis counters expire on their own.
func (s *redisStore) Purge(context.Context, time.Time) (int64, error) {
	return 0, nil
}
