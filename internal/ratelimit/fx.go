package ratelimit

import (
	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/billhub/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(provideStore),
	fx.Provide(NewDailyQueryLimiter),
	fx.Provide(func(l *DailyQueryLimiter) QueryLimiter { return l }),
	fx.Provide(NewLocker),
	fx.Invoke(RegisterPurger),
)

func provideStore(cfg config.Config, db *gorm.DB, genID *snowflake.Node, client *redis.Client) Store {
	if cfg.RateLimit.Backend == config.RateLimitBackendRedis && client != nil {
		return NewRedisStore(client)
	}
	return NewDBStore(db, genID)
}
