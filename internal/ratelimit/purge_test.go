package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"github.com/smallbiznis/billhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPurgerRemovesExpiredCounters(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &QueryLimitLog{})
	limiter := NewDailyQueryLimiter(LimiterParams{
		Store:  NewDBStore(db, testutil.NewNode(t)),
		Policy: config.NewStaticPolicyHolder(config.DefaultBillingPolicy()),
		Log:    zap.NewNop(),
	})

	old := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC)
	_, err := limiter.CheckAndIncrement(ctx, "1001", old)
	require.NoError(t, err)
	_, err = limiter.CheckAndIncrement(ctx, "1001", recent)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC))
	purger := NewPurger(limiter, clk, zap.NewNop(), 30)

	removed, err := purger.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var remaining int64
	require.NoError(t, db.Model(&QueryLimitLog{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestPurgerStartStop(t *testing.T) {
	db := testutil.NewDB(t, &QueryLimitLog{})
	limiter := NewDailyQueryLimiter(LimiterParams{
		Store: NewDBStore(db, testutil.NewNode(t)),
		Log:   zap.NewNop(),
	})

	purger := NewPurger(limiter, clock.New(), zap.NewNop(), 0)
	purger.Start()
	purger.Stop()
}
