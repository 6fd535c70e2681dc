package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/billhub/internal/config"
	"github.com/smallbiznis/billhub/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	endpointBillSummary = "bill_summary"
	reasonDailyLimit    = "daily_limit"
)

// QueryLimiter gates self-service bill queries per subscriber and UTC day.
type QueryLimiter interface {
	CheckAndIncrement(ctx context.Context, subscriberNo string, asOf time.Time) (Decision, error)
}

type LimiterParams struct {
	fx.In

	Store   Store
	Policy  *config.PolicyHolder
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type DailyQueryLimiter struct {
	store   Store
	policy  *config.PolicyHolder
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewDailyQueryLimiter(p LimiterParams) *DailyQueryLimiter {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &DailyQueryLimiter{
		store:   p.Store,
		policy:  p.Policy,
		log:     log.Named("ratelimit"),
		metrics: p.Metrics,
	}
}

// CheckAndIncrement consumes one query for subscriberNo on the UTC day of asOf.
// A denied call returns *LimitExceededError and leaves the counter unchanged.
func (l *DailyQueryLimiter) CheckAndIncrement(ctx context.Context, subscriberNo string, asOf time.Time) (Decision, error) {
	key := counterKey(subscriberNo)
	if key == "" {
		return Decision{}, ErrInvalidSubscriberNo
	}
	if l == nil || l.store == nil {
		return Decision{}, errStoreNotConfigured
	}

	day := Day(asOf)
	limit := l.policy.Get().DailyQueryLimit

	count, allowed, err := l.store.Increment(ctx, key, day, limit)
	if err != nil {
		return Decision{}, fmt.Errorf("increment query counter: %w", err)
	}

	decision := Decision{
		Allowed: allowed,
		Count:   count,
		Limit:   limit,
		Day:     day,
	}
	if !allowed {
		l.metrics.RecordRateLimitDenied(ctx, endpointBillSummary, reasonDailyLimit)
		l.log.Info("daily query limit reached",
			zap.String("subscriber_no", strings.TrimSpace(subscriberNo)),
			zap.Time("day", day),
			zap.Int("limit", limit),
		)
		return decision, &LimitExceededError{
			SubscriberNo: strings.TrimSpace(subscriberNo),
			Day:          day,
			Limit:        limit,
		}
	}

	l.metrics.RecordRateLimitAllowed(ctx, endpointBillSummary)
	return decision, nil
}

// Purge drops counters for days before the given instant.
func (l *DailyQueryLimiter) Purge(ctx context.Context, before time.Time) (int64, error) {
	if l == nil || l.store == nil {
		return 0, errStoreNotConfigured
	}
	return l.store.Purge(ctx, before)
}

var _ QueryLimiter = (*DailyQueryLimiter)(nil)
