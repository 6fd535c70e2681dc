package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/billhub/internal/clock"
	"github.com/smallbiznis/billhub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const purgeInterval = 24 * time.Hour

type PurgerParams struct {
	fx.In

	Lc      fx.Lifecycle
	Cfg     config.Config
	Limiter *DailyQueryLimiter
	Clock   clock.Clock
	Log     *zap.Logger
}

// Purger removes expired daily counters once at startup and then every day.
type Purger struct {
	limiter   *DailyQueryLimiter
	clock     clock.Clock
	log       *zap.Logger
	retention time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPurger(limiter *DailyQueryLimiter, clk clock.Clock, log *zap.Logger, retentionDays int) *Purger {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &Purger{
		limiter:   limiter,
		clock:     clk,
		log:       log.Named("ratelimit.purge"),
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func RegisterPurger(p PurgerParams) {
	purger := NewPurger(p.Limiter, p.Clock, p.Log, p.Cfg.RateLimit.QueryLogRetentionDays)
	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			purger.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			purger.Stop()
			return nil
		},
	})
}

// RunOnce deletes counters older than the retention window relative to the clock.
func (p *Purger) RunOnce(ctx context.Context) (int64, error) {
	cutoff := p.clock.Now().Add(-p.retention)
	removed, err := p.limiter.Purge(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		p.log.Info("purged query counters", zap.Int64("removed", removed), zap.Time("before", Day(cutoff)))
	}
	return removed, nil
}

func (p *Purger) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

func (p *Purger) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Purger) run(ctx context.Context) {
	if _, err := p.RunOnce(ctx); err != nil {
		p.log.Warn("purge query counters failed", zap.Error(err))
	}

	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.RunOnce(ctx); err != nil {
				p.log.Warn("purge query counters failed", zap.Error(err))
			}
		}
	}
}
