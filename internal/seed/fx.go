package seed

import (
	"context"

	"github.com/smallbiznis/billhub/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("seed",
	fx.Provide(New),
	fx.Invoke(func(cfg config.Config, s *Seeder) error {
		if !cfg.SeedDemoData {
			return nil
		}
		return s.Run(context.Background())
	}),
)
