package billimport

import (
	"github.com/smallbiznis/billhub/internal/billimport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billimport.service",
	fx.Provide(service.New),
)
