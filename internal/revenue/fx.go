package revenue

import (
	"github.com/lankaconnect/eventpricing/internal/revenue/service"
	"go.uber.org/fx"
)

var Module = fx.Module("revenue.service",
	fx.Provide(service.New),
)
