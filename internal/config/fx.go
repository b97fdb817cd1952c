package config

import (
	revenuedomain "github.com/lankaconnect/eventpricing/internal/revenue/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewCommissionConfigHolder),
	fx.Provide(func(h *CommissionConfigHolder) revenuedomain.CommissionSettingsProvider { return h }),
)
