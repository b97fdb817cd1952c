package pricing

import (
	"github.com/lankaconnect/eventpricing/internal/pricing/publisher"
	"github.com/lankaconnect/eventpricing/internal/pricing/repository"
	"github.com/lankaconnect/eventpricing/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(publisher.New),
	fx.Provide(service.New),
)
