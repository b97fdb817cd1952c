package taxrate

import (
	"github.com/lankaconnect/eventpricing/internal/taxrate/repository"
	"github.com/lankaconnect/eventpricing/internal/taxrate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxrate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
