package laborrate

import (
	"github.com/smallbiznis/shopcore/internal/laborrate/repository"
	"github.com/smallbiznis/shopcore/internal/laborrate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("laborrate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
