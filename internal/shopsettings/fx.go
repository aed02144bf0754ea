package shopsettings

import (
	"github.com/smallbiznis/shopcore/internal/shopsettings/repository"
	"github.com/smallbiznis/shopcore/internal/shopsettings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shopsettings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
