package part

import (
	"github.com/smallbiznis/shopcore/internal/part/repository"
	"github.com/smallbiznis/shopcore/internal/part/service"
	"go.uber.org/fx"
)

var Module = fx.Module("part.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
