package partsearch

import (
	"github.com/smallbiznis/shopcore/internal/partsearch/repository"
	"github.com/smallbiznis/shopcore/internal/partsearch/service"
	"go.uber.org/fx"
)

var Module = fx.Module("partsearch.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
