package purchaseorder

import (
	"github.com/smallbiznis/shopcore/internal/purchaseorder/repository"
	"github.com/smallbiznis/shopcore/internal/purchaseorder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchaseorder.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
