package workorderpayment

import (
	"github.com/smallbiznis/shopcore/internal/workorderpayment/repository"
	"github.com/smallbiznis/shopcore/internal/workorderpayment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workorderpayment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
