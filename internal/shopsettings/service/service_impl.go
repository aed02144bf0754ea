package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/config"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"github.com/smallbiznis/shopcore/internal/shopsettings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var maxPercentage = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Shops    shopdomain.Service
	Defaults *config.ShopDefaultsHolder `optional:"true"`
	Clock    clock.Clock                `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	shops    shopdomain.Service
	defaults *config.ShopDefaultsHolder
	clock    clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("shopsettings.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		shops:    p.Shops,
		defaults: p.Defaults,
		clock:    clk,
	}
}

// Get returns the shop's settings, creating the rule rows from the
// configured defaults on first access.
func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	var out domain.Settings
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		supply, core, err := s.ensure(ctx, tx, scope)
		if err != nil {
			return err
		}
		out = toSettings(supply, core)
		return nil
	})
	return out, err
}

func (s *Service) Save(ctx context.Context, req domain.SaveRequest) (domain.Settings, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if req.ShopSupplyPercentage != nil {
		pct := *req.ShopSupplyPercentage
		if pct.IsNegative() || pct.GreaterThan(maxPercentage) {
			return domain.Settings{}, domain.ErrInvalidPercentage
		}
	}

	var out domain.Settings
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		supply, core, err := s.ensure(ctx, tx, scope)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		if req.ShopSupplyPercentage != nil {
			supply.ShopSupplyPercentage = req.ShopSupplyPercentage.Round(2)
			supply.IsActive = true
			supply.UpdatedAt = now
			if err := s.repo.UpdateSupplyRule(ctx, tx, supply); err != nil {
				return err
			}
		}
		if req.ChargeForCoresDefault != nil {
			core.ChargeForCoresDefault = *req.ChargeForCoresDefault
			core.UpdatedAt = now
			if scope.UserID != 0 {
				actor := scope.UserID
				core.UpdatedBy = &actor
			}
			if err := s.repo.UpdateCoreChargeRule(ctx, tx, core); err != nil {
				return err
			}
		}
		out = toSettings(supply, core)
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	s.log.Info("work order settings saved",
		zap.String("shop_id", scope.ShopID.String()),
		zap.String("shop_supply_percentage", out.ShopSupplyPercentage.String()),
		zap.Bool("charge_for_cores_default", out.ChargeForCoresDefault),
	)
	return out, nil
}

func (s *Service) ensure(ctx context.Context, tx *gorm.DB, scope shopcontext.Scope) (*domain.SupplyRule, *domain.CoreChargeRule, error) {
	defaults := s.defaults.Get()
	now := s.clock.Now()

	supply, err := s.repo.FindSupplyRule(ctx, tx, scope.TenantID, scope.ShopID)
	if err != nil {
		return nil, nil, err
	}
	if supply == nil {
		rule := &domain.SupplyRule{
			ID:                   s.genID.Generate(),
			TenantID:             scope.TenantID,
			ShopID:               scope.ShopID,
			ShopSupplyPercentage: decimal.NewFromFloat(defaults.ShopSupplyPercentage).Round(2),
			IsActive:             true,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := s.repo.EnsureSupplyRule(ctx, tx, rule); err != nil {
			return nil, nil, err
		}
		if supply, err = s.repo.FindSupplyRule(ctx, tx, scope.TenantID, scope.ShopID); err != nil {
			return nil, nil, err
		}
	}

	core, err := s.repo.FindCoreChargeRule(ctx, tx, scope.TenantID, scope.ShopID)
	if err != nil {
		return nil, nil, err
	}
	if core == nil {
		rule := &domain.CoreChargeRule{
			ID:                    s.genID.Generate(),
			TenantID:              scope.TenantID,
			ShopID:                scope.ShopID,
			ChargeForCoresDefault: defaults.ChargeForCoresDefault,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := s.repo.EnsureCoreChargeRule(ctx, tx, rule); err != nil {
			return nil, nil, err
		}
		if core, err = s.repo.FindCoreChargeRule(ctx, tx, scope.TenantID, scope.ShopID); err != nil {
			return nil, nil, err
		}
	}
	if supply == nil || core == nil {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return supply, core, nil
}

// toSettings treats an inactive supply rule as a zero percent fee.
func toSettings(supply *domain.SupplyRule, core *domain.CoreChargeRule) domain.Settings {
	pct := decimal.Zero
	if supply.IsActive {
		pct = supply.ShopSupplyPercentage
	}
	return domain.Settings{
		ShopSupplyPercentage:  pct,
		ChargeForCoresDefault: core.ChargeForCoresDefault,
	}
}
