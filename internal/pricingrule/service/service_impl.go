package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/cache"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/config"
	"github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ruleSetCacheTTL = 5 * time.Minute
	maxQuoteCosts   = 500
)

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

// cachedSet remembers misses as well so shops without rules do not hit
// the database on every price lookup.
type cachedSet struct {
	set   *domain.RuleSet
	found bool
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	shops    shopdomain.Service
	defaults *config.ShopDefaultsHolder
	clock    clock.Clock
	sets     cache.Cache[snowflake.ID, cachedSet]
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("pricingrule.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		shops:    p.Shops,
		defaults: p.Defaults,
		clock:    clk,
		sets:     cache.NewTTLCache[snowflake.ID, cachedSet](),
	}
}

func (s *Service) Get(ctx context.Context) (domain.RuleSet, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.RuleSet{}, err
	}
	set, err := s.repo.FindByShop(ctx, s.db, scope.TenantID, scope.ShopID)
	if err != nil {
		return domain.RuleSet{}, err
	}
	if set == nil {
		return domain.RuleSet{
			TenantID: scope.TenantID,
			ShopID:   scope.ShopID,
			Mode:     s.defaults.Get().PricingMode,
			Rules:    datatypes.JSONSlice[domain.Tier]{},
		}, nil
	}
	if set.Rules == nil {
		set.Rules = datatypes.JSONSlice[domain.Tier]{}
	}
	return *set, nil
}

func (s *Service) Save(ctx context.Context, req domain.SaveRequest) (domain.RuleSet, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.RuleSet{}, err
	}

	mode, err := domain.NormalizeMode(req.Mode)
	if err != nil {
		return domain.RuleSet{}, err
	}
	tiers, err := domain.ValidateRules(mode, req.Rules)
	if err != nil {
		return domain.RuleSet{}, err
	}

	var updatedBy *snowflake.ID
	if scope.UserID != 0 {
		id := scope.UserID
		updatedBy = &id
	}

	now := s.clock.Now()
	var saved domain.RuleSet
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByShop(ctx, tx, scope.TenantID, scope.ShopID)
		if err != nil {
			return err
		}
		if existing == nil {
			saved = domain.RuleSet{
				ID:        s.genID.Generate(),
				TenantID:  scope.TenantID,
				ShopID:    scope.ShopID,
				Mode:      mode,
				Rules:     datatypes.JSONSlice[domain.Tier](tiers),
				CreatedAt: now,
				UpdatedAt: now,
				UpdatedBy: updatedBy,
			}
			return s.repo.Insert(ctx, tx, &saved)
		}

		saved = *existing
		saved.Mode = mode
		saved.Rules = datatypes.JSONSlice[domain.Tier](tiers)
		saved.UpdatedAt = now
		saved.UpdatedBy = updatedBy
		return s.repo.Update(ctx, tx, &saved)
	})
	if err != nil {
		return domain.RuleSet{}, err
	}

	s.sets.Delete(scope.ShopID)
	s.log.Info("pricing rules saved",
		zap.String("shop_id", scope.ShopID.String()),
		zap.String("mode", mode),
		zap.Int("tiers", len(tiers)),
	)
	return saved, nil
}

// ResolvePrice prices cost with the shop's rule set. Shops without a rule
// set sell at cost.
func (s *Service) ResolvePrice(ctx context.Context, cost decimal.Decimal) (decimal.Decimal, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	entry, err := s.load(ctx, scope.TenantID, scope.ShopID)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.ResolvePrice(cost, entry.set), nil
}

func (s *Service) Quote(ctx context.Context, costs []decimal.Decimal) ([]domain.Quote, error) {
	if len(costs) > maxQuoteCosts {
		return nil, domain.ErrTooManyQuotes
	}
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := s.load(ctx, scope.TenantID, scope.ShopID)
	if err != nil {
		return nil, err
	}
	if !entry.found {
		return nil, domain.ErrRulesNotConfigured
	}

	quotes := make([]domain.Quote, 0, len(costs))
	for _, cost := range costs {
		quotes = append(quotes, domain.Quote{
			Cost:  cost,
			Price: domain.ResolvePrice(cost, entry.set),
		})
	}
	return quotes, nil
}

func (s *Service) load(ctx context.Context, tenantID, shopID snowflake.ID) (cachedSet, error) {
	if entry, ok := s.sets.Get(shopID); ok {
		return entry, nil
	}
	set, err := s.repo.FindByShop(ctx, s.db, tenantID, shopID)
	if err != nil {
		return cachedSet{}, err
	}
	entry := cachedSet{set: set, found: set != nil}
	s.sets.Set(shopID, entry, ruleSetCacheTTL)
	return entry, nil
}
