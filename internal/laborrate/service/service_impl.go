package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/laborrate/domain"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Shops shopdomain.Service
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	shops shopdomain.Service
	clock clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("laborrate.service"),
		genID: p.GenID,
		repo:  p.Repo,
		shops: p.Shops,
		clock: clk,
	}
}

func (s *Service) Upsert(ctx context.Context, req domain.UpsertRequest) (domain.LaborRate, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.LaborRate{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.LaborRate{}, domain.ErrInvalidName
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = name
	}
	code = domain.NormalizeCode(code)
	if code == "" {
		return domain.LaborRate{}, domain.ErrInvalidCode
	}
	if req.HourlyRate.IsNegative() {
		return domain.LaborRate{}, domain.ErrInvalidRate
	}
	hourly := money.Round2(req.HourlyRate)

	var out domain.LaborRate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByCode(ctx, tx, scope.TenantID, scope.ShopID, code)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		if existing != nil {
			existing.Name = name
			existing.HourlyRate = hourly
			existing.IsActive = true
			existing.UpdatedAt = now
			out = *existing
			return s.repo.Update(ctx, tx, existing)
		}
		out = domain.LaborRate{
			ID:         s.genID.Generate(),
			TenantID:   scope.TenantID,
			ShopID:     scope.ShopID,
			Code:       code,
			Name:       name,
			HourlyRate: hourly,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.repo.Insert(ctx, tx, &out)
	})
	if err != nil {
		return domain.LaborRate{}, err
	}
	return out, nil
}

func (s *Service) List(ctx context.Context) ([]domain.LaborRate, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := s.repo.ListActive(ctx, s.db, scope.TenantID, scope.ShopID)
	if err != nil {
		return nil, err
	}
	if rates == nil {
		rates = []domain.LaborRate{}
	}
	return rates, nil
}

// Delete deactivates the rate. Work orders keep the code they stored and
// total it at zero until the rate is recreated.
func (s *Service) Delete(ctx context.Context, code string) error {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return err
	}
	code = domain.NormalizeCode(code)
	if code == "" {
		return domain.ErrInvalidCode
	}

	existing, err := s.repo.FindByCode(ctx, s.db, scope.TenantID, scope.ShopID, code)
	if err != nil {
		return err
	}
	if existing == nil || !existing.IsActive {
		return domain.ErrNotFound
	}
	existing.IsActive = false
	existing.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, existing)
}

func (s *Service) RatesByCode(ctx context.Context) (map[string]decimal.Decimal, error) {
	rates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(rates))
	for _, rate := range rates {
		out[rate.Code] = rate.HourlyRate
	}
	return out, nil
}
