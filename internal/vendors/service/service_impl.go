package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/clock"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/vendors/domain"
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
		log:   p.Log.Named("vendor.service"),
		genID: p.GenID,
		repo:  p.Repo,
		shops: p.Shops,
		clock: clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateVendorRequest) (domain.Vendor, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Vendor{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Vendor{}, domain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && !strings.Contains(email, "@") {
		return domain.Vendor{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now()
	vendor := domain.Vendor{
		ID:        s.genID.Generate(),
		TenantID:  scope.TenantID,
		ShopID:    scope.ShopID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &vendor); err != nil {
		return domain.Vendor{}, err
	}
	return vendor, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Vendor, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Vendor{}, err
	}
	vendorID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || vendorID == 0 {
		return domain.Vendor{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindActive(ctx, s.db, scope.TenantID, scope.ShopID, vendorID)
	if err != nil {
		return domain.Vendor{}, err
	}
	if item == nil {
		return domain.Vendor{}, domain.ErrNotFound
	}
	return *item, nil
}
