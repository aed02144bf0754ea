package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/customer/domain"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
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
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
		shops: p.Shops,
		clock: clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Customer{}, err
	}

	company := strings.TrimSpace(req.CompanyName)
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if company == "" && (first == "" || last == "") {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:               s.genID.Generate(),
		TenantID:         scope.TenantID,
		ShopID:           scope.ShopID,
		CompanyName:      company,
		FirstName:        first,
		LastName:         last,
		Phone:            strings.TrimSpace(req.Phone),
		Email:            email,
		DefaultLaborRate: domain.DefaultLaborRateCode,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Customer, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	customerID, err := parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindActive(ctx, s.db, scope.TenantID, scope.ShopID, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) CreateUnit(ctx context.Context, req domain.CreateUnitRequest) (domain.Unit, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Unit{}, err
	}
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.Unit{}, err
	}
	owner, err := s.repo.FindActive(ctx, s.db, scope.TenantID, scope.ShopID, customerID)
	if err != nil {
		return domain.Unit{}, err
	}
	if owner == nil {
		return domain.Unit{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	unit := domain.Unit{
		ID:         s.genID.Generate(),
		TenantID:   scope.TenantID,
		ShopID:     scope.ShopID,
		CustomerID: owner.ID,
		VIN:        strings.ToUpper(strings.TrimSpace(req.VIN)),
		Make:       strings.TrimSpace(req.Make),
		Model:      strings.TrimSpace(req.Model),
		Year:       req.Year,
		UnitType:   strings.TrimSpace(req.UnitType),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.InsertUnit(ctx, s.db, &unit); err != nil {
		return domain.Unit{}, err
	}
	return unit, nil
}

func (s *Service) GetUnit(ctx context.Context, id string) (domain.Unit, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Unit{}, err
	}
	unitID, err := parseID(id)
	if err != nil {
		return domain.Unit{}, err
	}

	item, err := s.repo.FindActiveUnit(ctx, s.db, scope.TenantID, scope.ShopID, unitID)
	if err != nil {
		return domain.Unit{}, err
	}
	if item == nil {
		return domain.Unit{}, domain.ErrUnitNotFound
	}
	return *item, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
