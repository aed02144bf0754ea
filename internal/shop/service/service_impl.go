package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/shopcore/internal/cache"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shopCacheTTL = 30 * time.Second

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
	shops cache.Cache[snowflake.ID, domain.Shop]
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("shop.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: clk,
		shops: cache.NewTTLCache[snowflake.ID, domain.Shop](),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateShopRequest) (domain.Shop, error) {
	tenantID, ok := shopcontext.TenantIDFromContext(ctx)
	if !ok {
		return domain.Shop{}, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Shop{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	shop := domain.Shop{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		Slug:      slug.Make(name),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &shop); err != nil {
		return domain.Shop{}, err
	}
	return shop, nil
}

func (s *Service) AddMember(ctx context.Context, req domain.AddMemberRequest) (domain.Member, error) {
	scope, err := s.Resolve(ctx)
	if err != nil {
		return domain.Member{}, err
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		return domain.Member{}, domain.ErrInvalidUser
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Member{}, domain.ErrInvalidName
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !domain.IsValidRole(role) {
		return domain.Member{}, domain.ErrInvalidRole
	}

	now := s.clock.Now()
	member := domain.Member{
		ID:        s.genID.Generate(),
		TenantID:  scope.TenantID,
		ShopID:    scope.ShopID,
		UserID:    userID,
		Name:      name,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertMember(ctx, s.db, &member); err != nil {
		return domain.Member{}, err
	}
	return member, nil
}

// Resolve validates the scope carried on ctx against the shops table. Any
// mismatch reports ErrShopNotConfigured so callers never fall back to
// another shop's data.
func (s *Service) Resolve(ctx context.Context) (shopcontext.Scope, error) {
	scope, ok := shopcontext.FromContext(ctx)
	if !ok || scope.ShopID == 0 || scope.TenantID == 0 {
		return shopcontext.Scope{}, domain.ErrShopNotConfigured
	}
	if !scope.Allows(scope.ShopID) {
		return shopcontext.Scope{}, domain.ErrShopNotConfigured
	}

	shop, err := s.loadShop(ctx, scope.ShopID)
	if err != nil {
		return shopcontext.Scope{}, err
	}
	if shop == nil || !shop.IsActive || shop.TenantID != scope.TenantID {
		s.log.Debug("shop scope rejected",
			zap.String("shop_id", scope.ShopID.String()),
			zap.String("tenant_id", scope.TenantID.String()),
		)
		return shopcontext.Scope{}, domain.ErrShopNotConfigured
	}
	return scope, nil
}

// Current returns the resolved shop row.
func (s *Service) Current(ctx context.Context) (domain.Shop, error) {
	scope, err := s.Resolve(ctx)
	if err != nil {
		return domain.Shop{}, err
	}
	shop, err := s.loadShop(ctx, scope.ShopID)
	if err != nil {
		return domain.Shop{}, err
	}
	if shop == nil {
		return domain.Shop{}, domain.ErrShopNotConfigured
	}
	return *shop, nil
}

func (s *Service) ListMechanics(ctx context.Context) ([]domain.Mechanic, error) {
	scope, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListMechanics(ctx, s.db, scope.TenantID, scope.ShopID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Mechanic{}
	}
	return items, nil
}

func (s *Service) MemberRole(ctx context.Context) (string, error) {
	scope, err := s.Resolve(ctx)
	if err != nil {
		return "", err
	}
	if scope.UserID == 0 {
		return "", domain.ErrInvalidUser
	}
	member, err := s.repo.FindMember(ctx, s.db, scope.TenantID, scope.ShopID, scope.UserID)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", domain.ErrNotMember
	}
	return member.Role, nil
}

func (s *Service) loadShop(ctx context.Context, id snowflake.ID) (*domain.Shop, error) {
	if cached, ok := s.shops.Get(id); ok {
		return &cached, nil
	}
	shop, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if shop != nil && shop.IsActive {
		s.shops.Set(id, *shop, shopCacheTTL)
	}
	return shop, nil
}
