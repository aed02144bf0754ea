package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/inventory/domain"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
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
		log:   p.Log.Named("inventory.service"),
		genID: p.GenID,
		repo:  p.Repo,
		shops: p.Shops,
		clock: clk,
	}
}

func (s *Service) ReceiveLine(ctx context.Context, tx *gorm.DB, scope shopcontext.Scope, req domain.ReceiveLineRequest) (bool, error) {
	if req.PartID == 0 || req.Qty <= 0 || req.UnitPrice.IsNegative() {
		return false, domain.ErrOrderLineInvalid
	}

	stock, err := s.repo.LockStock(ctx, tx, scope.TenantID, scope.ShopID, req.PartID)
	if err != nil {
		return false, err
	}
	if stock == nil || !stock.IsActive {
		s.log.Debug("receipt skipped for unavailable part", zap.String("part_id", req.PartID.String()))
		return false, nil
	}

	newStock := stock.InStock + req.Qty
	newAvg := domain.RecomputeWeightedAverage(stock.InStock, stock.AverageCost, req.Qty, req.UnitPrice)
	now := s.clock.Now()

	var actor *snowflake.ID
	if scope.UserID != 0 {
		id := scope.UserID
		actor = &id
	}

	if err := s.repo.UpdateStock(ctx, tx, scope.TenantID, scope.ShopID, req.PartID, newStock, newAvg, now, actor); err != nil {
		return false, err
	}

	sourceType := strings.TrimSpace(req.SourceType)
	if sourceType == "" {
		sourceType = domain.SourcePurchaseOrder
	}
	movement := domain.Movement{
		ID:               s.genID.Generate(),
		TenantID:         scope.TenantID,
		ShopID:           scope.ShopID,
		PartID:           req.PartID,
		SourceType:       sourceType,
		SourceID:         req.SourceID,
		Quantity:         req.Qty,
		UnitPrice:        req.UnitPrice,
		StockAfter:       newStock,
		AverageCostAfter: newAvg,
		CreatedAt:        now,
		CreatedBy:        actor,
	}
	if err := s.repo.InsertMovement(ctx, tx, &movement); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListMovements(ctx context.Context, partID string, page pagination.Pagination) (domain.ListMovementsResponse, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.ListMovementsResponse{}, err
	}
	id, err := snowflake.ParseString(strings.TrimSpace(partID))
	if err != nil || id == 0 {
		return domain.ListMovementsResponse{}, domain.ErrInvalidID
	}

	items, err := s.repo.ListMovements(ctx, s.db, scope.TenantID, scope.ShopID, id, page.Limit(), page.Offset())
	if err != nil {
		return domain.ListMovementsResponse{}, err
	}
	total, err := s.repo.CountMovements(ctx, s.db, scope.TenantID, scope.ShopID, id)
	if err != nil {
		return domain.ListMovementsResponse{}, err
	}
	if items == nil {
		items = []domain.Movement{}
	}
	return domain.ListMovementsResponse{
		Movements: items,
		PageInfo:  pagination.BuildPageInfo(page, total),
	}, nil
}
