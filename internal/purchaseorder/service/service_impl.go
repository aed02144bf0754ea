package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/clock"
	inventorydomain "github.com/smallbiznis/shopcore/internal/inventory/domain"
	"github.com/smallbiznis/shopcore/internal/observability/metrics"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	"github.com/smallbiznis/shopcore/internal/purchaseorder/domain"
	"github.com/smallbiznis/shopcore/internal/ratelimit"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	vendordomain "github.com/smallbiznis/shopcore/internal/vendors/domain"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Parts     partdomain.Repository
	Shops     shopdomain.Service
	Vendors   vendordomain.Service
	Inventory inventorydomain.Service
	Guard     *ratelimit.Guard `optional:"true"`
	Metrics   *metrics.Metrics `optional:"true"`
	Clock     clock.Clock      `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	parts     partdomain.Repository
	shops     shopdomain.Service
	vendors   vendordomain.Service
	inventory inventorydomain.Service
	guard     *ratelimit.Guard
	metrics   *metrics.Metrics
	clock     clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("purchaseorder.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		parts:     p.Parts,
		shops:     p.Shops,
		vendors:   p.Vendors,
		inventory: p.Inventory,
		guard:     p.Guard,
		metrics:   p.Metrics,
		clock:     clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.CreateResponse, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.CreateResponse{}, err
	}

	vendor, err := s.vendors.Get(ctx, req.VendorID)
	if err != nil {
		switch {
		case errors.Is(err, vendordomain.ErrInvalidID):
			return domain.CreateResponse{}, domain.ErrInvalidVendor
		case errors.Is(err, vendordomain.ErrNotFound):
			return domain.CreateResponse{}, domain.ErrVendorNotFound
		}
		return domain.CreateResponse{}, err
	}

	type candidate struct {
		partID snowflake.ID
		req    domain.CreateItemRequest
	}
	candidates := make([]candidate, 0, len(req.Items))
	ids := make([]snowflake.ID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Qty <= 0 {
			continue
		}
		partID, err := snowflake.ParseString(strings.TrimSpace(item.PartID))
		if err != nil || partID == 0 {
			continue
		}
		candidates = append(candidates, candidate{partID: partID, req: item})
		ids = append(ids, partID)
	}
	if len(candidates) == 0 {
		return domain.CreateResponse{}, domain.ErrNoValidItems
	}

	parts, err := s.parts.FindActiveByIDs(ctx, s.db, scope.TenantID, scope.ShopID, ids)
	if err != nil {
		return domain.CreateResponse{}, err
	}
	byID := make(map[snowflake.ID]partdomain.Part, len(parts))
	for _, part := range parts {
		byID[part.ID] = part
	}

	now := s.clock.Now()
	order := domain.PurchaseOrder{
		ID:        s.genID.Generate(),
		TenantID:  scope.TenantID,
		ShopID:    scope.ShopID,
		VendorID:  vendor.ID,
		Status:    domain.StatusOrdered,
		IsActive:  true,
		CreatedAt: now,
		CreatedBy: actorOf(scope),
		UpdatedAt: now,
	}

	items := make([]domain.Item, 0, len(candidates))
	for _, c := range candidates {
		part, ok := byID[c.partID]
		if !ok {
			continue
		}
		items = append(items, domain.Item{
			ID:              s.genID.Generate(),
			PurchaseOrderID: order.ID,
			ShopID:          scope.ShopID,
			LineNo:          len(items) + 1,
			PartID:          part.ID,
			PartNumber:      part.PartNumber,
			Description:     part.Description,
			UnitPrice:       c.req.Price,
			Quantity:        c.req.Qty,
		})
	}
	if len(items) == 0 {
		return domain.CreateResponse{}, domain.ErrNoValidItems
	}
	if err := checkPrices(items); err != nil {
		return domain.CreateResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &order); err != nil {
			return err
		}
		return s.repo.InsertItems(ctx, tx, items)
	})
	if err != nil {
		return domain.CreateResponse{}, err
	}

	s.log.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("vendor_id", vendor.ID.String()),
		zap.Int("items", len(items)),
	)
	return domain.CreateResponse{OrderID: order.ID.String(), ItemsCount: len(items)}, nil
}

// Receive applies every line to the inventory ledger and marks the order
// received in one transaction. Receiving twice is a no-op.
func (s *Service) Receive(ctx context.Context, id string) (domain.ReceiveResponse, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.ReceiveResponse{}, err
	}
	orderID, err := parseID(id)
	if err != nil {
		return domain.ReceiveResponse{}, err
	}

	resp := domain.ReceiveResponse{OrderID: orderID.String()}
	key := ratelimit.LockKey("purchase_order", scope.ShopID.String(), orderID.String())
	err = s.guard.WithLock(ctx, key, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := s.repo.LockByID(ctx, tx, scope.TenantID, scope.ShopID, orderID)
			if err != nil {
				return err
			}
			if order == nil || !order.IsActive {
				return domain.ErrNotFound
			}
			resp.Status = order.Status
			if order.Status == domain.StatusReceived {
				return nil
			}

			items, err := s.repo.ListItems(ctx, tx, scope.ShopID, order.ID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return domain.ErrOrderHasNoItems
			}
			if err := checkPrices(items); err != nil {
				return err
			}

			sourceID := order.ID
			for _, item := range items {
				updated, err := s.inventory.ReceiveLine(ctx, tx, scope, inventorydomain.ReceiveLineRequest{
					PartID:     item.PartID,
					Qty:        item.Quantity,
					UnitPrice:  item.UnitPrice,
					SourceType: inventorydomain.SourcePurchaseOrder,
					SourceID:   &sourceID,
				})
				if err != nil {
					return err
				}
				if updated {
					resp.UpdatedPartsCount++
				}
			}

			if err := s.repo.MarkReceived(ctx, tx, scope.TenantID, scope.ShopID, order.ID, s.clock.Now(), actorOf(scope)); err != nil {
				return err
			}
			resp.Status = domain.StatusReceived
			return nil
		})
	})
	if err != nil {
		return domain.ReceiveResponse{}, err
	}

	s.metrics.RecordReceivedLines(ctx, scope.ShopID.String(), resp.UpdatedPartsCount)
	s.log.Info("purchase order received",
		zap.String("order_id", resp.OrderID),
		zap.Int("updated_parts", resp.UpdatedPartsCount),
	)
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	orderID, err := parseID(id)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	order, err := s.repo.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, orderID)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if order == nil || !order.IsActive {
		return domain.PurchaseOrder{}, domain.ErrNotFound
	}
	items, err := s.repo.ListItems(ctx, s.db, scope.ShopID, order.ID)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	order.Items = items
	return *order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.ListResponse{}, err
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && status != domain.StatusOrdered && status != domain.StatusReceived {
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}

	orders, err := s.repo.List(ctx, s.db, scope.TenantID, scope.ShopID, status, req.Limit(), req.Offset())
	if err != nil {
		return domain.ListResponse{}, err
	}
	total, err := s.repo.Count(ctx, s.db, scope.TenantID, scope.ShopID, status)
	if err != nil {
		return domain.ListResponse{}, err
	}
	if orders == nil {
		orders = []domain.PurchaseOrder{}
	}
	return domain.ListResponse{
		Orders:   orders,
		PageInfo: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return err
	}
	orderID, err := parseID(id)
	if err != nil {
		return err
	}
	order, err := s.repo.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if !order.IsActive {
		return nil
	}
	return s.repo.Deactivate(ctx, s.db, scope.TenantID, scope.ShopID, orderID, s.clock.Now())
}

func checkPrices(items []domain.Item) error {
	for _, item := range items {
		if item.UnitPrice.IsNegative() {
			return domain.ErrNegativePrice
		}
	}
	return nil
}

func actorOf(scope shopcontext.Scope) *snowflake.ID {
	if scope.UserID == 0 {
		return nil
	}
	id := scope.UserID
	return &id
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
