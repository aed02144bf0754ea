package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/clock"
	customerdomain "github.com/smallbiznis/shopcore/internal/customer/domain"
	laborratedomain "github.com/smallbiznis/shopcore/internal/laborrate/domain"
	"github.com/smallbiznis/shopcore/internal/observability/metrics"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	"github.com/smallbiznis/shopcore/internal/providers/pdf"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	settingsdomain "github.com/smallbiznis/shopcore/internal/shopsettings/domain"
	"github.com/smallbiznis/shopcore/internal/workorder/domain"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
	"github.com/smallbiznis/shopcore/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Shops     shopdomain.Service
	Customers customerdomain.Service
	Rates     laborratedomain.Service
	Settings  settingsdomain.Service
	Parts     partdomain.Repository
	Pricing   pricingdomain.Service `optional:"true"`
	PDF       pdf.Provider          `optional:"true"`
	Metrics   *metrics.Metrics      `optional:"true"`
	Clock     clock.Clock           `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	shops     shopdomain.Service
	customers customerdomain.Service
	rates     laborratedomain.Service
	settings  settingsdomain.Service
	parts     partdomain.Repository
	pricing   pricingdomain.Service
	pdf       pdf.Provider
	metrics   *metrics.Metrics
	clock     clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	renderer := p.PDF
	if renderer == nil {
		renderer = pdf.New()
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("workorder.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		shops:     p.Shops,
		customers: p.Customers,
		rates:     p.Rates,
		settings:  p.Settings,
		parts:     p.Parts,
		pricing:   p.Pricing,
		pdf:       renderer,
		metrics:   p.Metrics,
		clock:     clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.SaveRequest) (domain.WorkOrder, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	customer, unit, err := s.loadCustomerUnit(ctx, req.CustomerID, req.UnitID)
	if err != nil {
		return domain.WorkOrder{}, err
	}

	blocks, totals, err := s.price(ctx, scope, customer, req.LaborBlocks)
	if err != nil {
		return domain.WorkOrder{}, err
	}

	now := s.clock.Now()
	order := domain.WorkOrder{
		ID:          s.genID.Generate(),
		TenantID:    scope.TenantID,
		ShopID:      scope.ShopID,
		CustomerID:  customer.ID,
		UnitID:      unit.ID,
		Status:      domain.StatusOpen,
		LaborBlocks: datatypes.JSONSlice[domain.LaborBlock](blocks),
		Totals:      datatypes.NewJSONType(totals),
		GrandTotal:  totals.GrandTotal,
		IsActive:    true,
		CreatedAt:   now,
		CreatedBy:   actorOf(scope),
		UpdatedAt:   now,
		UpdatedBy:   actorOf(scope),
	}
	if err := s.repo.Insert(ctx, s.db, &order); err != nil {
		return domain.WorkOrder{}, err
	}

	s.metrics.RecordWorkOrderSaved(ctx, scope.ShopID.String(), "create")
	s.log.Info("work order created",
		zap.String("work_order_id", order.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("grand_total", totals.GrandTotal.StringFixed(2)),
	)
	return order, nil
}

// Update replaces the labor blocks of an unpaid order. Caller supplied totals
// are normalized and stored as sent.
func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.WorkOrder, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	orderID, err := parseID(id)
	if err != nil {
		return domain.WorkOrder{}, err
	}

	current, err := s.loadEditable(ctx, scope, orderID)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	customer := s.customerOrBlank(ctx, current.CustomerID)

	blocks, totals, err := s.price(ctx, scope, customer, req.LaborBlocks)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	if len(req.Totals) > 0 && string(req.Totals) != "null" {
		totals = domain.NormalizeTotals([]byte(req.Totals))
	}

	return s.save(ctx, scope, orderID, blocks, totals, "update")
}

// Recalculate prices the stored blocks again with the current labor rates
// and shop supply percentage.
func (s *Service) Recalculate(ctx context.Context, id string) (domain.WorkOrder, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	orderID, err := parseID(id)
	if err != nil {
		return domain.WorkOrder{}, err
	}

	current, err := s.loadEditable(ctx, scope, orderID)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	customer := s.customerOrBlank(ctx, current.CustomerID)

	blocks, totals, err := s.price(ctx, scope, customer, []domain.LaborBlock(current.LaborBlocks))
	if err != nil {
		return domain.WorkOrder{}, err
	}
	return s.save(ctx, scope, orderID, blocks, totals, "recalculate")
}

func (s *Service) save(ctx context.Context, scope shopcontext.Scope, orderID snowflake.ID, blocks []domain.LaborBlock, totals domain.Totals, operation string) (domain.WorkOrder, error) {
	var saved domain.WorkOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.LockByID(ctx, tx, scope.TenantID, scope.ShopID, orderID)
		if err != nil {
			return err
		}
		if order == nil || !order.IsActive {
			return domain.ErrNotFound
		}
		if order.Status == domain.StatusPaid {
			return domain.ErrWorkOrderPaid
		}

		order.LaborBlocks = datatypes.JSONSlice[domain.LaborBlock](blocks)
		order.Totals = datatypes.NewJSONType(totals)
		order.GrandTotal = totals.GrandTotal
		order.UpdatedAt = s.clock.Now()
		order.UpdatedBy = actorOf(scope)
		if err := s.repo.UpdateContent(ctx, tx, order); err != nil {
			return err
		}
		saved = *order
		return nil
	})
	if err != nil {
		return domain.WorkOrder{}, err
	}

	s.metrics.RecordWorkOrderSaved(ctx, scope.ShopID.String(), operation)
	s.log.Info("work order saved",
		zap.String("work_order_id", orderID.String()),
		zap.String("operation", operation),
		zap.String("grand_total", totals.GrandTotal.StringFixed(2)),
	)
	return saved, nil
}

func (s *Service) loadEditable(ctx context.Context, scope shopcontext.Scope, id snowflake.ID) (*domain.WorkOrder, error) {
	order, err := s.repo.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, id)
	if err != nil {
		return nil, err
	}
	if order == nil || !order.IsActive {
		return nil, domain.ErrNotFound
	}
	if order.Status == domain.StatusPaid {
		return nil, domain.ErrWorkOrderPaid
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.WorkOrder, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	orderID, err := parseID(id)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	order, err := s.repo.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, orderID)
	if err != nil {
		return domain.WorkOrder{}, err
	}
	if order == nil || !order.IsActive {
		return domain.WorkOrder{}, domain.ErrNotFound
	}
	return *order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.ListResponse{}, err
	}

	filter := domain.ListFilter{Status: strings.ToLower(strings.TrimSpace(req.Status))}
	switch filter.Status {
	case "", domain.StatusDraft, domain.StatusOpen, domain.StatusPaid:
	default:
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		customerID, err := snowflake.ParseString(raw)
		if err != nil || customerID == 0 {
			return domain.ListResponse{}, domain.ErrInvalidCustomer
		}
		filter.CustomerID = customerID
	}

	orders, err := s.repo.List(ctx, s.db, scope.TenantID, scope.ShopID, filter, req.Limit(), req.Offset())
	if err != nil {
		return domain.ListResponse{}, err
	}
	total, err := s.repo.Count(ctx, s.db, scope.TenantID, scope.ShopID, filter)
	if err != nil {
		return domain.ListResponse{}, err
	}
	if orders == nil {
		orders = []domain.WorkOrder{}
	}
	return domain.ListResponse{
		WorkOrders: orders,
		PageInfo:   pagination.BuildPageInfo(req.Pagination, total),
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
	return s.repo.Deactivate(ctx, s.db, scope.TenantID, scope.ShopID, orderID, s.clock.Now(), actorOf(scope))
}

func (s *Service) loadCustomerUnit(ctx context.Context, customerID, unitID string) (customerdomain.Customer, customerdomain.Unit, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		switch {
		case errors.Is(err, customerdomain.ErrInvalidID):
			return customerdomain.Customer{}, customerdomain.Unit{}, domain.ErrInvalidCustomer
		case errors.Is(err, customerdomain.ErrNotFound):
			return customerdomain.Customer{}, customerdomain.Unit{}, domain.ErrCustomerNotFound
		}
		return customerdomain.Customer{}, customerdomain.Unit{}, err
	}
	unit, err := s.customers.GetUnit(ctx, unitID)
	if err != nil {
		switch {
		case errors.Is(err, customerdomain.ErrInvalidID):
			return customerdomain.Customer{}, customerdomain.Unit{}, domain.ErrInvalidUnit
		case errors.Is(err, customerdomain.ErrUnitNotFound):
			return customerdomain.Customer{}, customerdomain.Unit{}, domain.ErrUnitNotFound
		}
		return customerdomain.Customer{}, customerdomain.Unit{}, err
	}
	if unit.CustomerID != customer.ID {
		return customerdomain.Customer{}, customerdomain.Unit{}, domain.ErrUnitNotFound
	}
	return customer, unit, nil
}

// customerOrBlank tolerates customers deactivated after the order was
// opened; their orders fall back to the default labor rate.
func (s *Service) customerOrBlank(ctx context.Context, id snowflake.ID) customerdomain.Customer {
	customer, err := s.customers.Get(ctx, id.String())
	if err != nil {
		s.log.Debug("work order customer unavailable", zap.String("customer_id", id.String()), zap.Error(err))
		return customerdomain.Customer{ID: id}
	}
	return customer
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

func nonNegative(values ...decimal.Decimal) bool {
	for _, v := range values {
		if v.IsNegative() {
			return false
		}
	}
	return true
}

func roundPtr(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	out := money.Round2(*v)
	return &out
}
