package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/clock"
	"github.com/smallbiznis/shopcore/internal/part/domain"
	searchdomain "github.com/smallbiznis/shopcore/internal/partsearch/domain"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"github.com/smallbiznis/shopcore/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Shops   shopdomain.Service
	Search  searchdomain.Service
	Pricing pricingdomain.Service `optional:"true"`
	Clock   clock.Clock           `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	shops   shopdomain.Service
	search  searchdomain.Service
	pricing pricingdomain.Service
	clock   clock.Clock
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("part.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		shops:   p.Shops,
		search:  p.Search,
		pricing: p.Pricing,
		clock:   clk,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePartRequest) (domain.Summary, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Summary{}, err
	}

	partNumber := strings.TrimSpace(req.PartNumber)
	if partNumber == "" {
		return domain.Summary{}, domain.ErrInvalidPartNumber
	}
	if req.InStock < 0 {
		return domain.Summary{}, domain.ErrInvalidStock
	}
	if req.AverageCost.IsNegative() {
		return domain.Summary{}, domain.ErrInvalidCost
	}
	coreCost, err := coreCostOf(req.CoreCost != nil, req.CoreCost)
	if err != nil {
		return domain.Summary{}, err
	}
	misc, err := normalizeMisc(req.MiscCharges)
	if err != nil {
		return domain.Summary{}, err
	}

	vendorID, err := parseOptionalID(req.VendorID)
	if err != nil {
		return domain.Summary{}, err
	}
	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		return domain.Summary{}, err
	}
	locationID, err := parseOptionalID(req.LocationID)
	if err != nil {
		return domain.Summary{}, err
	}

	actor := actorOf(scope)
	now := s.clock.Now()
	part := domain.Part{
		ID:          s.genID.Generate(),
		TenantID:    scope.TenantID,
		ShopID:      scope.ShopID,
		PartNumber:  partNumber,
		Description: strings.TrimSpace(req.Description),
		Reference:   strings.TrimSpace(req.Reference),
		VendorID:    vendorID,
		CategoryID:  categoryID,
		LocationID:  locationID,
		InStock:     req.InStock,
		AverageCost: req.AverageCost,
		CoreCost:    coreCost,
		MiscCharges: misc,
		IsActive:    true,
		CreatedAt:   now,
		CreatedBy:   actor,
		UpdatedAt:   now,
		UpdatedBy:   actor,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &part); err != nil {
			return err
		}
		return s.search.IndexPart(ctx, tx, part)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Summary{}, domain.ErrDuplicatePartNumber
		}
		return domain.Summary{}, err
	}

	return s.toSummary(ctx, part)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdatePartRequest) (domain.Summary, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	partID, err := parseID(id)
	if err != nil {
		return domain.Summary{}, err
	}

	part, err := s.repo.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, partID)
	if err != nil {
		return domain.Summary{}, err
	}
	if part == nil || !part.IsActive {
		return domain.Summary{}, domain.ErrNotFound
	}

	if req.PartNumber != nil {
		partNumber := strings.TrimSpace(*req.PartNumber)
		if partNumber == "" {
			return domain.Summary{}, domain.ErrInvalidPartNumber
		}
		part.PartNumber = partNumber
	}
	if req.Description != nil {
		part.Description = strings.TrimSpace(*req.Description)
	}
	if req.Reference != nil {
		part.Reference = strings.TrimSpace(*req.Reference)
	}
	if req.CoreHasCharge != nil || req.CoreCost != nil {
		hasCharge := req.CoreCost != nil
		if req.CoreHasCharge != nil {
			hasCharge = *req.CoreHasCharge
		}
		coreCost, err := coreCostOf(hasCharge, req.CoreCost)
		if err != nil {
			return domain.Summary{}, err
		}
		part.CoreCost = coreCost
	}
	if req.MiscCharges != nil {
		misc, err := normalizeMisc(*req.MiscCharges)
		if err != nil {
			return domain.Summary{}, err
		}
		part.MiscCharges = misc
	}

	part.UpdatedAt = s.clock.Now()
	part.UpdatedBy = actorOf(scope)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateDetails(ctx, tx, part); err != nil {
			return err
		}
		return s.search.IndexPart(ctx, tx, *part)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Summary{}, domain.ErrDuplicatePartNumber
		}
		return domain.Summary{}, err
	}

	return s.toSummary(ctx, *part)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Summary, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	partID, err := parseID(id)
	if err != nil {
		return domain.Summary{}, err
	}

	part, err := s.repo.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, partID)
	if err != nil {
		return domain.Summary{}, err
	}
	if part == nil {
		return domain.Summary{}, domain.ErrNotFound
	}
	return s.toSummary(ctx, *part)
}

// Deactivate freezes a part. Stock and cost are kept as they were.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return err
	}
	partID, err := parseID(id)
	if err != nil {
		return err
	}

	part, err := s.repo.FindByID(ctx, s.db, scope.TenantID, scope.ShopID, partID)
	if err != nil {
		return err
	}
	if part == nil {
		return domain.ErrNotFound
	}
	if !part.IsActive {
		return nil
	}
	return s.repo.Deactivate(ctx, s.db, scope.TenantID, scope.ShopID, partID, s.clock.Now(), actorOf(scope))
}

func (s *Service) toSummary(ctx context.Context, part domain.Part) (domain.Summary, error) {
	summary := domain.NewSummary(part)
	if s.pricing == nil {
		return summary, nil
	}
	price, err := s.pricing.ResolvePrice(ctx, part.AverageCost)
	if err != nil {
		return domain.Summary{}, err
	}
	summary.SalePrice = &price
	return summary, nil
}

func coreCostOf(hasCharge bool, cost *decimal.Decimal) (decimal.NullDecimal, error) {
	if !hasCharge {
		return decimal.NullDecimal{}, nil
	}
	if cost == nil || cost.IsNegative() {
		return decimal.NullDecimal{}, domain.ErrInvalidCoreCost
	}
	return decimal.NewNullDecimal(*cost), nil
}

// normalizeMisc trims descriptions and drops blank zero-priced rows left
// over from the entry form.
func normalizeMisc(items []domain.MiscCharge) (datatypes.JSONSlice[domain.MiscCharge], error) {
	out := make(datatypes.JSONSlice[domain.MiscCharge], 0, len(items))
	for _, item := range items {
		desc := strings.TrimSpace(item.Description)
		if desc == "" && item.Price.IsZero() {
			continue
		}
		if desc == "" || item.Price.IsNegative() {
			return nil, domain.ErrInvalidMiscCharge
		}
		out = append(out, domain.MiscCharge{Description: desc, Price: item.Price})
	}
	return out, nil
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

func parseOptionalID(value string) (*snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidReference
	}
	return &id, nil
}
