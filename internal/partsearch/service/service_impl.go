package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/config"
	"github.com/smallbiznis/shopcore/internal/observability/metrics"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	"github.com/smallbiznis/shopcore/internal/partsearch/domain"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// candidateFactor sizes each page of trigram candidates. Pages are
	// fetched until verified hits fill the limit or candidates run out.
	candidateFactor = 4
	reindexBatch    = 200
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Shops    shopdomain.Service
	Pricing  pricingdomain.Service      `optional:"true"`
	Defaults *config.ShopDefaultsHolder `optional:"true"`
	Metrics  *metrics.Metrics           `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	shops    shopdomain.Service
	pricing  pricingdomain.Service
	defaults *config.ShopDefaultsHolder
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("partsearch.service"),
		repo:     p.Repo,
		shops:    p.Shops,
		pricing:  p.Pricing,
		defaults: p.Defaults,
		metrics:  p.Metrics,
	}
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return domain.SearchResult{}, err
	}

	limit := s.clampLimit(req.Limit)
	normalized, tokens := domain.QueryTokens(req.Query)
	if normalized == "" {
		return domain.SearchResult{Strategy: domain.StrategyEmpty, Items: []partdomain.Summary{}}, nil
	}

	strategy := domain.StrategyTrigram
	short := domain.IsShortQuery(normalized)
	if short {
		strategy = domain.StrategyShort
	}

	seen := make(map[snowflake.ID]struct{}, limit)
	hits := make([]partdomain.Part, 0, limit)
	pageSize := limit * candidateFactor
	var after *domain.Cursor
	for len(hits) < limit {
		var candidates []partdomain.Part
		if short {
			candidates, err = s.repo.FindByTermSubstring(ctx, s.db, scope.TenantID, scope.ShopID, normalized, after, pageSize)
		} else {
			candidates, err = s.repo.FindByAllTerms(ctx, s.db, scope.TenantID, scope.ShopID, tokens, after, pageSize)
		}
		if err != nil {
			return domain.SearchResult{}, err
		}
		hits = appendVerified(hits, seen, candidates, normalized, limit)
		if len(candidates) < pageSize {
			break
		}
		after = domain.CursorOf(candidates)
	}

	if len(hits) < limit {
		scanLimit := s.defaults.Get().Search.LegacyScanLimit
		if scanLimit > 0 {
			legacy, err := s.repo.FindUnindexed(ctx, s.db, scope.TenantID, scope.ShopID, scanLimit)
			if err != nil {
				return domain.SearchResult{}, err
			}
			before := len(hits)
			hits = appendVerified(hits, seen, legacy, normalized, limit)
			if len(hits) > before {
				strategy = domain.StrategyFallback
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].PartNumber != hits[j].PartNumber {
			return hits[i].PartNumber < hits[j].PartNumber
		}
		return hits[i].ID < hits[j].ID
	})

	items := make([]partdomain.Summary, 0, len(hits))
	for _, part := range hits {
		summary := partdomain.NewSummary(part)
		if s.pricing != nil {
			price, err := s.pricing.ResolvePrice(ctx, part.AverageCost)
			if err != nil {
				return domain.SearchResult{}, err
			}
			summary.SalePrice = &price
		}
		items = append(items, summary)
	}

	s.metrics.RecordPartsSearch(ctx, scope.ShopID.String(), strategy)
	return domain.SearchResult{Query: normalized, Strategy: strategy, Items: items}, nil
}

func (s *Service) IndexPart(ctx context.Context, db *gorm.DB, part partdomain.Part) error {
	if db == nil {
		db = s.db
	}
	terms := domain.BuildTerms(part.PartNumber, part.Description, part.Reference)
	return s.repo.ReplaceTerms(ctx, db, part.ShopID, part.ID, terms)
}

// Reindex rebuilds the terms of every part in the active shop, including
// legacy rows that were never indexed.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	scope, err := s.shops.Resolve(ctx)
	if err != nil {
		return 0, err
	}

	var (
		total   int
		afterID snowflake.ID
	)
	for {
		batch, err := s.repo.ListForIndex(ctx, s.db, scope.TenantID, scope.ShopID, afterID, reindexBatch)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			break
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, part := range batch {
				if err := s.IndexPart(ctx, tx, part); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return total, err
		}
		total += len(batch)
		afterID = batch[len(batch)-1].ID
		if len(batch) < reindexBatch {
			break
		}
	}

	s.log.Info("parts reindexed",
		zap.String("shop_id", scope.ShopID.String()),
		zap.Int("parts", total),
	)
	return total, nil
}

func (s *Service) clampLimit(limit int) int {
	search := s.defaults.Get().Search
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	if limit > search.MaxLimit {
		limit = search.MaxLimit
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

func appendVerified(dst []partdomain.Part, seen map[snowflake.ID]struct{}, candidates []partdomain.Part, normalized string, limit int) []partdomain.Part {
	for _, part := range candidates {
		if len(dst) >= limit {
			break
		}
		if _, ok := seen[part.ID]; ok {
			continue
		}
		if !domain.Matches(normalized, part.PartNumber, part.Description, part.Reference) {
			continue
		}
		seen[part.ID] = struct{}{}
		dst = append(dst, part)
	}
	return dst
}

func (s *Service) Backfill(ctx context.Context, tenantID, shopID snowflake.ID, limit int) (int, error) {
	if limit <= 0 {
		limit = reindexBatch
	}
	batch, err := s.repo.FindUnindexed(ctx, s.db, tenantID, shopID, limit)
	if err != nil || len(batch) == 0 {
		return 0, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, part := range batch {
			if err := s.IndexPart(ctx, tx, part); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}
