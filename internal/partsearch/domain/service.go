package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	"gorm.io/gorm"
)

const (
	StrategyShort    = "short"
	StrategyTrigram  = "trigram"
	StrategyFallback = "fallback"
	StrategyEmpty    = "empty"
)

type SearchRequest struct {
	Query string `form:"q" json:"q"`
	Limit int    `form:"limit" json:"limit"`
}

type SearchResult struct {
	Query    string               `json:"query"`
	Strategy string               `json:"strategy"`
	Items    []partdomain.Summary `json:"items"`
}

type Service interface {
	Search(ctx context.Context, req SearchRequest) (SearchResult, error)
	// IndexPart rewrites the terms of one part using db, which may be a
	// caller's transaction.
	IndexPart(ctx context.Context, db *gorm.DB, part partdomain.Part) error
	Reindex(ctx context.Context) (int, error)
	// Backfill indexes up to limit active parts of one shop that have no
	// terms yet. It runs outside a request scope.
	Backfill(ctx context.Context, tenantID, shopID snowflake.ID, limit int) (int, error)
}
