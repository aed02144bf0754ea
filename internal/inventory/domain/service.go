package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
	"gorm.io/gorm"
)

// ReceiveLineRequest is one purchase order line being received.
type ReceiveLineRequest struct {
	PartID     snowflake.ID
	Qty        int64
	UnitPrice  decimal.Decimal
	SourceType string
	SourceID   *snowflake.ID
}

type ListMovementsResponse struct {
	Movements []Movement          `json:"movements"`
	PageInfo  pagination.PageInfo `json:"page_info"`
}

type Service interface {
	// ReceiveLine applies a receipt inside the caller's transaction. The
	// scope must already be resolved by the caller. It reports false when the
	// part is missing or inactive.
	ReceiveLine(ctx context.Context, tx *gorm.DB, scope shopcontext.Scope, req ReceiveLineRequest) (bool, error)
	ListMovements(ctx context.Context, partID string, page pagination.Pagination) (ListMovementsResponse, error)
}

var (
	ErrOrderLineInvalid = errors.New("order_line_invalid")
	ErrInvalidID        = errors.New("invalid_id")
)
