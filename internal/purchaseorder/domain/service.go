package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
)

type CreateItemRequest struct {
	PartID string          `json:"part_id"`
	Price  decimal.Decimal `json:"price"`
	Qty    int64           `json:"qty"`
}

type CreateRequest struct {
	VendorID string              `json:"vendor_id" validate:"required"`
	Items    []CreateItemRequest `json:"items" validate:"required,min=1"`
}

type CreateResponse struct {
	OrderID    string `json:"order_id"`
	ItemsCount int    `json:"items_count"`
}

type ReceiveResponse struct {
	OrderID           string `json:"order_id"`
	Status            string `json:"status"`
	UpdatedPartsCount int    `json:"updated_parts_count"`
}

type ListRequest struct {
	pagination.Pagination
	Status string `form:"status"`
}

type ListResponse struct {
	Orders   []PurchaseOrder     `json:"orders"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (CreateResponse, error)
	Receive(ctx context.Context, id string) (ReceiveResponse, error)
	Get(ctx context.Context, id string) (PurchaseOrder, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Deactivate(ctx context.Context, id string) error
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidVendor   = errors.New("invalid_vendor_id")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrVendorNotFound  = errors.New("vendor_not_found")
	ErrNoValidItems    = errors.New("no_valid_items")
	ErrNegativePrice   = errors.New("negative_price")
	ErrOrderHasNoItems = errors.New("order_has_no_items")
	ErrNotFound        = errors.New("not_found")
)
