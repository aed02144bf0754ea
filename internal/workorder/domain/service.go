package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/smallbiznis/shopcore/internal/providers/pdf"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
)

type SaveRequest struct {
	CustomerID  string       `json:"customer_id" validate:"required"`
	UnitID      string       `json:"unit_id" validate:"required"`
	LaborBlocks []LaborBlock `json:"labor_blocks" validate:"dive"`
}

// UpdateRequest replaces the labor blocks. When Totals is present it is
// normalized and stored as sent; otherwise totals are recomputed.
type UpdateRequest struct {
	LaborBlocks []LaborBlock    `json:"labor_blocks" validate:"dive"`
	Totals      json.RawMessage `json:"totals,omitempty"`
}

type ListRequest struct {
	pagination.Pagination
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
}

type ListResponse struct {
	WorkOrders []WorkOrder         `json:"work_orders"`
	PageInfo   pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req SaveRequest) (WorkOrder, error)
	Update(ctx context.Context, id string, req UpdateRequest) (WorkOrder, error)
	Recalculate(ctx context.Context, id string) (WorkOrder, error)
	Get(ctx context.Context, id string) (WorkOrder, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Deactivate(ctx context.Context, id string) error
	InvoicePDF(ctx context.Context, id string) ([]byte, error)
	InvoiceData(ctx context.Context, id string) (pdf.InvoiceData, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidCustomer    = errors.New("invalid_customer")
	ErrInvalidUnit        = errors.New("invalid_unit")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidLaborBlocks = errors.New("invalid_labor_blocks")
	ErrCustomerNotFound   = errors.New("customer_not_found")
	ErrUnitNotFound       = errors.New("unit_not_found")
	ErrWorkOrderPaid      = errors.New("work_order_paid")
	ErrNotFound           = errors.New("not_found")
)
