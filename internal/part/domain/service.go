package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreatePartRequest struct {
	PartNumber  string           `json:"part_number" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=500"`
	Reference   string           `json:"reference" validate:"max=100"`
	VendorID    string           `json:"vendor_id"`
	CategoryID  string           `json:"category_id"`
	LocationID  string           `json:"location_id"`
	InStock     int64            `json:"in_stock" validate:"gte=0"`
	AverageCost decimal.Decimal  `json:"average_cost" validate:"money"`
	CoreCost    *decimal.Decimal `json:"core_cost" validate:"omitempty,money"`
	MiscCharges []MiscCharge     `json:"misc_charges" validate:"dive"`
}

// UpdatePartRequest patches descriptive fields. Stock and cost only change
// through inventory receipts. CoreHasCharge=false clears the core charge.
type UpdatePartRequest struct {
	PartNumber    *string          `json:"part_number" validate:"omitempty,min=1,max=100"`
	Description   *string          `json:"description" validate:"omitempty,max=500"`
	Reference     *string          `json:"reference" validate:"omitempty,max=100"`
	CoreHasCharge *bool            `json:"core_has_charge"`
	CoreCost      *decimal.Decimal `json:"core_cost" validate:"omitempty,money"`
	MiscCharges   *[]MiscCharge    `json:"misc_charges"`
}

type Service interface {
	Create(ctx context.Context, req CreatePartRequest) (Summary, error)
	Update(ctx context.Context, id string, req UpdatePartRequest) (Summary, error)
	Get(ctx context.Context, id string) (Summary, error)
	Deactivate(ctx context.Context, id string) error
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidPartNumber   = errors.New("invalid_part_number")
	ErrInvalidStock        = errors.New("invalid_in_stock")
	ErrInvalidCost         = errors.New("invalid_average_cost")
	ErrInvalidCoreCost     = errors.New("invalid_core_cost")
	ErrInvalidMiscCharge   = errors.New("invalid_misc_charge")
	ErrInvalidReference    = errors.New("invalid_reference_id")
	ErrDuplicatePartNumber = errors.New("duplicate_part_number")
	ErrNotFound            = errors.New("not_found")
)
