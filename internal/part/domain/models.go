package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// MiscCharge is an extra line billed with a part, such as a disposal fee.
type MiscCharge struct {
	Description string          `json:"description" validate:"max=200"`
	Price       decimal.Decimal `json:"price" validate:"money"`
}

// Part is a stocked catalog item. InStock and AverageCost only change
// together through inventory receipts.
type Part struct {
	ID          snowflake.ID                    `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID                    `gorm:"not null;index" json:"tenant_id"`
	ShopID      snowflake.ID                    `gorm:"not null;index" json:"shop_id"`
	PartNumber  string                          `gorm:"column:part_number;not null" json:"part_number"`
	Description string                          `json:"description"`
	Reference   string                          `json:"reference"`
	VendorID    *snowflake.ID                   `json:"vendor_id,omitempty"`
	CategoryID  *snowflake.ID                   `json:"category_id,omitempty"`
	LocationID  *snowflake.ID                   `json:"location_id,omitempty"`
	InStock     int64                           `gorm:"column:in_stock" json:"in_stock"`
	AverageCost decimal.Decimal                 `gorm:"column:average_cost" json:"average_cost"`
	CoreCost    decimal.NullDecimal             `gorm:"column:core_cost" json:"core_cost"`
	MiscCharges datatypes.JSONSlice[MiscCharge] `gorm:"column:misc_charges" json:"misc_charges"`
	IsActive    bool                            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time                       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy   *snowflake.ID                   `json:"created_by,omitempty"`
	UpdatedAt   time.Time                       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy   *snowflake.ID                   `json:"updated_by,omitempty"`
}

func (Part) TableName() string { return "parts" }

func (p Part) CoreHasCharge() bool {
	return p.CoreCost.Valid
}

func (p Part) MiscHasCharge() bool {
	return len(p.MiscCharges) > 0
}

// Columns is the select list shared by every part query.
const Columns = `id, tenant_id, shop_id, part_number, description, reference, vendor_id, category_id, location_id,
	in_stock, average_cost, core_cost, misc_charges, is_active, created_at, created_by, updated_at, updated_by`

// Summary is the part shape returned by search and catalog reads.
type Summary struct {
	ID            snowflake.ID     `json:"id"`
	PartNumber    string           `json:"part_number"`
	Description   string           `json:"description"`
	Reference     string           `json:"reference"`
	AverageCost   decimal.Decimal  `json:"average_cost"`
	InStock       int64            `json:"in_stock"`
	CoreHasCharge bool             `json:"core_has_charge"`
	CoreCost      *decimal.Decimal `json:"core_cost"`
	MiscHasCharge bool             `json:"misc_has_charge"`
	MiscCharges   []MiscCharge     `json:"misc_charges"`
	IsActive      bool             `json:"is_active"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
}

func NewSummary(p Part) Summary {
	out := Summary{
		ID:            p.ID,
		PartNumber:    p.PartNumber,
		Description:   p.Description,
		Reference:     p.Reference,
		AverageCost:   p.AverageCost,
		InStock:       p.InStock,
		CoreHasCharge: p.CoreHasCharge(),
		MiscHasCharge: p.MiscHasCharge(),
		MiscCharges:   []MiscCharge(p.MiscCharges),
		IsActive:      p.IsActive,
	}
	if p.CoreCost.Valid {
		cost := p.CoreCost.Decimal
		out.CoreCost = &cost
	}
	if out.MiscCharges == nil {
		out.MiscCharges = []MiscCharge{}
	}
	return out
}
