package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusDraft = "draft"
	StatusOpen  = "open"
	StatusPaid  = "paid"
)

// AssignedMechanic splits a block's labor between mechanics. Name and role
// are snapshots taken from the shop roster when the block is saved.
type AssignedMechanic struct {
	UserID  string          `json:"user_id" validate:"required"`
	Name    string          `json:"name"`
	Role    string          `json:"role"`
	Percent decimal.Decimal `json:"percent"`
}

// PartLine is a part billed on a labor block. Cost is the basis when the
// line was added, Price the sale price. CoreCharge and MiscCharge are nil
// when the line carries no such charge.
type PartLine struct {
	PartID                string           `json:"part_id,omitempty"`
	PartNumber            string           `json:"part_number" validate:"max=100"`
	Description           string           `json:"description" validate:"max=500"`
	Qty                   int64            `json:"qty" validate:"gte=0"`
	Cost                  decimal.Decimal  `json:"cost" validate:"money"`
	Price                 decimal.Decimal  `json:"price" validate:"money"`
	CoreCharge            *decimal.Decimal `json:"core_charge,omitempty" validate:"omitempty,money"`
	MiscCharge            *decimal.Decimal `json:"misc_charge,omitempty" validate:"omitempty,money"`
	MiscChargeDescription string           `json:"misc_charge_description,omitempty" validate:"max=200"`
}

type LaborBlock struct {
	Description       string             `json:"description" validate:"max=2000"`
	Hours             decimal.Decimal    `json:"hours" validate:"money"`
	RateCode          string             `json:"rate_code" validate:"max=64"`
	AssignedMechanics []AssignedMechanic `json:"assigned_mechanics" validate:"dive"`
	Parts             []PartLine         `json:"parts" validate:"dive"`
}

type WorkOrder struct {
	ID          snowflake.ID                    `gorm:"primaryKey" json:"id"`
	TenantID    snowflake.ID                    `gorm:"not null;index" json:"tenant_id"`
	ShopID      snowflake.ID                    `gorm:"not null;index" json:"shop_id"`
	CustomerID  snowflake.ID                    `gorm:"not null" json:"customer_id"`
	UnitID      snowflake.ID                    `gorm:"not null" json:"unit_id"`
	Status      string                          `gorm:"not null" json:"status"`
	LaborBlocks datatypes.JSONSlice[LaborBlock] `gorm:"column:labor_blocks" json:"labor_blocks"`
	Totals      datatypes.JSONType[Totals]      `gorm:"column:totals" json:"totals"`
	GrandTotal  decimal.Decimal                 `gorm:"not null" json:"grand_total"`
	IsActive    bool                            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time                       `gorm:"not null" json:"created_at"`
	CreatedBy   *snowflake.ID                   `json:"created_by,omitempty"`
	UpdatedAt   time.Time                       `gorm:"not null" json:"updated_at"`
	UpdatedBy   *snowflake.ID                   `json:"updated_by,omitempty"`
	PaidAt      *time.Time                      `json:"paid_at,omitempty"`
}

func (WorkOrder) TableName() string { return "work_orders" }

// Columns is the select list shared by work order queries.
const Columns = `id, tenant_id, shop_id, customer_id, unit_id, status, labor_blocks, totals, grand_total,
	is_active, created_at, created_by, updated_at, updated_by, paid_at`
