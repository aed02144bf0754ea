package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	StatusOrdered  = "ordered"
	StatusReceived = "received"
)

type PurchaseOrder struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID  `gorm:"not null;index" json:"tenant_id"`
	ShopID     snowflake.ID  `gorm:"not null;index" json:"shop_id"`
	VendorID   snowflake.ID  `gorm:"not null" json:"vendor_id"`
	Status     string        `gorm:"not null" json:"status"`
	IsActive   bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time     `gorm:"not null" json:"created_at"`
	CreatedBy  *snowflake.ID `json:"created_by,omitempty"`
	UpdatedAt  time.Time     `gorm:"not null" json:"updated_at"`
	ReceivedAt *time.Time    `json:"received_at,omitempty"`
	ReceivedBy *snowflake.ID `json:"received_by,omitempty"`
	Items      []Item        `gorm:"-" json:"items,omitempty"`
}

func (PurchaseOrder) TableName() string { return "purchase_orders" }

// Item snapshots the part number and description at order time.
type Item struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	PurchaseOrderID snowflake.ID    `gorm:"not null;index" json:"purchase_order_id"`
	ShopID          snowflake.ID    `gorm:"not null" json:"shop_id"`
	LineNo          int             `gorm:"not null" json:"line_no"`
	PartID          snowflake.ID    `gorm:"not null" json:"part_id"`
	PartNumber      string          `json:"part_number"`
	Description     string          `json:"description"`
	UnitPrice       decimal.Decimal `gorm:"not null" json:"unit_price"`
	Quantity        int64           `gorm:"not null" json:"quantity"`
}

func (Item) TableName() string { return "purchase_order_items" }

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
