package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const SourcePurchaseOrder = "purchase_order"

// Movement is one receipt applied to a part. StockAfter and
// AverageCostAfter record the part state right after the receipt.
type Movement struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID         snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	ShopID           snowflake.ID    `gorm:"not null;index" json:"shop_id"`
	PartID           snowflake.ID    `gorm:"not null;index" json:"part_id"`
	SourceType       string          `gorm:"not null" json:"source_type"`
	SourceID         *snowflake.ID   `json:"source_id,omitempty"`
	Quantity         int64           `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"not null" json:"unit_price"`
	StockAfter       int64           `gorm:"not null" json:"stock_after"`
	AverageCostAfter decimal.Decimal `gorm:"not null" json:"average_cost_after"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	CreatedBy        *snowflake.ID   `json:"created_by,omitempty"`
}

func (Movement) TableName() string { return "inventory_movements" }

// Stock is the locked view of a part used while applying a receipt.
type Stock struct {
	ID          snowflake.ID
	InStock     int64
	AverageCost decimal.Decimal
	IsActive    bool
}
