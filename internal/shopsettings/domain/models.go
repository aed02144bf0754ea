package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SupplyRule holds the percentage of labor billed as a shop supply fee.
type SupplyRule struct {
	ID                   snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID             snowflake.ID    `gorm:"not null" json:"tenant_id"`
	ShopID               snowflake.ID    `gorm:"not null;uniqueIndex" json:"shop_id"`
	ShopSupplyPercentage decimal.Decimal `gorm:"not null" json:"shop_supply_percentage"`
	IsActive             bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (SupplyRule) TableName() string { return "shop_supply_amount_rules" }

type CoreChargeRule struct {
	ID                    snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID              snowflake.ID  `gorm:"not null" json:"tenant_id"`
	ShopID                snowflake.ID  `gorm:"not null;uniqueIndex" json:"shop_id"`
	ChargeForCoresDefault bool          `gorm:"not null;default:false" json:"charge_for_cores_default"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
	UpdatedBy             *snowflake.ID `json:"updated_by,omitempty"`
}

func (CoreChargeRule) TableName() string { return "core_charge_rules" }

// Settings is the work order configuration of one shop.
type Settings struct {
	ShopSupplyPercentage  decimal.Decimal `json:"shop_supply_percentage"`
	ChargeForCoresDefault bool            `json:"charge_for_cores_default"`
}
