package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	ModeMargin = "margin"
	ModeMarkup = "markup"
)

// Tier applies ValuePercent to costs in [From, To). A nil To is unbounded.
type Tier struct {
	From         decimal.Decimal  `json:"from"`
	To           *decimal.Decimal `json:"to"`
	ValuePercent decimal.Decimal  `json:"value_percent"`
}

// Contains reports whether cost falls inside the tier.
func (t Tier) Contains(cost decimal.Decimal) bool {
	if cost.LessThan(t.From) {
		return false
	}
	return t.To == nil || cost.LessThan(*t.To)
}

// RuleSet is the single pricing document of a shop.
type RuleSet struct {
	ID        snowflake.ID              `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID              `gorm:"not null;index" json:"tenant_id"`
	ShopID    snowflake.ID              `gorm:"not null;uniqueIndex" json:"shop_id"`
	Mode      string                    `gorm:"not null" json:"mode"`
	Rules     datatypes.JSONSlice[Tier] `gorm:"type:jsonb" json:"rules"`
	CreatedAt time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *snowflake.ID             `json:"updated_by,omitempty"`
}

func (RuleSet) TableName() string { return "parts_pricing_rules" }
