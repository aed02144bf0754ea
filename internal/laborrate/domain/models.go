package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// LaborRate is a named hourly rate referenced by labor blocks through Code.
type LaborRate struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	ShopID     snowflake.ID    `gorm:"not null;index" json:"shop_id"`
	Code       string          `gorm:"not null" json:"code"`
	Name       string          `gorm:"not null" json:"name"`
	HourlyRate decimal.Decimal `gorm:"not null" json:"hourly_rate"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

func (LaborRate) TableName() string { return "labor_rates" }

// NormalizeCode turns free text like "After Hours" into "after_hours".
func NormalizeCode(value string) string {
	return strings.ReplaceAll(slug.Make(strings.TrimSpace(value)), "-", "_")
}
