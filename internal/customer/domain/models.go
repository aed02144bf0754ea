package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID         snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	ShopID           snowflake.ID `gorm:"not null;index" json:"shop_id"`
	CompanyName      string       `gorm:"column:company_name" json:"company_name,omitempty"`
	FirstName        string       `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName         string       `gorm:"column:last_name" json:"last_name,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Email            string       `json:"email,omitempty"`
	DefaultLaborRate string       `gorm:"column:default_labor_rate" json:"default_labor_rate,omitempty"`
	IsActive         bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// DisplayName prefers the company name, then first and last name.
func (c Customer) DisplayName() string {
	if name := strings.TrimSpace(c.CompanyName); name != "" {
		return name
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Unit is a customer's vehicle.
type Unit struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	ShopID     snowflake.ID `gorm:"not null;index" json:"shop_id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	VIN        string       `gorm:"column:vin" json:"vin,omitempty"`
	Make       string       `json:"make,omitempty"`
	Model      string       `json:"model,omitempty"`
	Year       int          `json:"year,omitempty"`
	UnitType   string       `gorm:"column:unit_type" json:"unit_type,omitempty"`
	IsActive   bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Unit) TableName() string { return "units" }
