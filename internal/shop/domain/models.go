package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleOwner          = "owner"
	RoleAdmin          = "admin"
	RoleSeniorMechanic = "senior_mechanic"
	RoleMechanic       = "mechanic"
)

type Shop struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Name      string       `gorm:"not null" json:"name"`
	Slug      string       `gorm:"not null" json:"slug"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Shop) TableName() string { return "shops" }

// Member links a directory user to a shop with a role.
type Member struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	ShopID    snowflake.ID `gorm:"not null;index" json:"shop_id"`
	UserID    snowflake.ID `gorm:"not null" json:"user_id"`
	Name      string       `gorm:"not null" json:"name"`
	Role      string       `gorm:"not null" json:"role"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Member) TableName() string { return "shop_members" }

// Mechanic is an assignable roster entry.
type Mechanic struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
	Role string       `json:"role"`
}

func IsMechanicRole(role string) bool {
	return role == RoleSeniorMechanic || role == RoleMechanic
}

func IsValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleSeniorMechanic, RoleMechanic:
		return true
	default:
		return false
	}
}
