package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	EnsureSupplyRule(ctx context.Context, db *gorm.DB, rule *SupplyRule) error
	EnsureCoreChargeRule(ctx context.Context, db *gorm.DB, rule *CoreChargeRule) error
	FindSupplyRule(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) (*SupplyRule, error)
	FindCoreChargeRule(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) (*CoreChargeRule, error)
	UpdateSupplyRule(ctx context.Context, db *gorm.DB, rule *SupplyRule) error
	UpdateCoreChargeRule(ctx context.Context, db *gorm.DB, rule *CoreChargeRule) error
}
