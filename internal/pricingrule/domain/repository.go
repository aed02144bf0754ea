package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByShop(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) (*RuleSet, error)
	Insert(ctx context.Context, db *gorm.DB, set *RuleSet) error
	Update(ctx context.Context, db *gorm.DB, set *RuleSet) error
}
