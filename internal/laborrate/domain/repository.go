package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByCode(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, code string) (*LaborRate, error)
	Insert(ctx context.Context, db *gorm.DB, rate *LaborRate) error
	Update(ctx context.Context, db *gorm.DB, rate *LaborRate) error
	ListActive(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) ([]LaborRate, error)
}
