package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	LockStock(ctx context.Context, db *gorm.DB, tenantID, shopID, partID snowflake.ID) (*Stock, error)
	UpdateStock(ctx context.Context, db *gorm.DB, tenantID, shopID, partID snowflake.ID, inStock int64, averageCost decimal.Decimal, at time.Time, updatedBy *snowflake.ID) error
	InsertMovement(ctx context.Context, db *gorm.DB, movement *Movement) error
	ListMovements(ctx context.Context, db *gorm.DB, tenantID, shopID, partID snowflake.ID, limit, offset int) ([]Movement, error)
	CountMovements(ctx context.Context, db *gorm.DB, tenantID, shopID, partID snowflake.ID) (int64, error)
}
