package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*Payment, error)
	ListByWorkOrder(ctx context.Context, db *gorm.DB, tenantID, shopID, workOrderID snowflake.ID) ([]Payment, error)
	SumByWorkOrder(ctx context.Context, db *gorm.DB, tenantID, shopID, workOrderID snowflake.ID) (decimal.Decimal, error)
	// DeleteByWorkOrder hard deletes every payment of the order.
	DeleteByWorkOrder(ctx context.Context, db *gorm.DB, tenantID, shopID, workOrderID snowflake.ID) (int64, error)
	List(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, method string, limit, offset int) ([]Payment, error)
	Count(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, method string) (int64, error)
}
