package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status     string
	CustomerID snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *WorkOrder) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*WorkOrder, error)
	LockByID(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*WorkOrder, error)
	// UpdateContent rewrites blocks and totals of an order that is not paid.
	UpdateContent(ctx context.Context, db *gorm.DB, order *WorkOrder) error
	UpdateStatus(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID, status string, paidAt *time.Time, at time.Time, updatedBy *snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, filter ListFilter, limit, offset int) ([]WorkOrder, error)
	Count(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, filter ListFilter) (int64, error)
	Deactivate(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID, at time.Time, updatedBy *snowflake.ID) error
	// SumPaid totals the active payments recorded against an order.
	SumPaid(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (decimal.Decimal, error)
}
