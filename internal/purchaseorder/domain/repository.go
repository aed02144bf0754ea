package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *PurchaseOrder) error
	InsertItems(ctx context.Context, db *gorm.DB, items []Item) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*PurchaseOrder, error)
	LockByID(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*PurchaseOrder, error)
	ListItems(ctx context.Context, db *gorm.DB, shopID, orderID snowflake.ID) ([]Item, error)
	MarkReceived(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID, at time.Time, receivedBy *snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, status string, limit, offset int) ([]PurchaseOrder, error)
	Count(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, status string) (int64, error)
	Deactivate(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID, at time.Time) error
}
