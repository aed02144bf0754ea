package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/purchaseorder/domain"
	"github.com/smallbiznis/shopcore/pkg/db"
	"gorm.io/gorm"
)

const orderColumns = `id, tenant_id, shop_id, vendor_id, status, is_active, created_at, created_by,
	updated_at, received_at, received_by`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, order *domain.PurchaseOrder) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO purchase_orders (id, tenant_id, shop_id, vendor_id, status, is_active, created_at, created_by, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.TenantID,
		order.ShopID,
		order.VendorID,
		order.Status,
		order.IsActive,
		order.CreatedAt,
		order.CreatedBy,
		order.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, conn *gorm.DB, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}
	return conn.WithContext(ctx).CreateInBatches(&items, 100).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.PurchaseOrder, error) {
	return r.find(ctx, conn, tenantID, shopID, id, "")
}

func (r *repo) LockByID(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.PurchaseOrder, error) {
	return r.find(ctx, conn, tenantID, shopID, id, db.ForUpdate(conn))
}

func (r *repo) find(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID, lock string) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	err := conn.WithContext(ctx).Raw(
		`SELECT `+orderColumns+`
		 FROM purchase_orders
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`+lock,
		tenantID,
		shopID,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) ListItems(ctx context.Context, conn *gorm.DB, shopID, orderID snowflake.ID) ([]domain.Item, error) {
	var items []domain.Item
	err := conn.WithContext(ctx).Raw(
		`SELECT id, purchase_order_id, shop_id, line_no, part_id, part_number, description, unit_price, quantity
		 FROM purchase_order_items
		 WHERE shop_id = ? AND purchase_order_id = ?
		 ORDER BY line_no ASC`,
		shopID,
		orderID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkReceived(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID, at time.Time, receivedBy *snowflake.ID) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE purchase_orders
		 SET status = ?, received_at = ?, received_by = ?, updated_at = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ? AND status = ?`,
		domain.StatusReceived,
		at,
		receivedBy,
		at,
		tenantID,
		shopID,
		id,
		domain.StatusOrdered,
	).Error
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, tenantID, shopID snowflake.ID, status string, limit, offset int) ([]domain.PurchaseOrder, error) {
	query := conn.WithContext(ctx).
		Table("purchase_orders").
		Select(orderColumns).
		Where("tenant_id = ? AND shop_id = ? AND is_active = ?", tenantID, shopID, true)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []domain.PurchaseOrder
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Scan(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, tenantID, shopID snowflake.ID, status string) (int64, error) {
	query := conn.WithContext(ctx).
		Table("purchase_orders").
		Where("tenant_id = ? AND shop_id = ? AND is_active = ?", tenantID, shopID, true)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *repo) Deactivate(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID, at time.Time) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE purchase_orders SET is_active = ?, updated_at = ? WHERE tenant_id = ? AND shop_id = ? AND id = ?`,
		false,
		at,
		tenantID,
		shopID,
		id,
	).Error
}
