package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/workorder/domain"
	"github.com/smallbiznis/shopcore/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, order *domain.WorkOrder) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO work_orders (id, tenant_id, shop_id, customer_id, unit_id, status, labor_blocks, totals, grand_total,
		   is_active, created_at, created_by, updated_at, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.TenantID,
		order.ShopID,
		order.CustomerID,
		order.UnitID,
		order.Status,
		order.LaborBlocks,
		order.Totals,
		order.GrandTotal,
		order.IsActive,
		order.CreatedAt,
		order.CreatedBy,
		order.UpdatedAt,
		order.UpdatedBy,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.WorkOrder, error) {
	return r.find(ctx, conn, tenantID, shopID, id, "")
}

func (r *repo) LockByID(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.WorkOrder, error) {
	return r.find(ctx, conn, tenantID, shopID, id, db.ForUpdate(conn))
}

func (r *repo) find(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID, lock string) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	err := conn.WithContext(ctx).Raw(
		`SELECT `+domain.Columns+`
		 FROM work_orders
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

func (r *repo) UpdateContent(ctx context.Context, conn *gorm.DB, order *domain.WorkOrder) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE work_orders
		 SET labor_blocks = ?, totals = ?, grand_total = ?, updated_at = ?, updated_by = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ? AND status <> ?`,
		order.LaborBlocks,
		order.Totals,
		order.GrandTotal,
		order.UpdatedAt,
		order.UpdatedBy,
		order.TenantID,
		order.ShopID,
		order.ID,
		domain.StatusPaid,
	).Error
}

func (r *repo) UpdateStatus(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID, status string, paidAt *time.Time, at time.Time, updatedBy *snowflake.ID) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE work_orders
		 SET status = ?, paid_at = ?, updated_at = ?, updated_by = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`,
		status,
		paidAt,
		at,
		updatedBy,
		tenantID,
		shopID,
		id,
	).Error
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, tenantID, shopID snowflake.ID, filter domain.ListFilter, limit, offset int) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.filtered(ctx, conn, tenantID, shopID, filter).
		Select(domain.Columns).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, tenantID, shopID snowflake.ID, filter domain.ListFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, conn, tenantID, shopID, filter).Count(&total).Error
	return total, err
}

func (r *repo) filtered(ctx context.Context, conn *gorm.DB, tenantID, shopID snowflake.ID, filter domain.ListFilter) *gorm.DB {
	query := conn.WithContext(ctx).
		Table("work_orders").
		Where("tenant_id = ? AND shop_id = ? AND is_active = ?", tenantID, shopID, true)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	return query
}

func (r *repo) Deactivate(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID, at time.Time, updatedBy *snowflake.ID) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE work_orders
		 SET is_active = ?, updated_at = ?, updated_by = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`,
		false,
		at,
		updatedBy,
		tenantID,
		shopID,
		id,
	).Error
}

func (r *repo) SumPaid(ctx context.Context, conn *gorm.DB, tenantID, shopID, id snowflake.ID) (decimal.Decimal, error) {
	var row struct {
		Paid decimal.NullDecimal
	}
	err := conn.WithContext(ctx).Raw(
		`SELECT SUM(amount) AS paid
		 FROM work_order_payments
		 WHERE tenant_id = ? AND shop_id = ? AND work_order_id = ? AND is_active = ?`,
		tenantID,
		shopID,
		id,
		true,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Paid.Valid {
		return decimal.Zero, nil
	}
	return row.Paid.Decimal, nil
}
