package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/inventory/domain"
	"github.com/smallbiznis/shopcore/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) LockStock(ctx context.Context, conn *gorm.DB, tenantID, shopID, partID snowflake.ID) (*domain.Stock, error) {
	var stock domain.Stock
	err := conn.WithContext(ctx).Raw(
		`SELECT id, in_stock, average_cost, is_active
		 FROM parts
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`+db.ForUpdate(conn),
		tenantID,
		shopID,
		partID,
	).Scan(&stock).Error
	if err != nil {
		return nil, err
	}
	if stock.ID == 0 {
		return nil, nil
	}
	return &stock, nil
}

func (r *repo) UpdateStock(ctx context.Context, conn *gorm.DB, tenantID, shopID, partID snowflake.ID, inStock int64, averageCost decimal.Decimal, at time.Time, updatedBy *snowflake.ID) error {
	return conn.WithContext(ctx).Exec(
		`UPDATE parts
		 SET in_stock = ?, average_cost = ?, updated_at = ?, updated_by = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ? AND is_active = ?`,
		inStock,
		averageCost,
		at,
		updatedBy,
		tenantID,
		shopID,
		partID,
		true,
	).Error
}

func (r *repo) InsertMovement(ctx context.Context, conn *gorm.DB, m *domain.Movement) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO inventory_movements (
			id, tenant_id, shop_id, part_id, source_type, source_id, quantity, unit_price,
			stock_after, average_cost_after, created_at, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.TenantID,
		m.ShopID,
		m.PartID,
		m.SourceType,
		m.SourceID,
		m.Quantity,
		m.UnitPrice,
		m.StockAfter,
		m.AverageCostAfter,
		m.CreatedAt,
		m.CreatedBy,
	).Error
}

func (r *repo) ListMovements(ctx context.Context, conn *gorm.DB, tenantID, shopID, partID snowflake.ID, limit, offset int) ([]domain.Movement, error) {
	var items []domain.Movement
	err := conn.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, part_id, source_type, source_id, quantity, unit_price,
			stock_after, average_cost_after, created_at, created_by
		 FROM inventory_movements
		 WHERE tenant_id = ? AND shop_id = ? AND part_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		tenantID,
		shopID,
		partID,
		limit,
		offset,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountMovements(ctx context.Context, conn *gorm.DB, tenantID, shopID, partID snowflake.ID) (int64, error) {
	var total int64
	err := conn.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM inventory_movements WHERE tenant_id = ? AND shop_id = ? AND part_id = ?`,
		tenantID,
		shopID,
		partID,
	).Scan(&total).Error
	return total, err
}
