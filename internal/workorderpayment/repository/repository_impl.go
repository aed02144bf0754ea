package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/workorderpayment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO work_order_payments (id, tenant_id, shop_id, work_order_id, receipt_number, amount, payment_method, notes,
		   is_active, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.TenantID,
		payment.ShopID,
		payment.WorkOrderID,
		payment.ReceiptNumber,
		payment.Amount,
		payment.PaymentMethod,
		payment.Notes,
		payment.IsActive,
		payment.CreatedAt,
		payment.CreatedBy,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT `+domain.Columns+`
		 FROM work_order_payments
		 WHERE tenant_id = ? AND shop_id = ? AND id = ? AND is_active = ?`,
		tenantID,
		shopID,
		id,
		true,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) ListByWorkOrder(ctx context.Context, db *gorm.DB, tenantID, shopID, workOrderID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT `+domain.Columns+`
		 FROM work_order_payments
		 WHERE tenant_id = ? AND shop_id = ? AND work_order_id = ? AND is_active = ?
		 ORDER BY created_at ASC, id ASC`,
		tenantID,
		shopID,
		workOrderID,
		true,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) SumByWorkOrder(ctx context.Context, db *gorm.DB, tenantID, shopID, workOrderID snowflake.ID) (decimal.Decimal, error) {
	var row struct {
		Paid decimal.NullDecimal
	}
	err := db.WithContext(ctx).Raw(
		`SELECT SUM(amount) AS paid
		 FROM work_order_payments
		 WHERE tenant_id = ? AND shop_id = ? AND work_order_id = ? AND is_active = ?`,
		tenantID,
		shopID,
		workOrderID,
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

func (r *repo) DeleteByWorkOrder(ctx context.Context, db *gorm.DB, tenantID, shopID, workOrderID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM work_order_payments WHERE tenant_id = ? AND shop_id = ? AND work_order_id = ?`,
		tenantID,
		shopID,
		workOrderID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, method string, limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.filtered(ctx, db, tenantID, shopID, method).
		Select(domain.Columns).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, method string) (int64, error) {
	var total int64
	err := r.filtered(ctx, db, tenantID, shopID, method).Count(&total).Error
	return total, err
}

func (r *repo) filtered(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, method string) *gorm.DB {
	query := db.WithContext(ctx).
		Table("work_order_payments").
		Where("tenant_id = ? AND shop_id = ? AND is_active = ?", tenantID, shopID, true)
	if method != "" {
		query = query.Where("payment_method = ?", method)
	}
	return query
}
