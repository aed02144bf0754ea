package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/laborrate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, code string) (*domain.LaborRate, error) {
	var rate domain.LaborRate
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, code, name, hourly_rate, is_active, created_at, updated_at
		 FROM labor_rates
		 WHERE tenant_id = ? AND shop_id = ? AND code = ?`,
		tenantID,
		shopID,
		code,
	).Scan(&rate).Error
	if err != nil {
		return nil, err
	}
	if rate.ID == 0 {
		return nil, nil
	}
	return &rate, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rate *domain.LaborRate) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO labor_rates (id, tenant_id, shop_id, code, name, hourly_rate, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rate.ID,
		rate.TenantID,
		rate.ShopID,
		rate.Code,
		rate.Name,
		rate.HourlyRate,
		rate.IsActive,
		rate.CreatedAt,
		rate.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rate *domain.LaborRate) error {
	return db.WithContext(ctx).Exec(
		`UPDATE labor_rates
		 SET name = ?, hourly_rate = ?, is_active = ?, updated_at = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`,
		rate.Name,
		rate.HourlyRate,
		rate.IsActive,
		rate.UpdatedAt,
		rate.TenantID,
		rate.ShopID,
		rate.ID,
	).Error
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) ([]domain.LaborRate, error) {
	var rates []domain.LaborRate
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, code, name, hourly_rate, is_active, created_at, updated_at
		 FROM labor_rates
		 WHERE tenant_id = ? AND shop_id = ? AND is_active = ?
		 ORDER BY code ASC`,
		tenantID,
		shopID,
		true,
	).Scan(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}
