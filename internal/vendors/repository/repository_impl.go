package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/vendors/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, vendor *domain.Vendor) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO vendors (id, tenant_id, shop_id, name, email, phone, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vendor.ID,
		vendor.TenantID,
		vendor.ShopID,
		vendor.Name,
		vendor.Email,
		vendor.Phone,
		vendor.IsActive,
		vendor.CreatedAt,
		vendor.UpdatedAt,
	).Error
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, name, email, phone, is_active, created_at, updated_at
		 FROM vendors
		 WHERE tenant_id = ? AND shop_id = ? AND id = ? AND is_active = ?`,
		tenantID,
		shopID,
		id,
		true,
	).Scan(&vendor).Error
	if err != nil {
		return nil, err
	}
	if vendor.ID == 0 {
		return nil, nil
	}
	return &vendor, nil
}
