package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/part/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, part *domain.Part) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO parts (id, tenant_id, shop_id, part_number, description, reference, vendor_id, category_id, location_id,
		   in_stock, average_cost, core_cost, misc_charges, is_active, created_at, created_by, updated_at, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		part.ID,
		part.TenantID,
		part.ShopID,
		part.PartNumber,
		part.Description,
		part.Reference,
		part.VendorID,
		part.CategoryID,
		part.LocationID,
		part.InStock,
		part.AverageCost,
		part.CoreCost,
		part.MiscCharges,
		part.IsActive,
		part.CreatedAt,
		part.CreatedBy,
		part.UpdatedAt,
		part.UpdatedBy,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.Part, error) {
	var part domain.Part
	err := db.WithContext(ctx).Raw(
		`SELECT `+domain.Columns+`
		 FROM parts
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`,
		tenantID,
		shopID,
		id,
	).Scan(&part).Error
	if err != nil {
		return nil, err
	}
	if part.ID == 0 {
		return nil, nil
	}
	return &part, nil
}

func (r *repo) FindActiveByIDs(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, ids []snowflake.ID) ([]domain.Part, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var parts []domain.Part
	err := db.WithContext(ctx).Raw(
		`SELECT `+domain.Columns+`
		 FROM parts
		 WHERE tenant_id = ? AND shop_id = ? AND is_active = ? AND id IN ?`,
		tenantID,
		shopID,
		true,
		ids,
	).Scan(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repo) UpdateDetails(ctx context.Context, db *gorm.DB, part *domain.Part) error {
	return db.WithContext(ctx).Exec(
		`UPDATE parts
		 SET part_number = ?, description = ?, reference = ?, core_cost = ?, misc_charges = ?, updated_at = ?, updated_by = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`,
		part.PartNumber,
		part.Description,
		part.Reference,
		part.CoreCost,
		part.MiscCharges,
		part.UpdatedAt,
		part.UpdatedBy,
		part.TenantID,
		part.ShopID,
		part.ID,
	).Error
}

func (r *repo) Deactivate(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID, at time.Time, updatedBy *snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE parts SET is_active = ?, updated_at = ?, updated_by = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`,
		false,
		at,
		updatedBy,
		tenantID,
		shopID,
		id,
	).Error
}
