package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByShop(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) (*domain.RuleSet, error) {
	var set domain.RuleSet
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, mode, rules, created_at, updated_at, updated_by
		 FROM parts_pricing_rules
		 WHERE tenant_id = ? AND shop_id = ?
		 LIMIT 1`,
		tenantID,
		shopID,
	).Scan(&set).Error
	if err != nil {
		return nil, err
	}
	if set.ID == 0 {
		return nil, nil
	}
	return &set, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, set *domain.RuleSet) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO parts_pricing_rules (id, tenant_id, shop_id, mode, rules, created_at, updated_at, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		set.ID,
		set.TenantID,
		set.ShopID,
		set.Mode,
		set.Rules,
		set.CreatedAt,
		set.UpdatedAt,
		set.UpdatedBy,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, set *domain.RuleSet) error {
	return db.WithContext(ctx).Exec(
		`UPDATE parts_pricing_rules
		 SET mode = ?, rules = ?, updated_at = ?, updated_by = ?
		 WHERE tenant_id = ? AND shop_id = ? AND id = ?`,
		set.Mode,
		set.Rules,
		set.UpdatedAt,
		set.UpdatedBy,
		set.TenantID,
		set.ShopID,
		set.ID,
	).Error
}
