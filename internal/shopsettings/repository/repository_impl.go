package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/shopsettings/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func shopConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop_id"}},
		DoNothing: true,
	}
}

func (r *repo) EnsureSupplyRule(ctx context.Context, db *gorm.DB, rule *domain.SupplyRule) error {
	return db.WithContext(ctx).Clauses(shopConflict()).Create(rule).Error
}

func (r *repo) EnsureCoreChargeRule(ctx context.Context, db *gorm.DB, rule *domain.CoreChargeRule) error {
	return db.WithContext(ctx).Clauses(shopConflict()).Create(rule).Error
}

func (r *repo) FindSupplyRule(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) (*domain.SupplyRule, error) {
	var rule domain.SupplyRule
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, shop_supply_percentage, is_active, created_at, updated_at
		 FROM shop_supply_amount_rules
		 WHERE tenant_id = ? AND shop_id = ?`,
		tenantID,
		shopID,
	).Scan(&rule).Error
	if err != nil {
		return nil, err
	}
	if rule.ID == 0 {
		return nil, nil
	}
	return &rule, nil
}

func (r *repo) FindCoreChargeRule(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) (*domain.CoreChargeRule, error) {
	var rule domain.CoreChargeRule
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, charge_for_cores_default, created_at, updated_at, updated_by
		 FROM core_charge_rules
		 WHERE tenant_id = ? AND shop_id = ?`,
		tenantID,
		shopID,
	).Scan(&rule).Error
	if err != nil {
		return nil, err
	}
	if rule.ID == 0 {
		return nil, nil
	}
	return &rule, nil
}

func (r *repo) UpdateSupplyRule(ctx context.Context, db *gorm.DB, rule *domain.SupplyRule) error {
	return db.WithContext(ctx).Exec(
		`UPDATE shop_supply_amount_rules
		 SET shop_supply_percentage = ?, is_active = ?, updated_at = ?
		 WHERE tenant_id = ? AND shop_id = ?`,
		rule.ShopSupplyPercentage,
		rule.IsActive,
		rule.UpdatedAt,
		rule.TenantID,
		rule.ShopID,
	).Error
}

func (r *repo) UpdateCoreChargeRule(ctx context.Context, db *gorm.DB, rule *domain.CoreChargeRule) error {
	return db.WithContext(ctx).Exec(
		`UPDATE core_charge_rules
		 SET charge_for_cores_default = ?, updated_at = ?, updated_by = ?
		 WHERE tenant_id = ? AND shop_id = ?`,
		rule.ChargeForCoresDefault,
		rule.UpdatedAt,
		rule.UpdatedBy,
		rule.TenantID,
		rule.ShopID,
	).Error
}
