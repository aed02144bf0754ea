package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/shop/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, shop *domain.Shop) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO shops (id, tenant_id, name, slug, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		shop.ID,
		shop.TenantID,
		shop.Name,
		shop.Slug,
		shop.IsActive,
		shop.CreatedAt,
		shop.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Shop, error) {
	var shop domain.Shop
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, name, slug, is_active, created_at, updated_at
		 FROM shops WHERE id = ?`,
		id,
	).Scan(&shop).Error
	if err != nil {
		return nil, err
	}
	if shop.ID == 0 {
		return nil, nil
	}
	return &shop, nil
}

func (r *repo) InsertMember(ctx context.Context, db *gorm.DB, member *domain.Member) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO shop_members (id, tenant_id, shop_id, user_id, name, role, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.TenantID,
		member.ShopID,
		member.UserID,
		member.Name,
		member.Role,
		member.IsActive,
		member.CreatedAt,
		member.UpdatedAt,
	).Error
}

func (r *repo) FindMember(ctx context.Context, db *gorm.DB, tenantID, shopID, userID snowflake.ID) (*domain.Member, error) {
	var member domain.Member
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, user_id, name, role, is_active, created_at, updated_at
		 FROM shop_members
		 WHERE tenant_id = ? AND shop_id = ? AND user_id = ? AND is_active = ?
		 LIMIT 1`,
		tenantID,
		shopID,
		userID,
		true,
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repo) ListMechanics(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) ([]domain.Mechanic, error) {
	var rows []domain.Mechanic
	err := db.WithContext(ctx).Raw(
		`SELECT user_id AS id, name, role
		 FROM shop_members
		 WHERE tenant_id = ? AND shop_id = ? AND is_active = ? AND role IN ?
		 ORDER BY name ASC, user_id ASC`,
		tenantID,
		shopID,
		true,
		[]string{domain.RoleSeniorMechanic, domain.RoleMechanic},
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
