package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, tenant_id, shop_id, company_name, first_name, last_name, phone, email, default_labor_rate, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.TenantID,
		customer.ShopID,
		customer.CompanyName,
		customer.FirstName,
		customer.LastName,
		customer.Phone,
		customer.Email,
		customer.DefaultLaborRate,
		customer.IsActive,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, company_name, first_name, last_name, phone, email, default_labor_rate, is_active, created_at, updated_at
		 FROM customers
		 WHERE tenant_id = ? AND shop_id = ? AND id = ? AND is_active = ?`,
		tenantID,
		shopID,
		id,
		true,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) InsertUnit(ctx context.Context, db *gorm.DB, unit *domain.Unit) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO units (id, tenant_id, shop_id, customer_id, vin, make, model, year, unit_type, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		unit.ID,
		unit.TenantID,
		unit.ShopID,
		unit.CustomerID,
		unit.VIN,
		unit.Make,
		unit.Model,
		unit.Year,
		unit.UnitType,
		unit.IsActive,
		unit.CreatedAt,
		unit.UpdatedAt,
	).Error
}

func (r *repo) FindActiveUnit(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*domain.Unit, error) {
	var unit domain.Unit
	err := db.WithContext(ctx).Raw(
		`SELECT id, tenant_id, shop_id, customer_id, vin, make, model, year, unit_type, is_active, created_at, updated_at
		 FROM units
		 WHERE tenant_id = ? AND shop_id = ? AND id = ? AND is_active = ?`,
		tenantID,
		shopID,
		id,
		true,
	).Scan(&unit).Error
	if err != nil {
		return nil, err
	}
	if unit.ID == 0 {
		return nil, nil
	}
	return &unit, nil
}
