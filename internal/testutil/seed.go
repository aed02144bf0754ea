package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"gorm.io/gorm"
)

// Fixture is a seeded tenant with one active shop and an owner.
type Fixture struct {
	DB       *gorm.DB
	Node     *snowflake.Node
	TenantID snowflake.ID
	ShopID   snowflake.ID
	UserID   snowflake.ID
}

// NewFixture opens a database and seeds a tenant, shop and owner member.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	f := &Fixture{
		DB:   OpenDB(t),
		Node: NewNode(t),
	}
	f.TenantID = f.Node.Generate()
	f.UserID = f.Node.Generate()
	f.ShopID = f.SeedShop(t, f.TenantID, "Main Street Diesel")
	f.SeedMember(t, f.ShopID, f.UserID, "Olivia Owner", "owner")
	return f
}

// Context returns a context scoped to the fixture shop.
func (f *Fixture) Context() context.Context {
	return shopcontext.WithScope(context.Background(), shopcontext.Scope{
		TenantID: f.TenantID,
		ShopID:   f.ShopID,
		UserID:   f.UserID,
	})
}

func (f *Fixture) SeedShop(t *testing.T, tenantID snowflake.ID, name string) snowflake.ID {
	t.Helper()
	id := f.Node.Generate()
	now := time.Now().UTC()
	f.exec(t, `INSERT INTO shops (id, tenant_id, name, slug, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, id, tenantID, name, name, true, now, now)
	return id
}

func (f *Fixture) SeedMember(t *testing.T, shopID, userID snowflake.ID, name, role string) snowflake.ID {
	t.Helper()
	id := f.Node.Generate()
	now := time.Now().UTC()
	f.exec(t, `INSERT INTO shop_members (id, tenant_id, shop_id, user_id, name, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, id, f.TenantID, shopID, userID, name, role, true, now, now)
	return id
}

func (f *Fixture) SeedVendor(t *testing.T, name string, active bool) snowflake.ID {
	t.Helper()
	id := f.Node.Generate()
	now := time.Now().UTC()
	f.exec(t, `INSERT INTO vendors (id, tenant_id, shop_id, name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, id, f.TenantID, f.ShopID, name, active, now, now)
	return id
}

func (f *Fixture) SeedCustomer(t *testing.T, company string, active bool) snowflake.ID {
	t.Helper()
	id := f.Node.Generate()
	now := time.Now().UTC()
	f.exec(t, `INSERT INTO customers (id, tenant_id, shop_id, company_name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, id, f.TenantID, f.ShopID, company, active, now, now)
	return id
}

func (f *Fixture) SeedUnit(t *testing.T, customerID snowflake.ID, vin string, active bool) snowflake.ID {
	t.Helper()
	id := f.Node.Generate()
	now := time.Now().UTC()
	f.exec(t, `INSERT INTO units (id, tenant_id, shop_id, customer_id, vin, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, id, f.TenantID, f.ShopID, customerID, vin, active, now, now)
	return id
}

// PartSeed describes a catalog row inserted without search terms.
type PartSeed struct {
	PartNumber  string
	Description string
	Reference   string
	InStock     int64
	AverageCost decimal.Decimal
	Inactive    bool
}

func (f *Fixture) SeedPart(t *testing.T, p PartSeed) snowflake.ID {
	t.Helper()
	id := f.Node.Generate()
	now := time.Now().UTC()
	f.exec(t, `INSERT INTO parts (id, tenant_id, shop_id, part_number, description, reference, in_stock, average_cost, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, f.TenantID, f.ShopID, p.PartNumber, p.Description, p.Reference, p.InStock, p.AverageCost, !p.Inactive, now, now)
	return id
}

// SeedWorkOrder inserts an open order without labor blocks whose stored
// totals carry only the grand total.
func (f *Fixture) SeedWorkOrder(t *testing.T, customerID, unitID snowflake.ID, grandTotal decimal.Decimal) snowflake.ID {
	t.Helper()
	id := f.Node.Generate()
	now := time.Now().UTC()
	totals := `{"grand_total":` + grandTotal.String() + `}`
	f.exec(t, `INSERT INTO work_orders (id, tenant_id, shop_id, customer_id, unit_id, status, labor_blocks, totals, grand_total, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'open', '[]', ?, ?, ?, ?, ?)`,
		id, f.TenantID, f.ShopID, customerID, unitID, totals, grandTotal, true, now, now)
	return id
}

func (f *Fixture) exec(t *testing.T, sql string, args ...any) {
	t.Helper()
	if err := f.DB.Exec(sql, args...).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
}
