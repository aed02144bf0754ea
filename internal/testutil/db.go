// Package testutil opens throwaway sqlite databases carrying the shopcore
// schema for service tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

var schema = []string{
	`CREATE TABLE shops (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE shop_members (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE customers (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		company_name TEXT,
		first_name TEXT,
		last_name TEXT,
		phone TEXT,
		email TEXT,
		default_labor_rate TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE units (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		customer_id INTEGER NOT NULL,
		vin TEXT,
		make TEXT,
		model TEXT,
		year INTEGER,
		unit_type TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE vendors (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE parts (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		part_number TEXT NOT NULL,
		description TEXT,
		reference TEXT,
		vendor_id INTEGER,
		category_id INTEGER,
		location_id INTEGER,
		in_stock INTEGER NOT NULL DEFAULT 0,
		average_cost NUMERIC NOT NULL DEFAULT 0,
		core_cost NUMERIC,
		misc_charges TEXT NOT NULL DEFAULT '[]',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		created_by INTEGER,
		updated_at DATETIME,
		updated_by INTEGER,
		UNIQUE (shop_id, part_number)
	)`,
	`CREATE TABLE part_search_terms (
		shop_id INTEGER NOT NULL,
		part_id INTEGER NOT NULL,
		term TEXT NOT NULL,
		PRIMARY KEY (part_id, term)
	)`,
	`CREATE INDEX idx_part_search_terms_shop_term ON part_search_terms (shop_id, term)`,
	`CREATE TABLE inventory_movements (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		part_id INTEGER NOT NULL,
		source_type TEXT NOT NULL,
		source_id INTEGER,
		quantity INTEGER NOT NULL,
		unit_price NUMERIC NOT NULL,
		stock_after INTEGER NOT NULL,
		average_cost_after NUMERIC NOT NULL,
		created_at DATETIME,
		created_by INTEGER
	)`,
	`CREATE TABLE parts_pricing_rules (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL UNIQUE,
		mode TEXT NOT NULL,
		rules TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME,
		updated_at DATETIME,
		updated_by INTEGER
	)`,
	`CREATE TABLE purchase_orders (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		vendor_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		created_by INTEGER,
		updated_at DATETIME,
		received_at DATETIME,
		received_by INTEGER
	)`,
	`CREATE TABLE purchase_order_items (
		id INTEGER PRIMARY KEY,
		purchase_order_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		line_no INTEGER NOT NULL,
		part_id INTEGER NOT NULL,
		part_number TEXT,
		description TEXT,
		unit_price NUMERIC NOT NULL,
		quantity INTEGER NOT NULL
	)`,
	`CREATE TABLE labor_rates (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		hourly_rate NUMERIC NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (shop_id, code)
	)`,
	`CREATE TABLE shop_supply_amount_rules (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL UNIQUE,
		shop_supply_percentage NUMERIC NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE core_charge_rules (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL UNIQUE,
		charge_for_cores_default BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		updated_by INTEGER
	)`,
	`CREATE TABLE work_orders (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		customer_id INTEGER NOT NULL,
		unit_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		labor_blocks TEXT NOT NULL DEFAULT '[]',
		totals TEXT NOT NULL DEFAULT '{}',
		grand_total NUMERIC NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		created_by INTEGER,
		updated_at DATETIME,
		updated_by INTEGER,
		paid_at DATETIME
	)`,
	`CREATE TABLE work_order_payments (
		id INTEGER PRIMARY KEY,
		tenant_id INTEGER NOT NULL,
		shop_id INTEGER NOT NULL,
		work_order_id INTEGER NOT NULL,
		receipt_number TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		payment_method TEXT NOT NULL,
		notes TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		created_by INTEGER
	)`,
}

// OpenDB returns an isolated in-memory database with the full schema.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:shopcore_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

// NewNode returns a snowflake node for test id generation.
func NewNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(10)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}
