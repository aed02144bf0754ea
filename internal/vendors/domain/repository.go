package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, vendor *Vendor) error
	FindActive(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*Vendor, error)
}
