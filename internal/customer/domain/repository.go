package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindActive(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*Customer, error)
	InsertUnit(ctx context.Context, db *gorm.DB, unit *Unit) error
	FindActiveUnit(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*Unit, error)
}
