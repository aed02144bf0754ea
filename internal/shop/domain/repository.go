package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, shop *Shop) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Shop, error)
	InsertMember(ctx context.Context, db *gorm.DB, member *Member) error
	FindMember(ctx context.Context, db *gorm.DB, tenantID, shopID, userID snowflake.ID) (*Member, error)
	ListMechanics(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID) ([]Mechanic, error)
}
