package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, part *Part) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID) (*Part, error)
	FindActiveByIDs(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, ids []snowflake.ID) ([]Part, error)
	UpdateDetails(ctx context.Context, db *gorm.DB, part *Part) error
	Deactivate(ctx context.Context, db *gorm.DB, tenantID, shopID, id snowflake.ID, at time.Time, updatedBy *snowflake.ID) error
}
