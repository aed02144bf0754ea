package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	"gorm.io/gorm"
)

// Cursor is the last candidate of a page, in part_number then id order.
type Cursor struct {
	PartNumber string
	ID         snowflake.ID
}

// CursorOf returns the cursor following the last part of page.
func CursorOf(page []partdomain.Part) *Cursor {
	if len(page) == 0 {
		return nil
	}
	last := page[len(page)-1]
	return &Cursor{PartNumber: last.PartNumber, ID: last.ID}
}

type Repository interface {
	ReplaceTerms(ctx context.Context, db *gorm.DB, shopID, partID snowflake.ID, terms []string) error
	FindByTermSubstring(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, fragment string, after *Cursor, limit int) ([]partdomain.Part, error)
	FindByAllTerms(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, terms []string, after *Cursor, limit int) ([]partdomain.Part, error)
	FindUnindexed(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, limit int) ([]partdomain.Part, error)
	ListForIndex(ctx context.Context, db *gorm.DB, tenantID, shopID, afterID snowflake.ID, limit int) ([]partdomain.Part, error)
}
