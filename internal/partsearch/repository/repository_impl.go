package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	"github.com/smallbiznis/shopcore/internal/partsearch/domain"
	"gorm.io/gorm"
)

const insertBatchSize = 200

// keyset continues a (part_number, id) ordered scan after the cursor.
func keyset(after *domain.Cursor) (string, []any) {
	if after == nil {
		return "", nil
	}
	return ` AND (p.part_number > ? OR (p.part_number = ? AND p.id > ?))`,
		[]any{after.PartNumber, after.PartNumber, after.ID}
}

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

type termRow struct {
	ShopID snowflake.ID `gorm:"column:shop_id"`
	PartID snowflake.ID `gorm:"column:part_id"`
	Term   string       `gorm:"column:term"`
}

func (termRow) TableName() string { return "part_search_terms" }

func (r *repo) ReplaceTerms(ctx context.Context, db *gorm.DB, shopID, partID snowflake.ID, terms []string) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM part_search_terms WHERE shop_id = ? AND part_id = ?`,
		shopID,
		partID,
	).Error; err != nil {
		return err
	}
	if len(terms) == 0 {
		return nil
	}

	rows := make([]termRow, 0, len(terms))
	for _, term := range terms {
		rows = append(rows, termRow{ShopID: shopID, PartID: partID, Term: term})
	}
	return db.WithContext(ctx).CreateInBatches(&rows, insertBatchSize).Error
}

func (r *repo) FindByTermSubstring(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, fragment string, after *domain.Cursor, limit int) ([]partdomain.Part, error) {
	clause, cursorArgs := keyset(after)
	args := append([]any{tenantID, shopID, true, "%" + fragment + "%"}, cursorArgs...)
	args = append(args, limit)

	var parts []partdomain.Part
	err := db.WithContext(ctx).Raw(
		`SELECT `+partdomain.Columns+`
		 FROM parts p
		 WHERE p.tenant_id = ? AND p.shop_id = ? AND p.is_active = ?
		   AND EXISTS (
		     SELECT 1 FROM part_search_terms t
		     WHERE t.shop_id = p.shop_id AND t.part_id = p.id AND t.term LIKE ?
		   )
		   `+clause+`
		 ORDER BY p.part_number ASC, p.id ASC
		 LIMIT ?`,
		args...,
	).Scan(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repo) FindByAllTerms(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, terms []string, after *domain.Cursor, limit int) ([]partdomain.Part, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	clause, cursorArgs := keyset(after)
	args := append([]any{tenantID, shopID, true, shopID, terms, len(terms)}, cursorArgs...)
	args = append(args, limit)

	var parts []partdomain.Part
	err := db.WithContext(ctx).Raw(
		`SELECT `+partdomain.Columns+`
		 FROM parts p
		 WHERE p.tenant_id = ? AND p.shop_id = ? AND p.is_active = ?
		   AND p.id IN (
		     SELECT t.part_id FROM part_search_terms t
		     WHERE t.shop_id = ? AND t.term IN ?
		     GROUP BY t.part_id
		     HAVING COUNT(DISTINCT t.term) = ?
		   )
		   `+clause+`
		 ORDER BY p.part_number ASC, p.id ASC
		 LIMIT ?`,
		args...,
	).Scan(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repo) FindUnindexed(ctx context.Context, db *gorm.DB, tenantID, shopID snowflake.ID, limit int) ([]partdomain.Part, error) {
	var parts []partdomain.Part
	err := db.WithContext(ctx).Raw(
		`SELECT `+partdomain.Columns+`
		 FROM parts p
		 WHERE p.tenant_id = ? AND p.shop_id = ? AND p.is_active = ?
		   AND NOT EXISTS (
		     SELECT 1 FROM part_search_terms t
		     WHERE t.shop_id = p.shop_id AND t.part_id = p.id
		   )
		 ORDER BY p.part_number ASC, p.id ASC
		 LIMIT ?`,
		tenantID,
		shopID,
		true,
		limit,
	).Scan(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repo) ListForIndex(ctx context.Context, db *gorm.DB, tenantID, shopID, afterID snowflake.ID, limit int) ([]partdomain.Part, error) {
	var parts []partdomain.Part
	err := db.WithContext(ctx).Raw(
		`SELECT `+partdomain.Columns+`
		 FROM parts
		 WHERE tenant_id = ? AND shop_id = ? AND id > ?
		 ORDER BY id ASC
		 LIMIT ?`,
		tenantID,
		shopID,
		afterID,
		limit,
	).Scan(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}
