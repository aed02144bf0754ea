package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodCheck    = "check"
	MethodTransfer = "transfer"
	MethodOther    = "other"
)

func IsValidMethod(method string) bool {
	switch method {
	case MethodCash, MethodCard, MethodCheck, MethodTransfer, MethodOther:
		return true
	default:
		return false
	}
}

// Payment is one amount applied against a work order's grand total.
type Payment struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	TenantID      snowflake.ID    `gorm:"not null;index" json:"tenant_id"`
	ShopID        snowflake.ID    `gorm:"not null;index" json:"shop_id"`
	WorkOrderID   snowflake.ID    `gorm:"not null;index" json:"work_order_id"`
	ReceiptNumber string          `gorm:"not null" json:"receipt_number"`
	Amount        decimal.Decimal `gorm:"not null" json:"amount"`
	PaymentMethod string          `gorm:"not null" json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	CreatedBy     *snowflake.ID   `json:"created_by,omitempty"`
}

func (Payment) TableName() string { return "work_order_payments" }

const Columns = `id, tenant_id, shop_id, work_order_id, receipt_number, amount, payment_method, notes,
	is_active, created_at, created_by`
