package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
)

type RecordRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"money"`
	PaymentMethod string          `json:"payment_method" validate:"max=32"`
	Notes         string          `json:"notes" validate:"max=500"`
}

type RecordResponse struct {
	PaymentID        string          `json:"payment_id"`
	ReceiptNumber    string          `json:"receipt_number"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	IsFullyPaid      bool            `json:"is_fully_paid"`
}

type Balance struct {
	WorkOrderID      string          `json:"work_order_id"`
	Status           string          `json:"status"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	IsFullyPaid      bool            `json:"is_fully_paid"`
	Payments         []Payment       `json:"payments"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ListRequest struct {
	pagination.Pagination
	Method string `form:"method"`
}

type ListResponse struct {
	Payments []Payment           `json:"payments"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Record(ctx context.Context, workOrderID string, req RecordRequest) (RecordResponse, error)
	SetStatus(ctx context.Context, workOrderID string, status string) (Balance, error)
	GetBalance(ctx context.Context, workOrderID string) (Balance, error)
	ListAll(ctx context.Context, req ListRequest) (ListResponse, error)
	ReceiptPDF(ctx context.Context, paymentID string) ([]byte, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidMethod     = errors.New("invalid_payment_method")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrOverpayment       = errors.New("overpayment")
	ErrWorkOrderNotFound = errors.New("work_order_not_found")
	ErrNotFound          = errors.New("not_found")
)
