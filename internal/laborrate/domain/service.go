package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type UpsertRequest struct {
	Code       string          `json:"code" validate:"max=64"`
	Name       string          `json:"name" validate:"required,max=100"`
	HourlyRate decimal.Decimal `json:"hourly_rate" validate:"money"`
}

type Service interface {
	Upsert(ctx context.Context, req UpsertRequest) (LaborRate, error)
	List(ctx context.Context) ([]LaborRate, error)
	Delete(ctx context.Context, code string) error
	// RatesByCode returns the active hourly rate for every code.
	RatesByCode(ctx context.Context) (map[string]decimal.Decimal, error)
}

var (
	ErrInvalidCode = errors.New("invalid_code")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidRate = errors.New("invalid_hourly_rate")
	ErrNotFound    = errors.New("not_found")
)
