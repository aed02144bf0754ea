package domain

import (
	"context"
	"errors"
)

// DefaultLaborRateCode is assigned to new customers.
const DefaultLaborRateCode = "standard"

type CreateCustomerRequest struct {
	CompanyName string `json:"company_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type CreateUnitRequest struct {
	CustomerID string `json:"customer_id"`
	VIN        string `json:"vin"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	UnitType   string `json:"unit_type"`
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	Get(ctx context.Context, id string) (Customer, error)
	CreateUnit(ctx context.Context, req CreateUnitRequest) (Unit, error)
	GetUnit(ctx context.Context, id string) (Unit, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
	ErrUnitNotFound = errors.New("unit_not_found")
)
