package domain

import (
	"context"
	"errors"
)

type CreateVendorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Service interface {
	Create(ctx context.Context, req CreateVendorRequest) (Vendor, error)
	Get(ctx context.Context, id string) (Vendor, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
