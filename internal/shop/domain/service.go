package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/shopcore/internal/shopcontext"
)

type CreateShopRequest struct {
	Name string `json:"name"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Service resolves the active shop and its roster. Every shop-scoped
// operation calls Resolve before touching data.
type Service interface {
	Create(ctx context.Context, req CreateShopRequest) (Shop, error)
	AddMember(ctx context.Context, req AddMemberRequest) (Member, error)
	Resolve(ctx context.Context) (shopcontext.Scope, error)
	Current(ctx context.Context) (Shop, error)
	ListMechanics(ctx context.Context) ([]Mechanic, error)
	MemberRole(ctx context.Context) (string, error)
}

var (
	ErrShopNotConfigured = errors.New("shop_not_configured")
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidUser       = errors.New("invalid_user")
	ErrInvalidRole       = errors.New("invalid_role")
	ErrNotMember         = errors.New("not_member")
	ErrNotFound          = errors.New("not_found")
)
