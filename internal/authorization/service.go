package authorization

import (
	"context"
	"errors"
)

// Permission keys checked by the HTTP layer. Each key is "<object>.<action>".
const (
	PermPartsView   = "parts.view"
	PermPartsCreate = "parts.create"
	PermPartsEdit   = "parts.edit"
	PermPartsDelete = "parts.delete"

	PermWorkOrdersView         = "work_orders.view"
	PermWorkOrdersCreate       = "work_orders.create"
	PermWorkOrdersEdit         = "work_orders.edit"
	PermWorkOrdersChangeStatus = "work_orders.change_status"
	PermWorkOrdersDelete       = "work_orders.delete"

	PermPurchaseOrdersView    = "purchase_orders.view"
	PermPurchaseOrdersCreate  = "purchase_orders.create"
	PermPurchaseOrdersReceive = "purchase_orders.receive"

	PermPaymentsView   = "payments.view"
	PermPaymentsCreate = "payments.create"

	PermSettingsManageOrg = "settings.manage_org"
)

// AllPermissions lists every key known to the core.
var AllPermissions = []string{
	PermPartsView, PermPartsCreate, PermPartsEdit, PermPartsDelete,
	PermWorkOrdersView, PermWorkOrdersCreate, PermWorkOrdersEdit, PermWorkOrdersChangeStatus, PermWorkOrdersDelete,
	PermPurchaseOrdersView, PermPurchaseOrdersCreate, PermPurchaseOrdersReceive,
	PermPaymentsView, PermPaymentsCreate,
	PermSettingsManageOrg,
}

type Service interface {
	HasPermission(ctx context.Context, key string) (bool, error)
	Authorize(ctx context.Context, key string) error
}

var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidActor      = errors.New("invalid_actor")
	ErrInvalidPermission = errors.New("invalid_permission")
)
