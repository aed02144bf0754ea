package shopcontext

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Scope identifies who is acting and on which shop. The HTTP layer resolves
// it once per request; core services receive it through the context only.
type Scope struct {
	TenantID       snowflake.ID
	ShopID         snowflake.ID
	UserID         snowflake.ID
	AllowedShopIDs []snowflake.ID
}

// ScopeContextKey is the request context key for the active scope.
type ScopeContextKey struct{}

// WithScope stores the scope in the context.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, ScopeContextKey{}, scope)
}

// FromContext returns the scope from context, if set.
func FromContext(ctx context.Context) (Scope, bool) {
	if ctx == nil {
		return Scope{}, false
	}
	scope, ok := ctx.Value(ScopeContextKey{}).(Scope)
	return scope, ok
}

// ShopIDFromContext returns the active shop ID, if set.
func ShopIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	scope, ok := FromContext(ctx)
	if !ok || scope.ShopID == 0 {
		return 0, false
	}
	return scope.ShopID, true
}

// TenantIDFromContext returns the tenant ID, if set.
func TenantIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	scope, ok := FromContext(ctx)
	if !ok || scope.TenantID == 0 {
		return 0, false
	}
	return scope.TenantID, true
}

// UserIDFromContext returns the acting user ID, if set.
func UserIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	scope, ok := FromContext(ctx)
	if !ok || scope.UserID == 0 {
		return 0, false
	}
	return scope.UserID, true
}

// Allows reports whether the scope may act on shopID. An empty allow list
// means the upstream layer did not restrict the user to a subset of shops.
func (s Scope) Allows(shopID snowflake.ID) bool {
	if len(s.AllowedShopIDs) == 0 {
		return true
	}
	for _, id := range s.AllowedShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}

// ParseIDList parses a comma separated list of snowflake IDs, skipping blanks.
func ParseIDList(raw string) ([]snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]snowflake.ID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := snowflake.ParseString(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
