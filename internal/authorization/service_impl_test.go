package authorization_test

import (
	"context"
	"testing"

	"github.com/smallbiznis/shopcore/internal/authorization"
	shoprepo "github.com/smallbiznis/shopcore/internal/shop/repository"
	shopservice "github.com/smallbiznis/shopcore/internal/shop/service"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"github.com/smallbiznis/shopcore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthz(t *testing.T, f *testutil.Fixture) authorization.Service {
	t.Helper()
	enforcer, err := authorization.NewEnforcer(f.DB)
	require.NoError(t, err)

	shops := shopservice.New(shopservice.Params{
		DB:    f.DB,
		Log:   zap.NewNop(),
		GenID: f.Node,
		Repo:  shoprepo.Provide(),
	})
	return authorization.NewService(authorization.Params{
		Log:      zap.NewNop(),
		Enforcer: enforcer,
		Shops:    shops,
	})
}

func TestOwnerHasEveryPermission(t *testing.T) {
	f := testutil.NewFixture(t)
	authz := newAuthz(t, f)

	for _, key := range authorization.AllPermissions {
		ok, err := authz.HasPermission(f.Context(), key)
		require.NoError(t, err, key)
		assert.True(t, ok, key)
	}
}

func TestMechanicPermissions(t *testing.T) {
	f := testutil.NewFixture(t)
	authz := newAuthz(t, f)

	mechanic := f.Node.Generate()
	f.SeedMember(t, f.ShopID, mechanic, "Mo Mechanic", "mechanic")
	ctx := shopcontext.WithScope(context.Background(), shopcontext.Scope{
		TenantID: f.TenantID,
		ShopID:   f.ShopID,
		UserID:   mechanic,
	})

	ok, err := authz.HasPermission(ctx, authorization.PermWorkOrdersEdit)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = authz.HasPermission(ctx, authorization.PermPurchaseOrdersReceive)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, authz.Authorize(ctx, authorization.PermPaymentsCreate), authorization.ErrForbidden)
}

func TestNonMemberIsDenied(t *testing.T) {
	f := testutil.NewFixture(t)
	authz := newAuthz(t, f)

	ctx := shopcontext.WithScope(context.Background(), shopcontext.Scope{
		TenantID: f.TenantID,
		ShopID:   f.ShopID,
		UserID:   f.Node.Generate(),
	})
	ok, err := authz.HasPermission(ctx, authorization.PermPartsView)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMalformedPermissionKey(t *testing.T) {
	f := testutil.NewFixture(t)
	authz := newAuthz(t, f)

	_, err := authz.HasPermission(f.Context(), "parts")
	assert.ErrorIs(t, err, authorization.ErrInvalidPermission)
}
