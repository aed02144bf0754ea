package service_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopcore/internal/shop/domain"
	"github.com/smallbiznis/shopcore/internal/shop/repository"
	"github.com/smallbiznis/shopcore/internal/shop/service"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"github.com/smallbiznis/shopcore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(f *testutil.Fixture) domain.Service {
	return service.New(service.Params{
		DB:    f.DB,
		Log:   zap.NewNop(),
		GenID: f.Node,
		Repo:  repository.Provide(),
	})
}

func TestResolveAcceptsActiveShop(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)

	scope, err := svc.Resolve(f.Context())
	require.NoError(t, err)
	assert.Equal(t, f.ShopID, scope.ShopID)
	assert.Equal(t, f.TenantID, scope.TenantID)
}

func TestCurrentReturnsShopRow(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)

	shop, err := svc.Current(f.Context())
	require.NoError(t, err)
	assert.Equal(t, "Main Street Diesel", shop.Name)

	_, err = svc.Current(context.Background())
	assert.ErrorIs(t, err, domain.ErrShopNotConfigured)
}

func TestResolveRejectsMisconfiguredScope(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)
	otherTenant := f.Node.Generate()
	foreignShop := f.SeedShop(t, otherTenant, "Elsewhere")

	cases := map[string]context.Context{
		"no scope":     context.Background(),
		"no shop":      shopcontext.WithScope(context.Background(), shopcontext.Scope{TenantID: f.TenantID}),
		"unknown shop": shopcontext.WithScope(context.Background(), shopcontext.Scope{TenantID: f.TenantID, ShopID: f.Node.Generate()}),
		"foreign shop": shopcontext.WithScope(context.Background(), shopcontext.Scope{TenantID: f.TenantID, ShopID: foreignShop}),
		"not allowed":  shopcontext.WithScope(context.Background(), shopcontext.Scope{TenantID: f.TenantID, ShopID: f.ShopID, AllowedShopIDs: []snowflake.ID{foreignShop}}),
	}
	for name, ctx := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Resolve(ctx)
			assert.ErrorIs(t, err, domain.ErrShopNotConfigured)
		})
	}
}

func TestListMechanicsFiltersRoster(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)

	senior := f.Node.Generate()
	junior := f.Node.Generate()
	f.SeedMember(t, f.ShopID, senior, "Sam Senior", domain.RoleSeniorMechanic)
	f.SeedMember(t, f.ShopID, junior, "Jo Junior", domain.RoleMechanic)
	f.SeedMember(t, f.ShopID, f.Node.Generate(), "Ada Admin", domain.RoleAdmin)

	otherShop := f.SeedShop(t, f.TenantID, "Second Bay")
	f.SeedMember(t, otherShop, f.Node.Generate(), "Other Mechanic", domain.RoleMechanic)

	mechanics, err := svc.ListMechanics(f.Context())
	require.NoError(t, err)
	require.Len(t, mechanics, 2)
	assert.Equal(t, "Jo Junior", mechanics[0].Name)
	assert.Equal(t, junior, mechanics[0].ID)
	assert.Equal(t, domain.RoleSeniorMechanic, mechanics[1].Role)
}

func TestCreateShopSlugifiesName(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)

	shop, err := svc.Create(f.Context(), domain.CreateShopRequest{Name: "  Big Rig Repair & Tow "})
	require.NoError(t, err)
	assert.Equal(t, "big-rig-repair-and-tow", shop.Slug)
	assert.Equal(t, f.TenantID, shop.TenantID)

	_, err = svc.Create(f.Context(), domain.CreateShopRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestMemberRole(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)

	role, err := svc.MemberRole(f.Context())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, role)

	stranger := shopcontext.WithScope(context.Background(), shopcontext.Scope{
		TenantID: f.TenantID, ShopID: f.ShopID, UserID: f.Node.Generate(),
	})
	_, err = svc.MemberRole(stranger)
	assert.ErrorIs(t, err, domain.ErrNotMember)
}
