package service_test

import (
	"testing"

	shoprepo "github.com/smallbiznis/shopcore/internal/shop/repository"
	shopservice "github.com/smallbiznis/shopcore/internal/shop/service"
	"github.com/smallbiznis/shopcore/internal/testutil"
	"github.com/smallbiznis/shopcore/internal/vendors/domain"
	"github.com/smallbiznis/shopcore/internal/vendors/repository"
	"github.com/smallbiznis/shopcore/internal/vendors/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVendorCreateAndGet(t *testing.T) {
	f := testutil.NewFixture(t)
	shops := shopservice.New(shopservice.Params{DB: f.DB, Log: zap.NewNop(), GenID: f.Node, Repo: shoprepo.Provide()})
	svc := service.New(service.Params{
		DB:    f.DB,
		Log:   zap.NewNop(),
		GenID: f.Node,
		Repo:  repository.Provide(),
		Shops: shops,
	})
	ctx := f.Context()

	_, err := svc.Create(ctx, domain.CreateVendorRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	v, err := svc.Create(ctx, domain.CreateVendorRequest{Name: "FleetPride", Email: "Orders@FleetPride.com"})
	require.NoError(t, err)
	assert.Equal(t, "orders@fleetpride.com", v.Email)

	got, err := svc.Get(ctx, v.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "FleetPride", got.Name)

	inactive := f.SeedVendor(t, "Closed Supply", false)
	_, err = svc.Get(ctx, inactive.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
