package service_test

import (
	"testing"

	"github.com/smallbiznis/shopcore/internal/customer/domain"
	"github.com/smallbiznis/shopcore/internal/customer/repository"
	"github.com/smallbiznis/shopcore/internal/customer/service"
	shoprepo "github.com/smallbiznis/shopcore/internal/shop/repository"
	shopservice "github.com/smallbiznis/shopcore/internal/shop/service"
	"github.com/smallbiznis/shopcore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(f *testutil.Fixture) domain.Service {
	shops := shopservice.New(shopservice.Params{
		DB: f.DB, Log: zap.NewNop(), GenID: f.Node, Repo: shoprepo.Provide(),
	})
	return service.New(service.Params{
		DB:    f.DB,
		Log:   zap.NewNop(),
		GenID: f.Node,
		Repo:  repository.Provide(),
		Shops: shops,
	})
}

func TestCreateCustomerRequiresCompanyOrFullName(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)
	ctx := f.Context()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{FirstName: "Ana"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	c, err := svc.Create(ctx, domain.CreateCustomerRequest{FirstName: "Ana", LastName: "Ruiz", Email: " Ana@Example.COM "})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "Ana Ruiz", c.DisplayName())
	assert.Equal(t, domain.DefaultLaborRateCode, c.DefaultLaborRate)

	got, err := svc.Get(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestGetSkipsInactiveCustomers(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)

	id := f.SeedCustomer(t, "Gone Freight", false)
	_, err := svc.Get(f.Context(), id.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(f.Context(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestUnitLifecycle(t *testing.T) {
	f := testutil.NewFixture(t)
	svc := newService(f)
	ctx := f.Context()

	customerID := f.SeedCustomer(t, "Haulers Inc", true)
	unit, err := svc.CreateUnit(ctx, domain.CreateUnitRequest{
		CustomerID: customerID.String(),
		VIN:        " 1xkwd49x1jj123456 ",
		Make:       "Kenworth",
		Year:       2018,
	})
	require.NoError(t, err)
	assert.Equal(t, "1XKWD49X1JJ123456", unit.VIN)

	got, err := svc.GetUnit(ctx, unit.ID.String())
	require.NoError(t, err)
	assert.Equal(t, customerID, got.CustomerID)

	_, err = svc.GetUnit(ctx, f.Node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)
}
