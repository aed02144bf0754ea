package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/config"
	"github.com/smallbiznis/shopcore/internal/part/domain"
	"github.com/smallbiznis/shopcore/internal/part/repository"
	"github.com/smallbiznis/shopcore/internal/part/service"
	searchdomain "github.com/smallbiznis/shopcore/internal/partsearch/domain"
	searchrepo "github.com/smallbiznis/shopcore/internal/partsearch/repository"
	searchservice "github.com/smallbiznis/shopcore/internal/partsearch/service"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	pricingrepo "github.com/smallbiznis/shopcore/internal/pricingrule/repository"
	pricingservice "github.com/smallbiznis/shopcore/internal/pricingrule/service"
	shoprepo "github.com/smallbiznis/shopcore/internal/shop/repository"
	shopservice "github.com/smallbiznis/shopcore/internal/shop/service"
	"github.com/smallbiznis/shopcore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	f       *testutil.Fixture
	svc     domain.Service
	search  searchdomain.Service
	pricing pricingdomain.Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f := testutil.NewFixture(t)
	defaults := config.NewStaticShopDefaults(config.DefaultShopDefaults())
	shops := shopservice.New(shopservice.Params{DB: f.DB, Log: zap.NewNop(), GenID: f.Node, Repo: shoprepo.Provide()})
	pricing := pricingservice.New(pricingservice.Params{
		DB:       f.DB,
		Log:      zap.NewNop(),
		GenID:    f.Node,
		Repo:     pricingrepo.Provide(),
		Shops:    shops,
		Defaults: defaults,
	})
	search := searchservice.New(searchservice.Params{
		DB:       f.DB,
		Log:      zap.NewNop(),
		Repo:     searchrepo.Provide(),
		Shops:    shops,
		Defaults: defaults,
	})
	svc := service.New(service.Params{
		DB:      f.DB,
		Log:     zap.NewNop(),
		GenID:   f.Node,
		Repo:    repository.Provide(),
		Shops:   shops,
		Search:  search,
		Pricing: pricing,
	})
	return &harness{f: f, svc: svc, search: search, pricing: pricing}
}

func TestCreateIndexesPartForSearch(t *testing.T) {
	h := newHarness(t)
	ctx := h.f.Context()

	part, err := h.svc.Create(ctx, domain.CreatePartRequest{
		PartNumber:  "  FF-5488 ",
		Description: "Fuel filter",
		InStock:     3,
		AverageCost: decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	assert.Equal(t, "FF-5488", part.PartNumber)
	assert.False(t, part.CoreHasCharge)
	assert.Equal(t, []domain.MiscCharge{}, part.MiscCharges)

	res, err := h.search.Search(ctx, searchdomain.SearchRequest{Query: "5488"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, part.ID, res.Items[0].ID)
	assert.Equal(t, searchdomain.StrategyTrigram, res.Strategy)
}

func TestCreateRejectsDuplicatePartNumber(t *testing.T) {
	h := newHarness(t)
	ctx := h.f.Context()

	_, err := h.svc.Create(ctx, domain.CreatePartRequest{PartNumber: "DUP-1"})
	require.NoError(t, err)

	_, err = h.svc.Create(ctx, domain.CreatePartRequest{PartNumber: "DUP-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicatePartNumber)
}

func TestCreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := h.f.Context()
	negative := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		req  domain.CreatePartRequest
		want error
	}{
		{"blank part number", domain.CreatePartRequest{PartNumber: "  "}, domain.ErrInvalidPartNumber},
		{"negative stock", domain.CreatePartRequest{PartNumber: "A", InStock: -2}, domain.ErrInvalidStock},
		{"negative cost", domain.CreatePartRequest{PartNumber: "A", AverageCost: negative}, domain.ErrInvalidCost},
		{"negative core", domain.CreatePartRequest{PartNumber: "A", CoreCost: &negative}, domain.ErrInvalidCoreCost},
		{"misc without description", domain.CreatePartRequest{
			PartNumber:  "A",
			MiscCharges: []domain.MiscCharge{{Price: decimal.NewFromInt(5)}},
		}, domain.ErrInvalidMiscCharge},
		{"bad vendor id", domain.CreatePartRequest{PartNumber: "A", VendorID: "abc"}, domain.ErrInvalidReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateKeepsCoreAndMiscCharges(t *testing.T) {
	h := newHarness(t)
	core := decimal.RequireFromString("45.50")

	part, err := h.svc.Create(h.f.Context(), domain.CreatePartRequest{
		PartNumber: "ALT-200",
		CoreCost:   &core,
		MiscCharges: []domain.MiscCharge{
			{Description: " Disposal ", Price: decimal.NewFromInt(3)},
			{Description: "", Price: decimal.Zero},
		},
	})
	require.NoError(t, err)
	assert.True(t, part.CoreHasCharge)
	require.NotNil(t, part.CoreCost)
	assert.True(t, core.Equal(*part.CoreCost))
	assert.True(t, part.MiscHasCharge)
	require.Len(t, part.MiscCharges, 1)
	assert.Equal(t, "Disposal", part.MiscCharges[0].Description)
}

func TestUpdatePatchesAndReindexes(t *testing.T) {
	h := newHarness(t)
	ctx := h.f.Context()
	core := decimal.NewFromInt(20)

	created, err := h.svc.Create(ctx, domain.CreatePartRequest{PartNumber: "OLD-NUM", Description: "Brake drum", CoreCost: &core})
	require.NoError(t, err)

	number := "NEW-NUM"
	noCore := false
	updated, err := h.svc.Update(ctx, created.ID.String(), domain.UpdatePartRequest{
		PartNumber:    &number,
		CoreHasCharge: &noCore,
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW-NUM", updated.PartNumber)
	assert.Equal(t, "Brake drum", updated.Description)
	assert.False(t, updated.CoreHasCharge)
	assert.Nil(t, updated.CoreCost)

	res, err := h.search.Search(ctx, searchdomain.SearchRequest{Query: "old-num"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	res, err = h.search.Search(ctx, searchdomain.SearchRequest{Query: "new-num"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, created.ID, res.Items[0].ID)
}

func TestGetIncludesSalePrice(t *testing.T) {
	h := newHarness(t)
	ctx := h.f.Context()

	_, err := h.pricing.Save(ctx, pricingdomain.SaveRequest{
		Mode:  pricingdomain.ModeMarkup,
		Rules: []pricingdomain.RuleInput{{From: 0, ValuePercent: 100}},
	})
	require.NoError(t, err)

	created, err := h.svc.Create(ctx, domain.CreatePartRequest{PartNumber: "SP-1", AverageCost: decimal.NewFromInt(10)})
	require.NoError(t, err)

	got, err := h.svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got.SalePrice)
	assert.True(t, decimal.NewFromInt(20).Equal(*got.SalePrice))
}

func TestDeactivateFreezesPart(t *testing.T) {
	h := newHarness(t)
	ctx := h.f.Context()

	created, err := h.svc.Create(ctx, domain.CreatePartRequest{PartNumber: "FRZ-1", InStock: 4, AverageCost: decimal.NewFromInt(7)})
	require.NoError(t, err)

	require.NoError(t, h.svc.Deactivate(ctx, created.ID.String()))
	require.NoError(t, h.svc.Deactivate(ctx, created.ID.String()))

	got, err := h.svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, int64(4), got.InStock)

	desc := "changed"
	_, err = h.svc.Update(ctx, created.ID.String(), domain.UpdatePartRequest{Description: &desc})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	res, err := h.search.Search(ctx, searchdomain.SearchRequest{Query: "frz-1"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestGetUnknownPart(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Get(h.f.Context(), h.f.Node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.svc.Get(h.f.Context(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
