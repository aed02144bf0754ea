package service_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/inventory/domain"
	"github.com/smallbiznis/shopcore/internal/inventory/repository"
	"github.com/smallbiznis/shopcore/internal/inventory/service"
	shoprepo "github.com/smallbiznis/shopcore/internal/shop/repository"
	shopservice "github.com/smallbiznis/shopcore/internal/shop/service"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"github.com/smallbiznis/shopcore/internal/testutil"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type harness struct {
	f     *testutil.Fixture
	svc   domain.Service
	scope shopcontext.Scope
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f := testutil.NewFixture(t)
	shops := shopservice.New(shopservice.Params{DB: f.DB, Log: zap.NewNop(), GenID: f.Node, Repo: shoprepo.Provide()})
	svc := service.New(service.Params{
		DB:    f.DB,
		Log:   zap.NewNop(),
		GenID: f.Node,
		Repo:  repository.Provide(),
		Shops: shops,
	})
	return &harness{
		f:     f,
		svc:   svc,
		scope: shopcontext.Scope{TenantID: f.TenantID, ShopID: f.ShopID, UserID: f.UserID},
	}
}

func (h *harness) receive(t *testing.T, partID snowflake.ID, qty int64, price string) bool {
	t.Helper()
	var updated bool
	err := h.f.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		updated, err = h.svc.ReceiveLine(context.Background(), tx, h.scope, domain.ReceiveLineRequest{
			PartID:    partID,
			Qty:       qty,
			UnitPrice: decimal.RequireFromString(price),
		})
		return err
	})
	require.NoError(t, err)
	return updated
}

type stockRow struct {
	InStock     int64
	AverageCost decimal.Decimal
}

func (h *harness) stock(t *testing.T, partID snowflake.ID) stockRow {
	t.Helper()
	var row stockRow
	require.NoError(t, h.f.DB.Raw(`SELECT in_stock, average_cost FROM parts WHERE id = ?`, partID).Scan(&row).Error)
	return row
}

func TestReceiveLinesAreOrderIndependent(t *testing.T) {
	h := newHarness(t)
	a := h.f.SeedPart(t, testutil.PartSeed{PartNumber: "A"})
	b := h.f.SeedPart(t, testutil.PartSeed{PartNumber: "B"})

	assert.True(t, h.receive(t, a, 5, "10"))
	assert.True(t, h.receive(t, a, 5, "20"))

	assert.True(t, h.receive(t, b, 5, "20"))
	assert.True(t, h.receive(t, b, 5, "10"))

	for _, id := range []snowflake.ID{a, b} {
		row := h.stock(t, id)
		assert.Equal(t, int64(10), row.InStock)
		assert.True(t, decimal.NewFromInt(15).Equal(row.AverageCost), "avg %s", row.AverageCost)
	}
}

func TestReceiveLineSkipsInactiveAndMissingParts(t *testing.T) {
	h := newHarness(t)
	inactive := h.f.SeedPart(t, testutil.PartSeed{PartNumber: "OLD", InStock: 2, AverageCost: decimal.NewFromInt(3), Inactive: true})

	assert.False(t, h.receive(t, inactive, 4, "9"))
	assert.False(t, h.receive(t, h.f.Node.Generate(), 4, "9"))

	row := h.stock(t, inactive)
	assert.Equal(t, int64(2), row.InStock)
	assert.True(t, decimal.NewFromInt(3).Equal(row.AverageCost))
}

func TestReceiveLineValidation(t *testing.T) {
	h := newHarness(t)
	part := h.f.SeedPart(t, testutil.PartSeed{PartNumber: "V"})

	cases := []domain.ReceiveLineRequest{
		{PartID: part, Qty: 0, UnitPrice: decimal.NewFromInt(1)},
		{PartID: part, Qty: 1, UnitPrice: decimal.NewFromInt(-1)},
		{PartID: 0, Qty: 1, UnitPrice: decimal.NewFromInt(1)},
	}
	for _, req := range cases {
		_, err := h.svc.ReceiveLine(context.Background(), h.f.DB, h.scope, req)
		assert.ErrorIs(t, err, domain.ErrOrderLineInvalid)
	}
	assert.Equal(t, int64(0), h.stock(t, part).InStock)
}

func TestReceiveLineIsShopScoped(t *testing.T) {
	h := newHarness(t)
	part := h.f.SeedPart(t, testutil.PartSeed{PartNumber: "S"})

	other := h.scope
	other.ShopID = h.f.Node.Generate()
	updated, err := h.svc.ReceiveLine(context.Background(), h.f.DB, other, domain.ReceiveLineRequest{
		PartID:    part,
		Qty:       3,
		UnitPrice: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, int64(0), h.stock(t, part).InStock)
}

func TestListMovementsRecordsReceipts(t *testing.T) {
	h := newHarness(t)
	part := h.f.SeedPart(t, testutil.PartSeed{PartNumber: "M"})
	h.receive(t, part, 2, "4")
	h.receive(t, part, 2, "8")

	res, err := h.svc.ListMovements(h.f.Context(), part.String(), pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, res.Movements, 2)
	assert.Equal(t, int64(2), res.PageInfo.Total)

	stocks := []int64{res.Movements[0].StockAfter, res.Movements[1].StockAfter}
	assert.ElementsMatch(t, []int64{2, 4}, stocks)
	for _, m := range res.Movements {
		assert.Equal(t, domain.SourcePurchaseOrder, m.SourceType)
		if m.StockAfter == 4 {
			assert.True(t, decimal.NewFromInt(6).Equal(m.AverageCostAfter))
		}
	}

	_, err = h.svc.ListMovements(h.f.Context(), "x", pagination.Pagination{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
