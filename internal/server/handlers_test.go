package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	searchdomain "github.com/smallbiznis/shopcore/internal/partsearch/domain"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	purchaseorderdomain "github.com/smallbiznis/shopcore/internal/purchaseorder/domain"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	workorderdomain "github.com/smallbiznis/shopcore/internal/workorder/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes embed the interface so only the methods a test drives need bodies.

type fakeSearch struct {
	searchdomain.Service
	search func(ctx context.Context, req searchdomain.SearchRequest) (searchdomain.SearchResult, error)
}

func (f *fakeSearch) Search(ctx context.Context, req searchdomain.SearchRequest) (searchdomain.SearchResult, error) {
	return f.search(ctx, req)
}

type fakeParts struct {
	partdomain.Service
	deactivated []string
}

func (f *fakeParts) Deactivate(_ context.Context, id string) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeOrders struct {
	purchaseorderdomain.Service
	create  func(ctx context.Context, req purchaseorderdomain.CreateRequest) (purchaseorderdomain.CreateResponse, error)
	receive func(ctx context.Context, id string) (purchaseorderdomain.ReceiveResponse, error)
	calls   int
}

func (f *fakeOrders) Create(ctx context.Context, req purchaseorderdomain.CreateRequest) (purchaseorderdomain.CreateResponse, error) {
	f.calls++
	return f.create(ctx, req)
}

func (f *fakeOrders) Receive(ctx context.Context, id string) (purchaseorderdomain.ReceiveResponse, error) {
	f.calls++
	return f.receive(ctx, id)
}

type fakeWorkOrders struct {
	workorderdomain.Service
	update func(ctx context.Context, id string, req workorderdomain.UpdateRequest) (workorderdomain.WorkOrder, error)
}

func (f *fakeWorkOrders) Update(ctx context.Context, id string, req workorderdomain.UpdateRequest) (workorderdomain.WorkOrder, error) {
	return f.update(ctx, id, req)
}

type fakePricing struct {
	pricingdomain.Service
	getErr error
	calls  int
}

func (f *fakePricing) Get(context.Context) (pricingdomain.RuleSet, error) {
	f.calls++
	return pricingdomain.RuleSet{}, f.getErr
}

func (f *fakePricing) Quote(_ context.Context, costs []decimal.Decimal) ([]pricingdomain.Quote, error) {
	f.calls++
	out := make([]pricingdomain.Quote, 0, len(costs))
	for _, c := range costs {
		out = append(out, pricingdomain.Quote{Cost: c, Price: c.Mul(decimal.NewFromInt(2))})
	}
	return out, nil
}

func newHandlerServer(p ServerParams) *Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	p.Gin = r
	return NewServer(p)
}

func TestSearchPartsBindsQuery(t *testing.T) {
	var got searchdomain.SearchRequest
	search := &fakeSearch{search: func(_ context.Context, req searchdomain.SearchRequest) (searchdomain.SearchResult, error) {
		got = req
		return searchdomain.SearchResult{
			Query:    req.Query,
			Strategy: searchdomain.StrategyTrigram,
			Items:    []partdomain.Summary{{ID: 11, PartNumber: "AB-1234"}},
		}, nil
	}}
	srv := newHandlerServer(ServerParams{SearchSvc: search})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/parts/search?q=1234&limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1234", got.Query)
	assert.Equal(t, 5, got.Limit)

	var body struct {
		Data searchdomain.SearchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "AB-1234", body.Data.Items[0].PartNumber)
}

func TestSearchPartsShopNotConfigured(t *testing.T) {
	search := &fakeSearch{search: func(context.Context, searchdomain.SearchRequest) (searchdomain.SearchResult, error) {
		return searchdomain.SearchResult{}, shopdomain.ErrShopNotConfigured
	}}
	srv := newHandlerServer(ServerParams{SearchSvc: search})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/parts/search?q=brake", "", nil)
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, "configuration_error", decodeError(t, rec).Type)
}

func TestDeactivatePartNoContent(t *testing.T) {
	parts := &fakeParts{}
	srv := newHandlerServer(ServerParams{PartSvc: parts})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/parts/77/deactivate", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"77"}, parts.deactivated)
}

func TestCreatePurchaseOrder(t *testing.T) {
	orders := &fakeOrders{create: func(_ context.Context, req purchaseorderdomain.CreateRequest) (purchaseorderdomain.CreateResponse, error) {
		return purchaseorderdomain.CreateResponse{OrderID: "900", ItemsCount: len(req.Items)}, nil
	}}
	srv := newHandlerServer(ServerParams{OrderSvc: orders})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/purchase-orders",
		`{"vendor_id":"5","items":[{"part_id":"6","price":"12.50","qty":3}]}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Data purchaseorderdomain.CreateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "900", body.Data.OrderID)
	assert.Equal(t, 1, body.Data.ItemsCount)
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	orders := &fakeOrders{create: func(context.Context, purchaseorderdomain.CreateRequest) (purchaseorderdomain.CreateResponse, error) {
		return purchaseorderdomain.CreateResponse{}, purchaseorderdomain.ErrNoValidItems
	}}
	srv := newHandlerServer(ServerParams{OrderSvc: orders})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/purchase-orders", `{"items":[{"part_id":"6","qty":1}]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, orders.calls)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/purchase-orders", `{"vendor_id":"5","items":[{"part_id":"6","qty":0}]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "items", payload.Errors[0].Field)
	assert.Equal(t, "no_valid_items", payload.Errors[0].Code)
}

func TestReceivePurchaseOrderErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		wantType string
	}{
		{name: "negative price", err: fmt.Errorf("%w: line 2 has price -1.00", purchaseorderdomain.ErrNegativePrice), status: http.StatusConflict, wantType: "state_conflict"},
		{name: "no items", err: purchaseorderdomain.ErrOrderHasNoItems, status: http.StatusConflict, wantType: "state_conflict"},
		{name: "missing", err: purchaseorderdomain.ErrNotFound, status: http.StatusNotFound, wantType: "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &fakeOrders{receive: func(context.Context, string) (purchaseorderdomain.ReceiveResponse, error) {
				return purchaseorderdomain.ReceiveResponse{}, tc.err
			}}
			srv := newHandlerServer(ServerParams{OrderSvc: orders})

			rec := doJSON(t, srv, http.MethodPost, "/api/v1/purchase-orders/12/receive", "", nil)
			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.wantType, decodeError(t, rec).Type)
		})
	}
}

func TestReceivePurchaseOrderReportsUpdatedParts(t *testing.T) {
	orders := &fakeOrders{receive: func(_ context.Context, id string) (purchaseorderdomain.ReceiveResponse, error) {
		return purchaseorderdomain.ReceiveResponse{OrderID: id, Status: "received", UpdatedPartsCount: 0}, nil
	}}
	srv := newHandlerServer(ServerParams{OrderSvc: orders})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/purchase-orders/12/receive", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"order_id":"12","status":"received","updated_parts_count":0}}`, rec.Body.String())
}

func TestUpdatePaidWorkOrderConflict(t *testing.T) {
	var calls int
	orders := &fakeWorkOrders{update: func(context.Context, string, workorderdomain.UpdateRequest) (workorderdomain.WorkOrder, error) {
		calls++
		return workorderdomain.WorkOrder{}, workorderdomain.ErrWorkOrderPaid
	}}
	srv := newHandlerServer(ServerParams{WorkOrderSvc: orders})

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/work-orders/3", `{"labor_blocks":[{"description":"brakes","hours":"1.5"}]}`, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "state_conflict", decodeError(t, rec).Type)
	assert.Equal(t, 1, calls)
}

func TestUpdateWorkOrderRejectsBadHours(t *testing.T) {
	var calls int
	orders := &fakeWorkOrders{update: func(context.Context, string, workorderdomain.UpdateRequest) (workorderdomain.WorkOrder, error) {
		calls++
		return workorderdomain.WorkOrder{}, nil
	}}
	srv := newHandlerServer(ServerParams{WorkOrderSvc: orders})

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/work-orders/3", `{"labor_blocks":[{"hours":"-2"}]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Type)
	assert.Zero(t, calls)
}

func TestQuotePrices(t *testing.T) {
	pricing := &fakePricing{}
	srv := newHandlerServer(ServerParams{PricingSvc: pricing})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/pricing/quote", `{"costs":[]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, pricing.calls)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/pricing/quote", `{"costs":["10.00"]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Data []pricingdomain.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.True(t, decimal.RequireFromString("20").Equal(body.Data[0].Price))
}

func TestGetPricingRulesNotConfigured(t *testing.T) {
	pricing := &fakePricing{getErr: pricingdomain.ErrRulesNotConfigured}
	srv := newHandlerServer(ServerParams{PricingSvc: pricing})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/settings/pricing-rules", "", nil)
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, "configuration_error", decodeError(t, rec).Type)
}
