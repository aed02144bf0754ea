package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/internal/authorization"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	paymentdomain "github.com/smallbiznis/shopcore/internal/workorderpayment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayments struct {
	record   func(ctx context.Context, workOrderID string, req paymentdomain.RecordRequest) (paymentdomain.RecordResponse, error)
	setState func(ctx context.Context, workOrderID string, status string) (paymentdomain.Balance, error)
	calls    int
}

func (f *fakePayments) Record(ctx context.Context, workOrderID string, req paymentdomain.RecordRequest) (paymentdomain.RecordResponse, error) {
	f.calls++
	return f.record(ctx, workOrderID, req)
}

func (f *fakePayments) SetStatus(ctx context.Context, workOrderID string, status string) (paymentdomain.Balance, error) {
	f.calls++
	return f.setState(ctx, workOrderID, status)
}

func (f *fakePayments) GetBalance(context.Context, string) (paymentdomain.Balance, error) {
	f.calls++
	return paymentdomain.Balance{}, nil
}

func (f *fakePayments) ListAll(context.Context, paymentdomain.ListRequest) (paymentdomain.ListResponse, error) {
	f.calls++
	return paymentdomain.ListResponse{}, nil
}

func (f *fakePayments) ReceiptPDF(context.Context, string) ([]byte, error) {
	f.calls++
	return []byte("%PDF-1.7"), nil
}

type denyAll struct{}

func (denyAll) HasPermission(context.Context, string) (bool, error) { return false, nil }

func (denyAll) Authorize(context.Context, string) error { return authorization.ErrForbidden }

func newTestServer(payments paymentdomain.Service, authz authorization.Service) *Server {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	return NewServer(ServerParams{Gin: r, PaymentSvc: payments, AuthzSvc: authz})
}

func doJSON(t *testing.T, srv *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestRecordPaymentCreated(t *testing.T) {
	var gotID string
	var gotScope shopcontext.Scope
	fake := &fakePayments{record: func(ctx context.Context, workOrderID string, req paymentdomain.RecordRequest) (paymentdomain.RecordResponse, error) {
		gotID = workOrderID
		gotScope, _ = shopcontext.FromContext(ctx)
		return paymentdomain.RecordResponse{
			PaymentID:        "42",
			AmountPaid:       req.Amount,
			RemainingBalance: decimal.RequireFromString("60"),
		}, nil
	}}
	srv := newTestServer(fake, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/work-orders/7/payments", `{"amount":"40.00","payment_method":"card"}`, map[string]string{
		HeaderTenant: "1",
		HeaderShop:   "2",
		HeaderUser:   "3",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "7", gotID)
	assert.Equal(t, "2", gotScope.ShopID.String())
	assert.Equal(t, "3", gotScope.UserID.String())

	var body struct {
		Data paymentdomain.RecordResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "42", body.Data.PaymentID)
	assert.True(t, decimal.RequireFromString("40").Equal(body.Data.AmountPaid))
}

func TestRecordPaymentOverpaymentConflict(t *testing.T) {
	fake := &fakePayments{record: func(context.Context, string, paymentdomain.RecordRequest) (paymentdomain.RecordResponse, error) {
		return paymentdomain.RecordResponse{}, fmt.Errorf("%w: payment would exceed invoice total; current balance: $20.00", paymentdomain.ErrOverpayment)
	}}
	srv := newTestServer(fake, nil)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/work-orders/7/payments", `{"amount":"25"}`, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "state_conflict", payload.Type)
	assert.Contains(t, payload.Message, "$20.00")
}

func TestRecordPaymentRejectsBadMoney(t *testing.T) {
	fake := &fakePayments{}
	srv := newTestServer(fake, nil)

	cases := map[string]string{
		"negative":       `{"amount":"-5"}`,
		"three decimals": `{"amount":"10.005"}`,
		"not json":       `{"amount":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/v1/work-orders/7/payments", body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_error", decodeError(t, rec).Type)
		})
	}
	assert.Zero(t, fake.calls)
}

func TestMoneyTagReportsField(t *testing.T) {
	err := NewRequestValidator().Struct(&paymentdomain.RecordRequest{Amount: decimal.RequireFromString("-1")})

	var vErr *ValidationErrors
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Errors, 1)
	assert.Equal(t, "amount", vErr.Errors[0].Field)
	assert.Equal(t, "money", vErr.Errors[0].Code)

	assert.NoError(t, NewRequestValidator().Struct(&paymentdomain.RecordRequest{Amount: decimal.RequireFromString("12.50")}))
}

func TestSetWorkOrderStatusRequiresStatus(t *testing.T) {
	fake := &fakePayments{setState: func(_ context.Context, _ string, status string) (paymentdomain.Balance, error) {
		return paymentdomain.Balance{Status: status}, nil
	}}
	srv := newTestServer(fake, nil)

	rec := doJSON(t, srv, http.MethodPut, "/api/v1/work-orders/7/status", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPut, "/api/v1/work-orders/7/status", `{"status":"open"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fake.calls)
}

func TestPermissionDenied(t *testing.T) {
	fake := &fakePayments{}
	srv := newTestServer(fake, denyAll{})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/work-orders/7/payments", `{"amount":"5"}`, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec).Type)
	assert.Zero(t, fake.calls)
}

func TestShopScopeRejectsMalformedHeaders(t *testing.T) {
	srv := newTestServer(&fakePayments{}, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/payments", "", map[string]string{HeaderAllowedShops: "1,abc"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "allowed_shop_ids", decodeError(t, rec).Errors[0].Field)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/payments", "", map[string]string{HeaderUser: "bob"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_id", decodeError(t, rec).Errors[0].Field)
}

func TestReceiptServedAsPDF(t *testing.T) {
	srv := newTestServer(&fakePayments{}, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/payments/9/receipt.pdf", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestUnknownRouteNotFound(t *testing.T) {
	srv := newTestServer(&fakePayments{}, nil)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
