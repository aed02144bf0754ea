package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/smallbiznis/shopcore/internal/authorization"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	purchaseorderdomain "github.com/smallbiznis/shopcore/internal/purchaseorder/domain"
	"github.com/smallbiznis/shopcore/internal/ratelimit"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	workorderdomain "github.com/smallbiznis/shopcore/internal/workorder/domain"
	paymentdomain "github.com/smallbiznis/shopcore/internal/workorderpayment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{name: "nil", err: nil, status: http.StatusInternalServerError, typ: "internal_error"},
		{name: "validation sentinel", err: paymentdomain.ErrInvalidAmount, status: http.StatusBadRequest, typ: "validation_error"},
		{name: "wrapped validation sentinel", err: fmt.Errorf("save: %w", purchaseorderdomain.ErrNoValidItems), status: http.StatusBadRequest, typ: "validation_error"},
		{name: "forbidden", err: authorization.ErrForbidden, status: http.StatusForbidden, typ: "forbidden"},
		{name: "paid order", err: workorderdomain.ErrWorkOrderPaid, status: http.StatusConflict, typ: "state_conflict"},
		{name: "locked", err: ratelimit.ErrLocked, status: http.StatusConflict, typ: "state_conflict"},
		{name: "shop not configured", err: shopdomain.ErrShopNotConfigured, status: http.StatusPreconditionFailed, typ: "configuration_error"},
		{name: "rules not configured", err: pricingdomain.ErrRulesNotConfigured, status: http.StatusPreconditionFailed, typ: "configuration_error"},
		{name: "domain not found", err: workorderdomain.ErrNotFound, status: http.StatusNotFound, typ: "not_found"},
		{name: "gorm not found", err: gorm.ErrRecordNotFound, status: http.StatusNotFound, typ: "not_found"},
		{name: "rate limited", err: ErrRateLimited, status: http.StatusTooManyRequests, typ: "rate_limited"},
		{name: "unavailable", err: ErrServiceUnavailable, status: http.StatusServiceUnavailable, typ: "service_unavailable"},
		{name: "unknown", err: fmt.Errorf("boom"), status: http.StatusInternalServerError, typ: "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.typ, payload.Type)
		})
	}
}

func TestMapErrorKeepsConflictDetail(t *testing.T) {
	err := fmt.Errorf("%w: payment would exceed invoice total; current balance: $20.00", paymentdomain.ErrOverpayment)

	status, payload := mapError(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, payload.Message, "current balance: $20.00")
}

func TestMapErrorRuleDetail(t *testing.T) {
	err := &pricingdomain.RuleError{Index: 2, Msg: "'to' must be > 'from'"}

	status, payload := mapError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_pricing_rules", payload.Errors[0].Code)
	assert.Equal(t, "pricing_rules", payload.Errors[0].Field)
	assert.Equal(t, "rule #2: 'to' must be > 'from'", payload.Errors[0].Message)
}

func TestMapErrorValidationErrorsPassThrough(t *testing.T) {
	err := newValidationError("user_id", "invalid_user_id", "invalid user id")

	status, payload := mapError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "user_id", payload.Errors[0].Field)
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(paymentdomain.ErrInvalidMethod)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_payment_method", code)

	typ, code = classifyErrorForLog(workorderdomain.ErrNotFound)
	assert.Equal(t, "not_found", typ)
	assert.Equal(t, "not_found", code)

	typ, code = classifyErrorForLog(nil)
	assert.Empty(t, typ)
	assert.Empty(t, code)
}
