package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/shopcore/internal/authorization"
	customerdomain "github.com/smallbiznis/shopcore/internal/customer/domain"
	inventorydomain "github.com/smallbiznis/shopcore/internal/inventory/domain"
	laborratedomain "github.com/smallbiznis/shopcore/internal/laborrate/domain"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	purchaseorderdomain "github.com/smallbiznis/shopcore/internal/purchaseorder/domain"
	"github.com/smallbiznis/shopcore/internal/ratelimit"
	shopdomain "github.com/smallbiznis/shopcore/internal/shop/domain"
	settingsdomain "github.com/smallbiznis/shopcore/internal/shopsettings/domain"
	vendordomain "github.com/smallbiznis/shopcore/internal/vendors/domain"
	workorderdomain "github.com/smallbiznis/shopcore/internal/workorder/domain"
	paymentdomain "github.com/smallbiznis/shopcore/internal/workorderpayment/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrForbidden          = errors.New("forbidden")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if sentinel := validationSentinel(err); sentinel != nil {
		code := sentinel.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(err, sentinel),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isStateConflict(err):
		// The message names the failing precondition, e.g. the remaining balance.
		return http.StatusConflict, errorPayload{
			Type:    "state_conflict",
			Message: err.Error(),
		}
	case isConfigurationError(err):
		return http.StatusPreconditionFailed, errorPayload{
			Type:    "configuration_error",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: notFoundMessage(err),
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog returns the error type and code recorded on the
// request log line.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	_, payload := mapError(err)
	code := payload.Type
	if sentinel := validationSentinel(err); sentinel != nil {
		code = sentinel.Error()
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

var validationSentinels = []error{
	ErrInvalidRequest,
	authorization.ErrInvalidPermission,
	shopdomain.ErrInvalidTenant,
	shopdomain.ErrInvalidName,
	shopdomain.ErrInvalidUser,
	shopdomain.ErrInvalidRole,
	customerdomain.ErrInvalidName,
	customerdomain.ErrInvalidEmail,
	customerdomain.ErrInvalidID,
	vendordomain.ErrInvalidName,
	vendordomain.ErrInvalidEmail,
	vendordomain.ErrInvalidID,
	partdomain.ErrInvalidID,
	partdomain.ErrInvalidPartNumber,
	partdomain.ErrInvalidStock,
	partdomain.ErrInvalidCost,
	partdomain.ErrInvalidCoreCost,
	partdomain.ErrInvalidMiscCharge,
	partdomain.ErrInvalidReference,
	pricingdomain.ErrInvalidMode,
	pricingdomain.ErrInvalidRules,
	pricingdomain.ErrTooManyQuotes,
	inventorydomain.ErrOrderLineInvalid,
	inventorydomain.ErrInvalidID,
	purchaseorderdomain.ErrInvalidID,
	purchaseorderdomain.ErrInvalidVendor,
	purchaseorderdomain.ErrInvalidStatus,
	purchaseorderdomain.ErrNoValidItems,
	laborratedomain.ErrInvalidCode,
	laborratedomain.ErrInvalidName,
	laborratedomain.ErrInvalidRate,
	settingsdomain.ErrInvalidPercentage,
	workorderdomain.ErrInvalidID,
	workorderdomain.ErrInvalidCustomer,
	workorderdomain.ErrInvalidUnit,
	workorderdomain.ErrInvalidStatus,
	workorderdomain.ErrInvalidLaborBlocks,
	paymentdomain.ErrInvalidID,
	paymentdomain.ErrInvalidAmount,
	paymentdomain.ErrInvalidMethod,
	paymentdomain.ErrInvalidStatus,
}

func validationSentinel(err error) error {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

func isStateConflict(err error) bool {
	switch {
	case errors.Is(err, workorderdomain.ErrWorkOrderPaid),
		errors.Is(err, paymentdomain.ErrOverpayment),
		errors.Is(err, purchaseorderdomain.ErrNegativePrice),
		errors.Is(err, purchaseorderdomain.ErrOrderHasNoItems),
		errors.Is(err, partdomain.ErrDuplicatePartNumber),
		errors.Is(err, ratelimit.ErrLocked):
		return true
	default:
		return false
	}
}

func isConfigurationError(err error) bool {
	return errors.Is(err, shopdomain.ErrShopNotConfigured) ||
		errors.Is(err, pricingdomain.ErrRulesNotConfigured)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, shopdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrUnitNotFound),
		errors.Is(err, vendordomain.ErrNotFound),
		errors.Is(err, partdomain.ErrNotFound),
		errors.Is(err, laborratedomain.ErrNotFound),
		errors.Is(err, purchaseorderdomain.ErrNotFound),
		errors.Is(err, purchaseorderdomain.ErrVendorNotFound),
		errors.Is(err, workorderdomain.ErrNotFound),
		errors.Is(err, workorderdomain.ErrCustomerNotFound),
		errors.Is(err, workorderdomain.ErrUnitNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrWorkOrderNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func notFoundMessage(err error) string {
	msg := strings.ReplaceAll(err.Error(), "_", " ")
	if msg == "" || errors.Is(err, gorm.ErrRecordNotFound) {
		return "not found"
	}
	return msg
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "order_line_invalid", "no_valid_items":
		return "items"
	case "too_many_quotes":
		return "costs"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

// validationErrorMessage keeps the detail of wrapped sentinels such as
// "rule #2: 'to' must be > 'from'".
func validationErrorMessage(err, sentinel error) string {
	if err.Error() != sentinel.Error() {
		return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	}
	switch sentinel {
	case ErrInvalidRequest:
		return "invalid request"
	default:
		return "invalid value"
	}
}
