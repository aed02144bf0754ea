package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/shopcore/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const headerRequestID = "X-Request-ID"

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (string, string)
}

// resourceKeys names the :id route parameter per resource so one order or
// part can be followed across log lines.
var resourceKeys = map[string]string{
	"/api/v1/parts/":           "part_id",
	"/api/v1/purchase-orders/": "purchase_order_id",
	"/api/v1/work-orders/":     "work_order_id",
	"/api/v1/payments/":        "payment_id",
}

// GinMiddleware logs one line per request with correlation identifiers.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if key, id := resourceField(route, c.Param("id")); key != "" {
			fields = append(fields, zap.String(key, id))
		}

		var errorType string
		if lastErr := c.Errors.Last(); lastErr != nil {
			var errorCode string
			if cfg.ErrorClassifier != nil {
				errorType, errorCode = cfg.ErrorClassifier(lastErr.Err)
			}
			fields = append(fields,
				zap.String("error_type", errorType),
				zap.String("error_code", errorCode),
			)
			if cfg.Debug {
				fields = append(fields, zap.Error(lastErr.Err))
			}
		}

		FromContext(c.Request.Context()).Log(requestLevel(route, status, errorType), "http_request", fields...)
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header(headerRequestID, requestID)
	return requestID
}

func resourceField(route, id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ""
	}
	for prefix, key := range resourceKeys {
		if strings.HasPrefix(route, prefix) {
			return key, id
		}
	}
	return "", ""
}

// requestLevel keeps probes and typo'd searches quiet and raises business
// rejections (conflicts, missing setup, throttling) to warn.
func requestLevel(route string, status int, errorType string) zapcore.Level {
	switch {
	case route == "/metrics" || route == "/health":
		return zap.DebugLevel
	case status >= http.StatusInternalServerError:
		return zap.ErrorLevel
	case route == "/api/v1/parts/search" && errorType == "validation_error":
		return zap.DebugLevel
	case status == http.StatusConflict,
		status == http.StatusPreconditionFailed,
		status == http.StatusTooManyRequests:
		return zap.WarnLevel
	default:
		return zap.InfoLevel
	}
}
