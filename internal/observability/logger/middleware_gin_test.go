package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, requestLevel("/health", http.StatusOK, ""))
	assert.Equal(t, zap.ErrorLevel, requestLevel("/api/v1/parts", http.StatusInternalServerError, "internal_error"))
	assert.Equal(t, zap.DebugLevel, requestLevel("/api/v1/parts/search", http.StatusBadRequest, "validation_error"))
	assert.Equal(t, zap.WarnLevel, requestLevel("/api/v1/work-orders/:id/payments", http.StatusConflict, "conflict"))
	assert.Equal(t, zap.WarnLevel, requestLevel("/api/v1/pricing/quote", http.StatusPreconditionFailed, ""))
	assert.Equal(t, zap.InfoLevel, requestLevel("/api/v1/parts", http.StatusCreated, ""))
}

func TestResourceField(t *testing.T) {
	key, id := resourceField("/api/v1/work-orders/:id/payments", "42")
	assert.Equal(t, "work_order_id", key)
	assert.Equal(t, "42", id)

	key, _ = resourceField("/api/v1/labor-rates/:code", "")
	assert.Empty(t, key)
}

func TestGinMiddlewareEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(headerRequestID))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}
