package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/shopcore/internal/observability/logger"
	"github.com/smallbiznis/shopcore/internal/shopcontext"
	"go.uber.org/zap"
)

// Identity headers are set by the upstream gateway after authentication.
const (
	HeaderTenant       = "X-Tenant-ID"
	HeaderShop         = "X-Shop-ID"
	HeaderUser         = "X-User-ID"
	HeaderAllowedShops = "X-Allowed-Shop-IDs"
)

// ShopScope copies the identity headers into the request scope. Missing or
// malformed shop identifiers are left for shop resolution to reject.
func ShopScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := shopcontext.ParseIDList(c.GetHeader(HeaderAllowedShops))
		if err != nil {
			AbortWithError(c, newValidationError("allowed_shop_ids", "invalid_allowed_shop_ids", "invalid allowed shop ids"))
			return
		}
		userID, err := headerID(c, HeaderUser)
		if err != nil {
			AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid user id"))
			return
		}
		tenantID, _ := headerID(c, HeaderTenant)
		shopID, _ := headerID(c, HeaderShop)

		scope := shopcontext.Scope{
			TenantID:       tenantID,
			ShopID:         shopID,
			UserID:         userID,
			AllowedShopIDs: allowed,
		}
		c.Request = c.Request.WithContext(shopcontext.WithScope(c.Request.Context(), scope))
		c.Next()
	}
}

func headerID(c *gin.Context, header string) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.GetHeader(header))
	if raw == "" {
		return 0, nil
	}
	return snowflake.ParseString(raw)
}

// RequirePermission rejects the request unless the caller's shop role
// grants key.
func (s *Server) RequirePermission(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.authzSvc == nil {
			c.Next()
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), key); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// ShopWriteRateLimit throttles mutating requests per shop when redis is
// configured.
func (s *Server) ShopWriteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.writeLimiter.Enabled() || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		shopID, ok := shopcontext.ShopIDFromContext(ctx)
		if !ok {
			c.Next()
			return
		}

		result, err := s.writeLimiter.AllowShop(ctx, shopID.String())
		if err != nil {
			logger.FromContext(ctx).Warn("shop write rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !result.Allowed {
			endpoint := normalizeRateLimitEndpoint(c)
			logger.FromContext(ctx).Warn("shop write rate limit exceeded", zap.String("endpoint", endpoint))
			s.obsMetrics.RecordRateLimitDenied(ctx, shopID.String(), endpoint)

			retry := int(result.RetryAfter.Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
