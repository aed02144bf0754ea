package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	pricingdomain "github.com/smallbiznis/shopcore/internal/pricingrule/domain"
)

type quoteRequest struct {
	Costs []decimal.Decimal `json:"costs" validate:"required,min=1,dive,money"`
}

func (s *Server) GetPricingRules(c *gin.Context) {
	resp, err := s.pricingSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SavePricingRules(c *gin.Context) {
	var req pricingdomain.SaveRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.pricingSvc.Save(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) QuotePrices(c *gin.Context) {
	var req quoteRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.pricingSvc.Quote(c.Request.Context(), req.Costs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
