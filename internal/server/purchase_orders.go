package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	purchaseorderdomain "github.com/smallbiznis/shopcore/internal/purchaseorder/domain"
)

func (s *Server) CreatePurchaseOrder(c *gin.Context) {
	var req purchaseorderdomain.CreateRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListPurchaseOrders(c *gin.Context) {
	var query purchaseorderdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPurchaseOrder(c *gin.Context) {
	resp, err := s.orderSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReceivePurchaseOrder(c *gin.Context) {
	resp, err := s.orderSvc.Receive(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivatePurchaseOrder(c *gin.Context) {
	if err := s.orderSvc.Deactivate(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
