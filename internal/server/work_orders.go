package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	workorderdomain "github.com/smallbiznis/shopcore/internal/workorder/domain"
)

func (s *Server) CreateWorkOrder(c *gin.Context) {
	var req workorderdomain.SaveRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.workOrderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set("work_order_id", resp.ID.String())
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListWorkOrders(c *gin.Context) {
	var query workorderdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.workOrderSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetWorkOrder(c *gin.Context) {
	id := workOrderParam(c)
	resp, err := s.workOrderSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateWorkOrder(c *gin.Context) {
	id := workOrderParam(c)
	var req workorderdomain.UpdateRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.workOrderSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecalculateWorkOrder(c *gin.Context) {
	resp, err := s.workOrderSvc.Recalculate(c.Request.Context(), workOrderParam(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateWorkOrder(c *gin.Context) {
	if err := s.workOrderSvc.Deactivate(c.Request.Context(), workOrderParam(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) WorkOrderInvoicePDF(c *gin.Context) {
	id := workOrderParam(c)
	doc, err := s.workOrderSvc.InvoicePDF(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="invoice-`+id+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

// workOrderParam reads :id and tags the request log with it.
func workOrderParam(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("work_order_id", id)
	return id
}
