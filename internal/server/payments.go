package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/shopcore/internal/workorderpayment/domain"
)

func (s *Server) RecordPayment(c *gin.Context) {
	id := workOrderParam(c)
	var req paymentdomain.RecordRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.paymentSvc.Record(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetWorkOrderBalance(c *gin.Context) {
	resp, err := s.paymentSvc.GetBalance(c.Request.Context(), workOrderParam(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// SetWorkOrderStatus moves an order between open and paid. Reopening
// removes its payments.
func (s *Server) SetWorkOrderStatus(c *gin.Context) {
	id := workOrderParam(c)
	var req paymentdomain.StatusRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.paymentSvc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query paymentdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.ListAll(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PaymentReceiptPDF(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	doc, err := s.paymentSvc.ReceiptPDF(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="receipt-`+id+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
