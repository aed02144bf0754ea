package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	laborratedomain "github.com/smallbiznis/shopcore/internal/laborrate/domain"
	settingsdomain "github.com/smallbiznis/shopcore/internal/shopsettings/domain"
)

func (s *Server) GetWorkOrderSettings(c *gin.Context) {
	resp, err := s.settingsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SaveWorkOrderSettings(c *gin.Context) {
	var req settingsdomain.SaveRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.settingsSvc.Save(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLaborRates(c *gin.Context) {
	resp, err := s.laborSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		resp = []laborratedomain.LaborRate{}
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpsertLaborRate(c *gin.Context) {
	var req laborratedomain.UpsertRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.laborSvc.Upsert(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLaborRate(c *gin.Context) {
	if err := s.laborSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("code"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
