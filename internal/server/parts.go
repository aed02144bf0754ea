package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	partdomain "github.com/smallbiznis/shopcore/internal/part/domain"
	searchdomain "github.com/smallbiznis/shopcore/internal/partsearch/domain"
	"github.com/smallbiznis/shopcore/pkg/db/pagination"
)

func (s *Server) SearchParts(c *gin.Context) {
	var query searchdomain.SearchRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.searchSvc.Search(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreatePart(c *gin.Context) {
	var req partdomain.CreatePartRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.partSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetPart(c *gin.Context) {
	resp, err := s.partSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePart(c *gin.Context) {
	var req partdomain.UpdatePartRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.partSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivatePart(c *gin.Context) {
	if err := s.partSvc.Deactivate(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListPartMovements(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.ListMovements(c.Request.Context(), strings.TrimSpace(c.Param("id")), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReindexParts(c *gin.Context) {
	count, err := s.searchSvc.Reindex(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"indexed_parts": count}})
}
