package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
)

func (s *Server) ListPackages(c *gin.Context) {
	includeArchived, err := parseOptionalBool(c.Query("include_archived"))
	if err != nil {
		AbortWithError(c, newValidationError("include_archived", "invalid_request", "invalid boolean"))
		return
	}

	packages, err := s.catalogSvc.List(c.Request.Context(), includeArchived != nil && *includeArchived)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

func (s *Server) GetPackageByID(c *gin.Context) {
	pkg, err := s.catalogSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (s *Server) CreatePackage(c *gin.Context) {
	var req catalogdomain.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pkg, err := s.catalogSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (s *Server) UpdatePackage(c *gin.Context) {
	var req catalogdomain.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	pkg, err := s.catalogSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (s *Server) ArchivePackage(c *gin.Context) {
	pkg, err := s.catalogSvc.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}
