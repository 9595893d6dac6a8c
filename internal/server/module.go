package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	moduledomain "github.com/leadflowhq/leadflow/internal/module/domain"
)

func (s *Server) ListModules(c *gin.Context) {
	modules, err := s.moduleSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": modules})
}

func (s *Server) CreateModule(c *gin.Context) {
	var req moduledomain.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	module, err := s.moduleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, module)
}

func (s *Server) UpdateModule(c *gin.Context) {
	var req moduledomain.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	module, err := s.moduleSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, module)
}

func (s *Server) EnableModule(c *gin.Context) {
	s.setModuleEnabled(c, true)
}

func (s *Server) DisableModule(c *gin.Context) {
	s.setModuleEnabled(c, false)
}

func (s *Server) setModuleEnabled(c *gin.Context, enabled bool) {
	module, err := s.moduleSvc.SetEnabled(c.Request.Context(), c.Param("id"), enabled)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, module)
}
