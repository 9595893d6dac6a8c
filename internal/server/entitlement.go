package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
)

func (s *Server) GetEntitlements(c *gin.Context) {
	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok || orgID == 0 {
		AbortWithError(c, newValidationError("org_id", "invalid_organization", "organization header is required"))
		return
	}

	modules, err := s.entitlementSvc.ResolveAccessibleModules(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": modules})
}

func (s *Server) CheckEntitlement(c *gin.Context) {
	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok || orgID == 0 {
		AbortWithError(c, newValidationError("org_id", "invalid_organization", "organization header is required"))
		return
	}

	slug := c.Param("slug")
	accessible, err := s.entitlementSvc.CanAccessModule(c.Request.Context(), orgID, slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"module": slug, "accessible": accessible})
}
