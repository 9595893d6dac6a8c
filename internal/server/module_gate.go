package server

import (
	"github.com/gin-gonic/gin"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
)

// RequireModule blocks routes belonging to a platform module the
// organization has no entitlement for.
func (s *Server) RequireModule(moduleSlug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
		if !ok || orgID == 0 {
			AbortWithError(c, newValidationError("org_id", "invalid_organization", "organization header is required"))
			return
		}

		allowed, err := s.entitlementSvc.CanAccessModule(c.Request.Context(), orgID, moduleSlug)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if !allowed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordModuleDenied(c.Request.Context(), moduleSlug)
			}
			AbortWithError(c, ErrModuleNotLicensed)
			return
		}
		c.Next()
	}
}
