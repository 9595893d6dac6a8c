package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/leadflowhq/leadflow/internal/auditcontext"
	obscontext "github.com/leadflowhq/leadflow/internal/observability/context"
	organizationdomain "github.com/leadflowhq/leadflow/internal/organization/domain"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
)

const (
	HeaderOrg  = "X-Org-ID"
	HeaderUser = "X-User-ID"

	contextUserIDKey = "user_id"
)

// ActorContext resolves the acting principal from the request. Internal
// callers without a user header act as "system".
func (s *Server) ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userIDRaw := strings.TrimSpace(c.GetHeader(HeaderUser))
		if userIDRaw == "" {
			ctx = auditcontext.WithActor(ctx, "system", "")
			ctx = obscontext.WithActor(ctx, "system", "")
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		userID, err := snowflake.ParseString(userIDRaw)
		if err != nil || userID == 0 {
			AbortWithError(c, newValidationError("user_id", "invalid_user", "invalid user id"))
			return
		}

		c.Set(contextUserIDKey, userID.String())
		ctx = auditcontext.WithActor(ctx, "user", userID.String())
		ctx = obscontext.WithActor(ctx, "user", userID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OrgContext requires the org header and injects the tenant into the
// request context.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgIDRaw := strings.TrimSpace(c.GetHeader(HeaderOrg))
		if orgIDRaw == "" {
			AbortWithError(c, newValidationError("org_id", "invalid_organization", "organization header is required"))
			return
		}

		orgID, err := snowflake.ParseString(orgIDRaw)
		if err != nil || orgID == 0 {
			AbortWithError(c, newValidationError("org_id", "invalid_organization", "invalid organization id"))
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), int64(orgID))
		ctx = obscontext.WithOrgID(ctx, orgID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole allows the request through when the acting user holds one
// of the roles in the organization. System actors always pass.
func (s *Server) RequireRole(roles ...organizationdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorType, actorID := auditcontext.ActorFromContext(c.Request.Context())
		if actorType == "system" {
			c.Next()
			return
		}
		if actorType != "user" || actorID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		role, err := s.organizationSvc.RoleForUser(c.Request.Context(), actorID)
		if err != nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// authorizeOrgAction gates a route on a casbin policy check.
func (s *Server) authorizeOrgAction(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
		if !ok || orgID == 0 {
			AbortWithError(c, newValidationError("org_id", "invalid_organization", "organization header is required"))
			return
		}

		actorType, actorID := auditcontext.ActorFromContext(c.Request.Context())
		var actor string
		switch actorType {
		case "system":
			actor = "system"
		case "user":
			actor = "user:" + actorID
		default:
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authzSvc.Authorize(c.Request.Context(), actor, orgID.String(), object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
