package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/leadflowhq/leadflow/internal/lead/domain"
	"github.com/leadflowhq/leadflow/internal/ratelimit"
)

// CaptureLead is the public, unauthenticated ingestion endpoint.
// Throttling happens here rather than in middleware because the
// organization key lives in the request body.
func (s *Server) CaptureLead(c *gin.Context) {
	var req leaddomain.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if !s.allowCapture(c, req.OrgSlug) {
		return
	}

	lead, err := s.leadSvc.Capture(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (s *Server) allowCapture(c *gin.Context, orgSlug string) bool {
	if !s.leadLimiter.Enabled() {
		return true
	}

	ctx := c.Request.Context()

	endpointResult, err := s.leadLimiter.AllowEndpoint(ctx, c.ClientIP())
	if err != nil {
		// Limiter outages must not block ingestion.
		return true
	}
	if !endpointResult.Allowed {
		s.denyCapture(c, orgSlug, "endpoint", endpointResult)
		return false
	}

	orgResult, err := s.leadLimiter.AllowOrg(ctx, orgSlug)
	if err != nil {
		return true
	}
	if !orgResult.Allowed {
		s.denyCapture(c, orgSlug, "organization", orgResult)
		return false
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordRateLimitAllowed(ctx, orgSlug, "leads.capture")
	}
	return true
}

func (s *Server) denyCapture(c *gin.Context, orgSlug, reason string, result *ratelimit.RateLimitResult) {
	if s.obsMetrics != nil {
		s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), orgSlug, "leads.capture", reason)
	}
	if result.RetryAfter > 0 {
		seconds := int(result.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
	}
	AbortWithError(c, ErrRateLimited)
}

func (s *Server) ListLeads(c *gin.Context) {
	req := leaddomain.ListRequest{}

	if campaignID := strings.TrimSpace(c.Query("campaign_id")); campaignID != "" {
		if _, err := parseOptionalSnowflakeID(campaignID); err != nil {
			AbortWithError(c, newValidationError("campaign_id", "invalid_campaign", "invalid campaign id"))
			return
		}
		req.CampaignID = &campaignID
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		parsed := leaddomain.Status(strings.ToLower(status))
		if !leaddomain.ValidStatus(parsed) {
			AbortWithError(c, newValidationError("status", "invalid_lead_status", "invalid lead status"))
			return
		}
		req.Status = &parsed
	}

	limit, err := parseOptionalInt64(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_request", "invalid limit"))
		return
	}
	if limit != nil {
		req.Limit = int(*limit)
	}

	leads, err := s.leadSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

type updateLeadStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateLeadStatus(c *gin.Context) {
	var req updateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	lead, err := s.leadSvc.UpdateStatus(c.Request.Context(), c.Param("id"), leaddomain.Status(strings.ToLower(strings.TrimSpace(req.Status))))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}
