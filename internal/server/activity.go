package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboardActivity(c *gin.Context) {
	limitValue, err := parseOptionalInt64(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_request", "invalid limit"))
		return
	}

	limit := 0
	if limitValue != nil {
		limit = int(*limitValue)
	}

	entries, err := s.activitySvc.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": entries})
}
