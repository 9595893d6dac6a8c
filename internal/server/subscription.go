package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
)

func (s *Server) ListSubscriptionLinks(c *gin.Context) {
	links, err := s.subscriptionSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": links})
}

func (s *Server) CreateSubscriptionLink(c *gin.Context) {
	var req subscriptiondomain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	link, err := s.subscriptionSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (s *Server) UpdateSubscriptionLinkStatus(c *gin.Context) {
	var req subscriptiondomain.UpdateLinkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	link, err := s.subscriptionSvc.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

type cancelAtPeriodEndRequest struct {
	Cancel *bool `json:"cancel"`
}

func (s *Server) SetSubscriptionCancelAtPeriodEnd(c *gin.Context) {
	var req cancelAtPeriodEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cancel := true
	if req.Cancel != nil {
		cancel = *req.Cancel
	}

	link, err := s.subscriptionSvc.SetCancelAtPeriodEnd(c.Request.Context(), c.Param("id"), cancel)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
