package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	campaigndomain "github.com/leadflowhq/leadflow/internal/campaign/domain"
)

func (s *Server) ListCampaigns(c *gin.Context) {
	campaigns, err := s.campaignSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

func (s *Server) GetCampaignByID(c *gin.Context) {
	campaign, err := s.campaignSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (s *Server) CreateCampaign(c *gin.Context) {
	var req campaigndomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	campaign, err := s.campaignSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

func (s *Server) UpdateCampaign(c *gin.Context) {
	var req campaigndomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	campaign, err := s.campaignSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (s *Server) ActivateCampaign(c *gin.Context) {
	s.transitionCampaign(c, s.campaignSvc.Activate)
}

func (s *Server) PauseCampaign(c *gin.Context) {
	s.transitionCampaign(c, s.campaignSvc.Pause)
}

func (s *Server) CompleteCampaign(c *gin.Context) {
	s.transitionCampaign(c, s.campaignSvc.Complete)
}

func (s *Server) transitionCampaign(c *gin.Context, fn func(ctx context.Context, id string) (*campaigndomain.CampaignResponse, error)) {
	campaign, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}
