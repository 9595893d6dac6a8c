package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	campaigndomain "github.com/leadflowhq/leadflow/internal/campaign/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	pkgdb "github.com/leadflowhq/leadflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	clock    clock.Clock
	repo     campaigndomain.Repository
	auditSvc auditdomain.Service
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     campaigndomain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

func NewService(p ServiceParam) campaigndomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("campaign.service"),

		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) List(ctx context.Context) ([]campaigndomain.CampaignResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, campaigndomain.ErrInvalidOrganization
	}

	campaigns, err := s.repo.List(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]campaigndomain.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, *toResponse(&campaigns[i]))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*campaigndomain.CampaignResponse, error) {
	campaign, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(campaign), nil
}

func (s *Service) Create(ctx context.Context, req campaigndomain.CreateRequest) (*campaigndomain.CampaignResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, campaigndomain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, campaigndomain.ErrInvalidName
	}
	if !campaigndomain.ValidPlatform(req.Platform) {
		return nil, campaigndomain.ErrInvalidPlatform
	}
	if req.BudgetCents < 0 {
		return nil, campaigndomain.ErrInvalidBudget
	}

	now := s.clock.Now()
	campaign := &campaigndomain.Campaign{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        name,
		Slug:        slug.Make(name),
		Platform:    req.Platform,
		Status:      campaigndomain.StatusDraft,
		BudgetCents: req.BudgetCents,
		Metadata:    datatypes.JSONMap(req.Metadata),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, campaign); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, campaigndomain.ErrSlugTaken
		}
		return nil, err
	}

	s.audit(ctx, auditdomain.ActionCampaignCreated, campaign)
	s.log.Info("campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("platform", string(campaign.Platform)),
	)
	return toResponse(campaign), nil
}

func (s *Service) Update(ctx context.Context, id string, req campaigndomain.UpdateRequest) (*campaigndomain.CampaignResponse, error) {
	campaign, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, campaigndomain.ErrInvalidName
		}
		campaign.Name = name
	}
	if req.BudgetCents != nil {
		if *req.BudgetCents < 0 {
			return nil, campaigndomain.ErrInvalidBudget
		}
		campaign.BudgetCents = *req.BudgetCents
	}
	if req.Metadata != nil {
		campaign.Metadata = datatypes.JSONMap(req.Metadata)
	}
	campaign.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, campaign); err != nil {
		return nil, err
	}

	s.audit(ctx, auditdomain.ActionCampaignUpdated, campaign)
	return toResponse(campaign), nil
}

func (s *Service) Activate(ctx context.Context, id string) (*campaigndomain.CampaignResponse, error) {
	return s.transition(ctx, id, campaigndomain.StatusActive, auditdomain.ActionCampaignActivated)
}

func (s *Service) Pause(ctx context.Context, id string) (*campaigndomain.CampaignResponse, error) {
	return s.transition(ctx, id, campaigndomain.StatusPaused, auditdomain.ActionCampaignPaused)
}

func (s *Service) Complete(ctx context.Context, id string) (*campaigndomain.CampaignResponse, error) {
	return s.transition(ctx, id, campaigndomain.StatusCompleted, auditdomain.ActionCampaignCompleted)
}

func (s *Service) transition(ctx context.Context, id string, to campaigndomain.Status, action string) (*campaigndomain.CampaignResponse, error) {
	campaign, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !campaigndomain.CanTransition(campaign.Status, to) {
		return nil, campaigndomain.ErrInvalidTransition
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, campaign.OrgID, campaign.ID, to, now); err != nil {
		return nil, err
	}
	campaign.Status = to
	campaign.UpdatedAt = now

	s.audit(ctx, action, campaign)
	s.log.Info("campaign status changed",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("status", string(to)),
	)
	return toResponse(campaign), nil
}

func (s *Service) find(ctx context.Context, id string) (*campaigndomain.Campaign, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, campaigndomain.ErrInvalidOrganization
	}

	campaignID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, campaigndomain.ErrInvalidID
	}

	campaign, err := s.repo.FindByID(ctx, s.db, orgID, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, campaigndomain.ErrNotFound
	}
	return campaign, nil
}

// audit failures never fail the business operation.
func (s *Service) audit(ctx context.Context, action string, campaign *campaigndomain.Campaign) {
	if s.auditSvc == nil {
		return
	}
	targetID := campaign.ID.String()
	err := s.auditSvc.Record(ctx, auditdomain.RecordRequest{
		Action:      action,
		TargetType:  "campaign",
		TargetID:    &targetID,
		TargetLabel: campaign.Name,
		Metadata: map[string]any{
			"platform": string(campaign.Platform),
			"status":   string(campaign.Status),
		},
	})
	if err != nil {
		s.log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func toResponse(campaign *campaigndomain.Campaign) *campaigndomain.CampaignResponse {
	return &campaigndomain.CampaignResponse{
		ID:          campaign.ID.String(),
		Name:        campaign.Name,
		Slug:        campaign.Slug,
		Platform:    campaign.Platform,
		Status:      campaign.Status,
		BudgetCents: campaign.BudgetCents,
		Metadata:    campaign.Metadata,
		CreatedAt:   campaign.CreatedAt,
		UpdatedAt:   campaign.UpdatedAt,
	}
}
