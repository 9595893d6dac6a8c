package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	campaigndomain "github.com/leadflowhq/leadflow/internal/campaign/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	leaddomain "github.com/leadflowhq/leadflow/internal/lead/domain"
	"github.com/leadflowhq/leadflow/internal/observability/metrics"
	orgdomain "github.com/leadflowhq/leadflow/internal/organization/domain"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultListLimit = 100

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID        *snowflake.Node
	clock        clock.Clock
	repo         leaddomain.Repository
	orgRepo      orgdomain.Repository
	campaignRepo campaigndomain.Repository
	auditSvc     auditdomain.Service
	metrics      *metrics.Metrics
}

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         leaddomain.Repository
	OrgRepo      orgdomain.Repository
	CampaignRepo campaigndomain.Repository
	AuditSvc     auditdomain.Service `optional:"true"`
	Metrics      *metrics.Metrics    `optional:"true"`
}

func NewService(p ServiceParam) leaddomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("lead.service"),

		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		orgRepo:      p.OrgRepo,
		campaignRepo: p.CampaignRepo,
		auditSvc:     p.AuditSvc,
		metrics:      p.Metrics,
	}
}

// Capture stores a lead submitted through the public endpoint. The
// tenant is resolved from the org slug because the caller is anonymous.
func (s *Service) Capture(ctx context.Context, req leaddomain.CaptureRequest) (*leaddomain.LeadResponse, error) {
	orgSlug := strings.TrimSpace(strings.ToLower(req.OrgSlug))
	if orgSlug == "" {
		return nil, leaddomain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, leaddomain.ErrInvalidName
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, leaddomain.ErrInvalidEmail
	}

	org, err := s.orgRepo.FindBySlug(ctx, s.db, orgSlug)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, leaddomain.ErrOrganizationUnknown
	}
	ctx = orgcontext.WithOrgID(ctx, int64(org.ID))

	var campaignID *snowflake.ID
	if req.CampaignID != nil && strings.TrimSpace(*req.CampaignID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.CampaignID))
		if err != nil {
			return nil, leaddomain.ErrInvalidCampaign
		}
		campaign, err := s.campaignRepo.FindByID(ctx, s.db, org.ID, parsed)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			return nil, leaddomain.ErrInvalidCampaign
		}
		campaignID = &campaign.ID
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "web"
	}

	now := s.clock.Now()
	lead := &leaddomain.Lead{
		ID:         s.genID.Generate(),
		OrgID:      org.ID,
		CampaignID: campaignID,
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		Source:     source,
		Status:     leaddomain.StatusNew,
		Metadata:   datatypes.JSONMap(req.Metadata),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, lead); err != nil {
		return nil, err
	}

	s.audit(ctx, auditdomain.ActionLeadCreated, lead)
	if s.metrics != nil {
		s.metrics.RecordLeadCaptured(ctx, source)
	}
	s.log.Info("lead captured",
		zap.String("lead_id", lead.ID.String()),
		zap.String("source", source),
	)
	return toResponse(lead), nil
}

func (s *Service) List(ctx context.Context, req leaddomain.ListRequest) ([]leaddomain.LeadResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, leaddomain.ErrInvalidOrganization
	}

	filter := leaddomain.ListFilter{Limit: req.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if req.CampaignID != nil && strings.TrimSpace(*req.CampaignID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.CampaignID))
		if err != nil {
			return nil, leaddomain.ErrInvalidCampaign
		}
		filter.CampaignID = &parsed
	}
	if req.Status != nil {
		if !leaddomain.ValidStatus(*req.Status) {
			return nil, leaddomain.ErrInvalidStatus
		}
		filter.Status = req.Status
	}

	leads, err := s.repo.List(ctx, s.db, orgID, filter)
	if err != nil {
		return nil, err
	}

	out := make([]leaddomain.LeadResponse, 0, len(leads))
	for i := range leads {
		out = append(out, *toResponse(&leads[i]))
	}
	return out, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status leaddomain.Status) (*leaddomain.LeadResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, leaddomain.ErrInvalidOrganization
	}

	if !leaddomain.ValidStatus(status) {
		return nil, leaddomain.ErrInvalidStatus
	}

	leadID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, leaddomain.ErrInvalidID
	}

	lead, err := s.repo.FindByID(ctx, s.db, orgID, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, leaddomain.ErrNotFound
	}

	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, orgID, leadID, status, now); err != nil {
		return nil, err
	}
	lead.Status = status
	lead.UpdatedAt = now

	s.audit(ctx, auditdomain.ActionLeadStatusChanged, lead)
	return toResponse(lead), nil
}

func (s *Service) audit(ctx context.Context, action string, lead *leaddomain.Lead) {
	if s.auditSvc == nil {
		return
	}
	targetID := lead.ID.String()
	err := s.auditSvc.Record(ctx, auditdomain.RecordRequest{
		Action:      action,
		TargetType:  "lead",
		TargetID:    &targetID,
		TargetLabel: lead.Name,
		Metadata: map[string]any{
			"source": lead.Source,
			"status": string(lead.Status),
		},
	})
	if err != nil {
		s.log.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}

func toResponse(lead *leaddomain.Lead) *leaddomain.LeadResponse {
	var campaignID *string
	if lead.CampaignID != nil {
		value := lead.CampaignID.String()
		campaignID = &value
	}
	return &leaddomain.LeadResponse{
		ID:         lead.ID.String(),
		CampaignID: campaignID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Source:     lead.Source,
		Status:     lead.Status,
		Metadata:   lead.Metadata,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
}
