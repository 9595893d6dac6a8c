package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	clock       clock.Clock
	repo        subscriptiondomain.Repository
	catalogRepo catalogdomain.Repository
	auditSvc    auditdomain.Service
}

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        subscriptiondomain.Repository
	CatalogRepo catalogdomain.Repository
	AuditSvc    auditdomain.Service `optional:"true"`
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("subscription.service"),

		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		auditSvc:    p.AuditSvc,
	}
}

func (s *Service) List(ctx context.Context) ([]subscriptiondomain.LinkResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, subscriptiondomain.ErrInvalidOrganization
	}

	links, err := s.repo.ListByOrg(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]subscriptiondomain.LinkResponse, 0, len(links))
	for i := range links {
		out = append(out, toResponse(&links[i]))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, req subscriptiondomain.CreateLinkRequest) (subscriptiondomain.LinkResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidOrganization
	}

	packageID, err := snowflake.ParseString(strings.TrimSpace(req.PackageID))
	if err != nil || packageID == 0 {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidPackage
	}

	pkg, err := s.catalogRepo.FindByID(ctx, s.db, packageID)
	if err != nil {
		return subscriptiondomain.LinkResponse{}, err
	}
	if pkg == nil {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidPackage
	}
	if !pkg.IsActive {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrPackageArchived
	}

	status := req.Status
	if status == "" {
		status = subscriptiondomain.LinkStatusIncomplete
	}
	if !subscriptiondomain.ValidStatus(status) {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidStatus
	}

	var providerRef *string
	if trimmed := strings.TrimSpace(req.ProviderRef); trimmed != "" {
		providerRef = &trimmed
	}

	now := s.clock.Now()
	link := &subscriptiondomain.SubscriptionLink{
		ID:               s.genID.Generate(),
		OrgID:            orgID,
		PackageID:        packageID,
		Status:           status,
		CurrentPeriodEnd: req.CurrentPeriodEnd,
		ProviderRef:      providerRef,
		Metadata:         datatypes.JSONMap(req.Metadata),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, link); err != nil {
		return subscriptiondomain.LinkResponse{}, err
	}

	s.log.Info("subscription link created",
		zap.String("link_id", link.ID.String()),
		zap.String("package", pkg.Slug),
		zap.String("status", string(link.Status)),
	)
	s.audit(ctx, auditdomain.ActionPackageSubscribed, link, pkg.Name)

	return toResponse(link), nil
}

func (s *Service) UpdateStatus(ctx context.Context, req subscriptiondomain.UpdateLinkStatusRequest) (subscriptiondomain.LinkResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidLink
	}
	if !subscriptiondomain.ValidStatus(req.Status) {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidStatus
	}

	link, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return subscriptiondomain.LinkResponse{}, err
	}
	if link == nil {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrLinkNotFound
	}

	now := s.clock.Now()
	periodEnd := link.CurrentPeriodEnd
	if req.CurrentPeriodEnd != nil {
		periodEnd = req.CurrentPeriodEnd
	}

	if err := s.repo.UpdateStatus(ctx, s.db, orgID, id, req.Status, periodEnd, now); err != nil {
		return subscriptiondomain.LinkResponse{}, err
	}
	link.Status = req.Status
	link.CurrentPeriodEnd = periodEnd
	link.UpdatedAt = now

	s.log.Info("subscription link status updated",
		zap.String("link_id", link.ID.String()),
		zap.String("status", string(link.Status)),
	)
	s.audit(ctx, auditdomain.ActionSubscriptionStatusChanged, link, string(link.Status))

	return toResponse(link), nil
}

func (s *Service) SetCancelAtPeriodEnd(ctx context.Context, rawID string, cancel bool) (subscriptiondomain.LinkResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidOrganization
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrInvalidLink
	}

	link, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return subscriptiondomain.LinkResponse{}, err
	}
	if link == nil {
		return subscriptiondomain.LinkResponse{}, subscriptiondomain.ErrLinkNotFound
	}

	now := s.clock.Now()
	if err := s.repo.SetCancelAtPeriodEnd(ctx, s.db, orgID, id, cancel, now); err != nil {
		return subscriptiondomain.LinkResponse{}, err
	}
	link.CancelAtPeriodEnd = cancel
	link.UpdatedAt = now

	return toResponse(link), nil
}

func (s *Service) audit(ctx context.Context, action string, link *subscriptiondomain.SubscriptionLink, label string) {
	if s.auditSvc == nil {
		return
	}
	targetID := link.ID.String()
	_ = s.auditSvc.Record(ctx, auditdomain.RecordRequest{
		Action:      action,
		TargetType:  "subscription_link",
		TargetID:    &targetID,
		TargetLabel: label,
		Metadata: map[string]any{
			"package_id": link.PackageID.String(),
			"status":     string(link.Status),
		},
	})
}

func toResponse(link *subscriptiondomain.SubscriptionLink) subscriptiondomain.LinkResponse {
	return subscriptiondomain.LinkResponse{
		ID:                link.ID.String(),
		OrganizationID:    link.OrgID.String(),
		PackageID:         link.PackageID.String(),
		Status:            link.Status,
		CurrentPeriodEnd:  link.CurrentPeriodEnd,
		CancelAtPeriodEnd: link.CancelAtPeriodEnd,
		ProviderRef:       link.ProviderRef,
		CreatedAt:         link.CreatedAt,
	}
}
