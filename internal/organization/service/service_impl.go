package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/leadflowhq/leadflow/internal/clock"
	organizationdomain "github.com/leadflowhq/leadflow/internal/organization/domain"
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

	genID *snowflake.Node
	clock clock.Clock
	repo  organizationdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  organizationdomain.Repository
}

func NewService(p ServiceParam) organizationdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("organization.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req organizationdomain.CreateOrganizationRequest) (organizationdomain.OrganizationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return organizationdomain.OrganizationResponse{}, organizationdomain.ErrInvalidName
	}

	ownerID, err := snowflake.ParseString(strings.TrimSpace(req.OwnerID))
	if err != nil || ownerID == 0 {
		return organizationdomain.OrganizationResponse{}, organizationdomain.ErrInvalidUser
	}

	orgSlug := strings.TrimSpace(req.Slug)
	if orgSlug == "" {
		orgSlug = slug.Make(name)
	} else {
		orgSlug = slug.Make(orgSlug)
	}
	if orgSlug == "" {
		return organizationdomain.OrganizationResponse{}, organizationdomain.ErrInvalidSlug
	}

	now := s.clock.Now()
	org := &organizationdomain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      orgSlug,
		Metadata:  datatypes.JSONMap(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, org); err != nil {
			return err
		}
		member := &organizationdomain.OrganizationMember{
			ID:        s.genID.Generate(),
			OrgID:     org.ID,
			UserID:    ownerID,
			Role:      organizationdomain.RoleOwner,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.repo.InsertMember(ctx, tx, member)
	})
	if err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return organizationdomain.OrganizationResponse{}, organizationdomain.ErrSlugTaken
		}
		return organizationdomain.OrganizationResponse{}, err
	}

	s.log.Info("organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)

	return toResponse(org), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (organizationdomain.OrganizationResponse, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || orgID == 0 {
		return organizationdomain.OrganizationResponse{}, organizationdomain.ErrInvalidOrganization
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return organizationdomain.OrganizationResponse{}, err
	}
	if org == nil {
		return organizationdomain.OrganizationResponse{}, organizationdomain.ErrNotFound
	}
	return toResponse(org), nil
}

func (s *Service) GetBySlug(ctx context.Context, orgSlug string) (organizationdomain.OrganizationResponse, error) {
	orgSlug = strings.TrimSpace(orgSlug)
	if orgSlug == "" {
		return organizationdomain.OrganizationResponse{}, organizationdomain.ErrInvalidSlug
	}

	org, err := s.repo.FindBySlug(ctx, s.db, orgSlug)
	if err != nil {
		return organizationdomain.OrganizationResponse{}, err
	}
	if org == nil {
		return organizationdomain.OrganizationResponse{}, organizationdomain.ErrNotFound
	}
	return toResponse(org), nil
}

func (s *Service) AddMember(ctx context.Context, req organizationdomain.AddMemberRequest) (organizationdomain.MemberResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return organizationdomain.MemberResponse{}, organizationdomain.ErrInvalidOrganization
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		return organizationdomain.MemberResponse{}, organizationdomain.ErrInvalidUser
	}
	if !organizationdomain.ValidRole(req.Role) {
		return organizationdomain.MemberResponse{}, organizationdomain.ErrInvalidRole
	}

	existing, err := s.repo.FindMember(ctx, s.db, orgID, userID)
	if err != nil {
		return organizationdomain.MemberResponse{}, err
	}
	if existing != nil {
		return organizationdomain.MemberResponse{}, organizationdomain.ErrMemberExists
	}

	now := s.clock.Now()
	member := &organizationdomain.OrganizationMember{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		UserID:    userID,
		Role:      req.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertMember(ctx, s.db, member); err != nil {
		return organizationdomain.MemberResponse{}, err
	}

	return toMemberResponse(member), nil
}

func (s *Service) ListMembers(ctx context.Context) ([]organizationdomain.MemberResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, organizationdomain.ErrInvalidOrganization
	}

	members, err := s.repo.ListMembers(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]organizationdomain.MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i]))
	}
	return out, nil
}

func (s *Service) RoleForUser(ctx context.Context, userID string) (organizationdomain.Role, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return "", organizationdomain.ErrInvalidOrganization
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || parsed == 0 {
		return "", organizationdomain.ErrInvalidUser
	}

	member, err := s.repo.FindMember(ctx, s.db, orgID, parsed)
	if err != nil {
		return "", err
	}
	if member == nil {
		return "", organizationdomain.ErrMemberNotFound
	}
	return member.Role, nil
}

func toResponse(org *organizationdomain.Organization) organizationdomain.OrganizationResponse {
	return organizationdomain.OrganizationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		Slug:      org.Slug,
		Metadata:  org.Metadata,
		CreatedAt: org.CreatedAt,
	}
}

func toMemberResponse(member *organizationdomain.OrganizationMember) organizationdomain.MemberResponse {
	return organizationdomain.MemberResponse{
		ID:     member.ID.String(),
		UserID: member.UserID.String(),
		Role:   member.Role,
	}
}
