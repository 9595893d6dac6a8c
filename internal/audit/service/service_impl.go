package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	"github.com/leadflowhq/leadflow/internal/auditcontext"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	"github.com/leadflowhq/leadflow/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  auditdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  auditdomain.Repository
}

func NewService(p ServiceParam) auditdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("audit.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Record appends an audit entry. Attribution (actor, IP, user agent,
// request ID) comes from request context set by the HTTP middlewares.
func (s *Service) Record(ctx context.Context, req auditdomain.RecordRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return auditdomain.ErrInvalidOrganization
	}

	action := strings.TrimSpace(req.Action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	actorType, actorID := auditcontext.ActorFromContext(ctx)
	if actorType == "" {
		actorType = "system"
	}
	var actorIDRef *string
	if actorID != "" {
		actorIDRef = &actorID
	}

	entry := &auditdomain.AuditLog{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		ActorType:   actorType,
		ActorID:     actorIDRef,
		Action:      action,
		TargetType:  strings.TrimSpace(req.TargetType),
		TargetID:    req.TargetID,
		TargetLabel: strings.TrimSpace(req.TargetLabel),
		Metadata:    datatypes.JSONMap(req.Metadata),
		IPAddress:   auditcontext.IPAddressFromContext(ctx),
		UserAgent:   auditcontext.UserAgentFromContext(ctx),
		RequestID:   auditcontext.RequestIDFromContext(ctx),
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("audit insert failed",
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]auditdomain.AuditLog, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, auditdomain.ErrInvalidOrganization
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	return s.repo.ListRecent(ctx, s.db, orgID, limit)
}

func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) (auditdomain.ListResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return auditdomain.ListResponse{}, auditdomain.ErrInvalidOrganization
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var entries []auditdomain.AuditLog
	var err error
	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, decodeErr := pagination.DecodeCursor(token)
		if decodeErr != nil {
			return auditdomain.ListResponse{}, decodeErr
		}
		beforeID, parseErr := snowflake.ParseString(cursor.ID)
		if parseErr != nil {
			return auditdomain.ListResponse{}, parseErr
		}
		entries, err = s.repo.ListBefore(ctx, s.db, orgID, beforeID, int(pageSize)+1)
	} else {
		entries, err = s.repo.ListRecent(ctx, s.db, orgID, int(pageSize)+1)
	}
	if err != nil {
		return auditdomain.ListResponse{}, err
	}

	refs := make([]*auditdomain.AuditLog, 0, len(entries))
	for i := range entries {
		refs = append(refs, &entries[i])
	}
	pageInfo := pagination.BuildCursorPageInfo(refs, pageSize, func(entry *auditdomain.AuditLog) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        entry.ID.String(),
			CreatedAt: entry.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		})
		return token
	})

	capped := int32(math.Min(float64(len(entries)), float64(pageSize)))
	out := make([]auditdomain.EntryResponse, 0, capped)
	for i := range entries[:capped] {
		out = append(out, toResponse(&entries[i]))
	}

	return auditdomain.ListResponse{
		PageInfo: *pageInfo,
		Entries:  out,
	}, nil
}

func toResponse(entry *auditdomain.AuditLog) auditdomain.EntryResponse {
	return auditdomain.EntryResponse{
		ID:          entry.ID.String(),
		ActorType:   entry.ActorType,
		ActorID:     entry.ActorID,
		Action:      entry.Action,
		TargetType:  entry.TargetType,
		TargetID:    entry.TargetID,
		TargetLabel: entry.TargetLabel,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
}
