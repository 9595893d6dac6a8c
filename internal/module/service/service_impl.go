package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/leadflowhq/leadflow/internal/clock"
	moduledomain "github.com/leadflowhq/leadflow/internal/module/domain"
	pkgdb "github.com/leadflowhq/leadflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  moduledomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  moduledomain.Repository
}

func NewService(p ServiceParam) moduledomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("module.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]moduledomain.ModuleResponse, error) {
	modules, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	out := make([]moduledomain.ModuleResponse, 0, len(modules))
	for i := range modules {
		out = append(out, toResponse(&modules[i]))
	}
	return out, nil
}

func (s *Service) ListEnabledSlugs(ctx context.Context) ([]string, error) {
	modules, err := s.repo.ListEnabled(ctx, s.db)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(modules))
	for i := range modules {
		slugs = append(slugs, modules[i].Slug)
	}
	return slugs, nil
}

func (s *Service) Create(ctx context.Context, req moduledomain.CreateModuleRequest) (moduledomain.ModuleResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return moduledomain.ModuleResponse{}, moduledomain.ErrInvalidName
	}

	moduleSlug := slug.Make(strings.TrimSpace(req.Slug))
	if moduleSlug == "" {
		moduleSlug = slug.Make(name)
	}
	if moduleSlug == "" {
		return moduledomain.ModuleResponse{}, moduledomain.ErrInvalidSlug
	}

	now := s.clock.Now()
	module := &moduledomain.Module{
		ID:          s.genID.Generate(),
		Slug:        moduleSlug,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Enabled:     true,
		SortOrder:   req.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, module); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return moduledomain.ModuleResponse{}, moduledomain.ErrSlugTaken
		}
		return moduledomain.ModuleResponse{}, err
	}

	s.log.Info("module created", zap.String("slug", module.Slug))
	return toResponse(module), nil
}

func (s *Service) Update(ctx context.Context, req moduledomain.UpdateModuleRequest) (moduledomain.ModuleResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return moduledomain.ModuleResponse{}, moduledomain.ErrInvalidID
	}

	module, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return moduledomain.ModuleResponse{}, err
	}
	if module == nil {
		return moduledomain.ModuleResponse{}, moduledomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return moduledomain.ModuleResponse{}, moduledomain.ErrInvalidName
		}
		module.Name = name
	}
	if req.Description != nil {
		module.Description = strings.TrimSpace(*req.Description)
	}
	if req.SortOrder != nil {
		module.SortOrder = *req.SortOrder
	}
	module.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, module); err != nil {
		return moduledomain.ModuleResponse{}, err
	}
	return toResponse(module), nil
}

func (s *Service) SetEnabled(ctx context.Context, rawID string, enabled bool) (moduledomain.ModuleResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return moduledomain.ModuleResponse{}, moduledomain.ErrInvalidID
	}

	module, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return moduledomain.ModuleResponse{}, err
	}
	if module == nil {
		return moduledomain.ModuleResponse{}, moduledomain.ErrNotFound
	}

	now := s.clock.Now()
	if err := s.repo.SetEnabled(ctx, s.db, id, enabled, now); err != nil {
		return moduledomain.ModuleResponse{}, err
	}
	module.Enabled = enabled
	module.UpdatedAt = now

	s.log.Info("module toggled",
		zap.String("slug", module.Slug),
		zap.Bool("enabled", enabled),
	)
	return toResponse(module), nil
}

func toResponse(module *moduledomain.Module) moduledomain.ModuleResponse {
	return moduledomain.ModuleResponse{
		ID:          module.ID.String(),
		Slug:        module.Slug,
		Name:        module.Name,
		Description: module.Description,
		Enabled:     module.Enabled,
		SortOrder:   module.SortOrder,
	}
}
