package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
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
	repo  catalogdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  catalogdomain.Repository
}

func NewService(p ServiceParam) catalogdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("catalog.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, includeArchived bool) ([]catalogdomain.PackageResponse, error) {
	packages, err := s.repo.List(ctx, s.db, includeArchived)
	if err != nil {
		return nil, err
	}

	out := make([]catalogdomain.PackageResponse, 0, len(packages))
	for i := range packages {
		out = append(out, toResponse(&packages[i]))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (catalogdomain.PackageResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrInvalidID
	}

	pkg, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return catalogdomain.PackageResponse{}, err
	}
	if pkg == nil {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrNotFound
	}
	return toResponse(pkg), nil
}

func (s *Service) Create(ctx context.Context, req catalogdomain.CreatePackageRequest) (catalogdomain.PackageResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrInvalidName
	}

	pkgSlug := slug.Make(strings.TrimSpace(req.Slug))
	if pkgSlug == "" {
		pkgSlug = slug.Make(name)
	}
	if pkgSlug == "" {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrInvalidSlug
	}

	slugs := normalizeModuleSlugs(req.ModuleSlugs)
	encoded, err := catalogdomain.EncodeModuleSlugs(slugs)
	if err != nil {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrInvalidModules
	}

	now := s.clock.Now()
	pkg := &catalogdomain.Package{
		ID:          s.genID.Generate(),
		Slug:        pkgSlug,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		ModuleSlugs: encoded,
		IsBundle:    req.IsBundle,
		IsFree:      req.IsFree,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, pkg); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return catalogdomain.PackageResponse{}, catalogdomain.ErrSlugTaken
		}
		return catalogdomain.PackageResponse{}, err
	}

	s.log.Info("package created",
		zap.String("slug", pkg.Slug),
		zap.Bool("is_bundle", pkg.IsBundle),
		zap.Bool("is_free", pkg.IsFree),
	)
	return toResponse(pkg), nil
}

func (s *Service) Update(ctx context.Context, req catalogdomain.UpdatePackageRequest) (catalogdomain.PackageResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrInvalidID
	}

	pkg, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return catalogdomain.PackageResponse{}, err
	}
	if pkg == nil {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrNotFound
	}
	if !pkg.IsActive {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrArchived
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return catalogdomain.PackageResponse{}, catalogdomain.ErrInvalidName
		}
		pkg.Name = name
	}
	if req.Description != nil {
		pkg.Description = strings.TrimSpace(*req.Description)
	}
	if req.ModuleSlugs != nil {
		encoded, err := catalogdomain.EncodeModuleSlugs(normalizeModuleSlugs(*req.ModuleSlugs))
		if err != nil {
			return catalogdomain.PackageResponse{}, catalogdomain.ErrInvalidModules
		}
		pkg.ModuleSlugs = encoded
	}
	if req.IsBundle != nil {
		pkg.IsBundle = *req.IsBundle
	}
	if req.IsFree != nil {
		pkg.IsFree = *req.IsFree
	}
	pkg.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, pkg); err != nil {
		return catalogdomain.PackageResponse{}, err
	}
	return toResponse(pkg), nil
}

// Archive flips is_active off. Packages are never deleted while
// subscription links reference them.
func (s *Service) Archive(ctx context.Context, rawID string) (catalogdomain.PackageResponse, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrInvalidID
	}

	pkg, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return catalogdomain.PackageResponse{}, err
	}
	if pkg == nil {
		return catalogdomain.PackageResponse{}, catalogdomain.ErrNotFound
	}

	pkg.IsActive = false
	pkg.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, pkg); err != nil {
		return catalogdomain.PackageResponse{}, err
	}

	s.log.Info("package archived", zap.String("slug", pkg.Slug))
	return toResponse(pkg), nil
}

func normalizeModuleSlugs(slugs []string) []string {
	out := make([]string, 0, len(slugs))
	seen := map[string]bool{}
	for _, raw := range slugs {
		normalized := strings.ToLower(strings.TrimSpace(raw))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}

func toResponse(pkg *catalogdomain.Package) catalogdomain.PackageResponse {
	slugs := pkg.Modules()
	if slugs == nil {
		slugs = []string{}
	}
	return catalogdomain.PackageResponse{
		ID:          pkg.ID.String(),
		Slug:        pkg.Slug,
		Name:        pkg.Name,
		Description: pkg.Description,
		ModuleSlugs: slugs,
		IsBundle:    pkg.IsBundle,
		IsFree:      pkg.IsFree,
		IsActive:    pkg.IsActive,
	}
}
