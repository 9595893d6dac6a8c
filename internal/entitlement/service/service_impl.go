package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	entitlementdomain "github.com/leadflowhq/leadflow/internal/entitlement/domain"
	moduledomain "github.com/leadflowhq/leadflow/internal/module/domain"
	"github.com/leadflowhq/leadflow/internal/observability/metrics"
	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	clock            clock.Clock
	subscriptionRepo subscriptiondomain.Repository
	catalogRepo      catalogdomain.Repository
	moduleRepo       moduledomain.Repository
	metrics          *metrics.Metrics
}

type ServiceParam struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	Clock            clock.Clock
	SubscriptionRepo subscriptiondomain.Repository
	CatalogRepo      catalogdomain.Repository
	ModuleRepo       moduledomain.Repository
	Metrics          *metrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) entitlementdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("entitlement.service"),

		clock:            p.Clock,
		subscriptionRepo: p.SubscriptionRepo,
		catalogRepo:      p.CatalogRepo,
		moduleRepo:       p.ModuleRepo,
		metrics:          p.Metrics,
	}
}

func (s *Service) ResolveAccessibleModules(ctx context.Context, orgID snowflake.ID) ([]string, error) {
	if orgID == 0 {
		return nil, entitlementdomain.ErrInvalidOrganization
	}

	links, err := s.subscriptionRepo.ListByOrgWithStatuses(ctx, s.db, orgID, subscriptiondomain.CountableStatuses())
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	packageIDs := make([]snowflake.ID, 0, len(links))
	seenPackages := make(map[snowflake.ID]struct{}, len(links))
	for i := range links {
		if !entitlementdomain.LinkGrantsAccess(&links[i], now) {
			continue
		}
		if _, ok := seenPackages[links[i].PackageID]; ok {
			continue
		}
		seenPackages[links[i].PackageID] = struct{}{}
		packageIDs = append(packageIDs, links[i].PackageID)
	}

	freePackages, err := s.catalogRepo.ListFreeActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var linkedPackages []catalogdomain.Package
	if len(packageIDs) > 0 {
		linkedPackages, err = s.catalogRepo.FindByIDs(ctx, s.db, packageIDs)
		if err != nil {
			return nil, err
		}
	}

	// A bundle package grants everything the platform currently exposes.
	for i := range linkedPackages {
		if linkedPackages[i].IsBundle {
			slugs, err := s.allEnabledSlugs(ctx)
			if err != nil {
				return nil, err
			}
			s.recordResolution(ctx, "bundle")
			return slugs, nil
		}
	}

	accessible := make(map[string]struct{})
	for i := range linkedPackages {
		addSlugs(accessible, linkedPackages[i].Modules())
	}
	for i := range freePackages {
		addSlugs(accessible, freePackages[i].Modules())
	}

	slugs := make([]string, 0, len(accessible))
	for slug := range accessible {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	outcome := "union"
	if len(slugs) == 0 {
		outcome = "empty"
	}
	s.recordResolution(ctx, outcome)
	return slugs, nil
}

func (s *Service) CanAccessModule(ctx context.Context, orgID snowflake.ID, moduleSlug string) (bool, error) {
	moduleSlug = strings.TrimSpace(strings.ToLower(moduleSlug))
	if moduleSlug == "" {
		return false, nil
	}

	slugs, err := s.ResolveAccessibleModules(ctx, orgID)
	if err != nil {
		return false, err
	}
	for _, slug := range slugs {
		if slug == moduleSlug {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) allEnabledSlugs(ctx context.Context) ([]string, error) {
	modules, err := s.moduleRepo.ListEnabled(ctx, s.db)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(modules))
	for i := range modules {
		slugs = append(slugs, modules[i].Slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (s *Service) recordResolution(ctx context.Context, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordEntitlementResolution(ctx, outcome)
}

func addSlugs(set map[string]struct{}, slugs []string) {
	for _, slug := range slugs {
		slug = strings.TrimSpace(strings.ToLower(slug))
		if slug == "" {
			continue
		}
		set[slug] = struct{}{}
	}
}
