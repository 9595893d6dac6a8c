// Package seed bootstraps the catalog and a default organization so a
// fresh install is usable immediately.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	moduledomain "github.com/leadflowhq/leadflow/internal/module/domain"
	organizationdomain "github.com/leadflowhq/leadflow/internal/organization/domain"
	"gorm.io/gorm"
)

const (
	defaultOrgName = "Main"
	defaultOrgSlug = "main"
)

type moduleSeed struct {
	slug        string
	name        string
	description string
	sortOrder   int
}

var platformModules = []moduleSeed{
	{"campaigns", "Campanhas", "Gestão de campanhas de mídia paga", 1},
	{"leads", "Leads", "Captura e qualificação de leads", 2},
	{"reports", "Relatórios", "Relatórios de desempenho", 3},
	{"automations", "Automações", "Fluxos automáticos de nutrição", 4},
}

type packageSeed struct {
	slug        string
	name        string
	description string
	modules     []string
	isBundle    bool
	isFree      bool
}

var catalogPackages = []packageSeed{
	{
		slug:        "starter",
		name:        "Starter",
		description: "Plano gratuito com o essencial",
		modules:     []string{"campaigns", "leads"},
		isFree:      true,
	},
	{
		slug:        "growth",
		name:        "Growth",
		description: "Campanhas, leads e relatórios",
		modules:     []string{"campaigns", "leads", "reports"},
	},
	{
		slug:        "full-suite",
		name:        "Full Suite",
		description: "Acesso a todos os módulos da plataforma",
		isBundle:    true,
	},
}

// EnsureDefaults seeds the platform modules, the catalog and the
// default organization. Safe to run on every startup.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureModulesTx(ctx, tx, node); err != nil {
			return err
		}
		if err := ensurePackagesTx(ctx, tx, node); err != nil {
			return err
		}
		_, err := ensureMainOrgTx(ctx, tx, node)
		return err
	})
}

func ensureModulesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, seed := range platformModules {
		var existing moduledomain.Module
		err := tx.WithContext(ctx).Where("slug = ?", seed.slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		module := moduledomain.Module{
			ID:          node.Generate(),
			Slug:        seed.slug,
			Name:        seed.name,
			Description: seed.description,
			Enabled:     true,
			SortOrder:   seed.sortOrder,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&module).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensurePackagesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, seed := range catalogPackages {
		var existing catalogdomain.Package
		err := tx.WithContext(ctx).Where("slug = ?", seed.slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		encoded, err := catalogdomain.EncodeModuleSlugs(seed.modules)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		pkg := catalogdomain.Package{
			ID:          node.Generate(),
			Slug:        seed.slug,
			Name:        seed.name,
			Description: seed.description,
			ModuleSlugs: encoded,
			IsBundle:    seed.isBundle,
			IsFree:      seed.isFree,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&pkg).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureMainOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (*organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", defaultOrgSlug).First(&org).Error
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	org = organizationdomain.Organization{
		ID:        node.Generate(),
		Name:      defaultOrgName,
		Slug:      defaultOrgSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
