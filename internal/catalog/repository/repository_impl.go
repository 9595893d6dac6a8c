package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() catalogdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, pkg *catalogdomain.Package) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO packages (
			id, slug, name, description, module_slugs, is_bundle, is_free, is_active,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pkg.ID,
		pkg.Slug,
		pkg.Name,
		pkg.Description,
		pkg.ModuleSlugs,
		pkg.IsBundle,
		pkg.IsFree,
		pkg.IsActive,
		pkg.CreatedAt,
		pkg.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, pkg *catalogdomain.Package) error {
	return db.WithContext(ctx).Exec(
		`UPDATE packages
		 SET name = ?, description = ?, module_slugs = ?, is_bundle = ?, is_free = ?,
		     is_active = ?, updated_at = ?
		 WHERE id = ?`,
		pkg.Name,
		pkg.Description,
		pkg.ModuleSlugs,
		pkg.IsBundle,
		pkg.IsFree,
		pkg.IsActive,
		pkg.UpdatedAt,
		pkg.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*catalogdomain.Package, error) {
	var pkg catalogdomain.Package
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, module_slugs, is_bundle, is_free, is_active,
		 created_at, updated_at
		 FROM packages WHERE id = ?`,
		id,
	).Scan(&pkg).Error
	if err != nil {
		return nil, err
	}
	if pkg.ID == 0 {
		return nil, nil
	}
	return &pkg, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*catalogdomain.Package, error) {
	var pkg catalogdomain.Package
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, module_slugs, is_bundle, is_free, is_active,
		 created_at, updated_at
		 FROM packages WHERE slug = ?`,
		slug,
	).Scan(&pkg).Error
	if err != nil {
		return nil, err
	}
	if pkg.ID == 0 {
		return nil, nil
	}
	return &pkg, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]catalogdomain.Package, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var packages []catalogdomain.Package
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, module_slugs, is_bundle, is_free, is_active,
		 created_at, updated_at
		 FROM packages WHERE id IN ?`,
		ids,
	).Scan(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, includeArchived bool) ([]catalogdomain.Package, error) {
	query := `SELECT id, slug, name, description, module_slugs, is_bundle, is_free, is_active,
	 created_at, updated_at
	 FROM packages`
	args := []any{}
	if !includeArchived {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at ASC`

	var packages []catalogdomain.Package
	err := db.WithContext(ctx).Raw(query, args...).Scan(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repo) ListFreeActive(ctx context.Context, db *gorm.DB) ([]catalogdomain.Package, error) {
	var packages []catalogdomain.Package
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, module_slugs, is_bundle, is_free, is_active,
		 created_at, updated_at
		 FROM packages
		 WHERE is_free = ? AND is_active = ?`,
		true,
		true,
	).Scan(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}
