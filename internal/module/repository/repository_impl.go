package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	moduledomain "github.com/leadflowhq/leadflow/internal/module/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() moduledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, module *moduledomain.Module) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO modules (id, slug, name, description, enabled, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		module.ID,
		module.Slug,
		module.Name,
		module.Description,
		module.Enabled,
		module.SortOrder,
		module.CreatedAt,
		module.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, module *moduledomain.Module) error {
	return db.WithContext(ctx).Exec(
		`UPDATE modules
		 SET name = ?, description = ?, sort_order = ?, updated_at = ?
		 WHERE id = ?`,
		module.Name,
		module.Description,
		module.SortOrder,
		module.UpdatedAt,
		module.ID,
	).Error
}

func (r *repo) SetEnabled(ctx context.Context, db *gorm.DB, id snowflake.ID, enabled bool, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE modules SET enabled = ?, updated_at = ? WHERE id = ?`,
		enabled,
		at,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*moduledomain.Module, error) {
	var module moduledomain.Module
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, enabled, sort_order, created_at, updated_at
		 FROM modules WHERE id = ?`,
		id,
	).Scan(&module).Error
	if err != nil {
		return nil, err
	}
	if module.ID == 0 {
		return nil, nil
	}
	return &module, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*moduledomain.Module, error) {
	var module moduledomain.Module
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, enabled, sort_order, created_at, updated_at
		 FROM modules WHERE slug = ?`,
		slug,
	).Scan(&module).Error
	if err != nil {
		return nil, err
	}
	if module.ID == 0 {
		return nil, nil
	}
	return &module, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]moduledomain.Module, error) {
	var modules []moduledomain.Module
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, enabled, sort_order, created_at, updated_at
		 FROM modules
		 ORDER BY sort_order ASC, slug ASC`,
	).Scan(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *repo) ListEnabled(ctx context.Context, db *gorm.DB) ([]moduledomain.Module, error) {
	var modules []moduledomain.Module
	err := db.WithContext(ctx).Raw(
		`SELECT id, slug, name, description, enabled, sort_order, created_at, updated_at
		 FROM modules
		 WHERE enabled = ?
		 ORDER BY sort_order ASC, slug ASC`,
		true,
	).Scan(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}
