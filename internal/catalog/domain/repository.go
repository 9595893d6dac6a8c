package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, pkg *Package) error
	Update(ctx context.Context, db *gorm.DB, pkg *Package) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Package, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Package, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Package, error)
	List(ctx context.Context, db *gorm.DB, includeArchived bool) ([]Package, error)
	ListFreeActive(ctx context.Context, db *gorm.DB) ([]Package, error)
}
