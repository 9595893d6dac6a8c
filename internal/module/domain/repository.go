package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, module *Module) error
	Update(ctx context.Context, db *gorm.DB, module *Module) error
	SetEnabled(ctx context.Context, db *gorm.DB, id snowflake.ID, enabled bool, at time.Time) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Module, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Module, error)
	List(ctx context.Context, db *gorm.DB) ([]Module, error)
	ListEnabled(ctx context.Context, db *gorm.DB) ([]Module, error)
}
