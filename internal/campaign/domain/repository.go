package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, campaign *Campaign) error
	Update(ctx context.Context, db *gorm.DB, campaign *Campaign) error
	UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, status Status, at time.Time) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Campaign, error)
	FindBySlug(ctx context.Context, db *gorm.DB, orgID snowflake.ID, slug string) (*Campaign, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]Campaign, error)
	ListRecentlyUpdated(ctx context.Context, db *gorm.DB, orgID snowflake.ID, limit int) ([]Campaign, error)
}
