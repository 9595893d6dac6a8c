package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, lead *Lead) error
	UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, status Status, at time.Time) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Lead, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListFilter) ([]Lead, error)
}

type ListFilter struct {
	CampaignID *snowflake.ID
	Status     *Status
	Limit      int
}
