package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, link *SubscriptionLink) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*SubscriptionLink, error)
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]SubscriptionLink, error)
	ListByOrgWithStatuses(ctx context.Context, db *gorm.DB, orgID snowflake.ID, statuses []LinkStatus) ([]SubscriptionLink, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, status LinkStatus, currentPeriodEnd *time.Time, at time.Time) error
	SetCancelAtPeriodEnd(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, cancel bool, at time.Time) error
}
