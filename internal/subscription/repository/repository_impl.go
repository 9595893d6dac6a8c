package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, link *subscriptiondomain.SubscriptionLink) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscription_links (
			id, org_id, package_id, status, current_period_end, cancel_at_period_end,
			provider_ref, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		link.ID,
		link.OrgID,
		link.PackageID,
		link.Status,
		link.CurrentPeriodEnd,
		link.CancelAtPeriodEnd,
		link.ProviderRef,
		link.Metadata,
		link.CreatedAt,
		link.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*subscriptiondomain.SubscriptionLink, error) {
	var link subscriptiondomain.SubscriptionLink
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, package_id, status, current_period_end, cancel_at_period_end,
		 provider_ref, metadata, created_at, updated_at
		 FROM subscription_links WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&link).Error
	if err != nil {
		return nil, err
	}
	if link.ID == 0 {
		return nil, nil
	}
	return &link, nil
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]subscriptiondomain.SubscriptionLink, error) {
	var links []subscriptiondomain.SubscriptionLink
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, package_id, status, current_period_end, cancel_at_period_end,
		 provider_ref, metadata, created_at, updated_at
		 FROM subscription_links
		 WHERE org_id = ?
		 ORDER BY created_at ASC`,
		orgID,
	).Scan(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repo) ListByOrgWithStatuses(ctx context.Context, db *gorm.DB, orgID snowflake.ID, statuses []subscriptiondomain.LinkStatus) ([]subscriptiondomain.SubscriptionLink, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	var links []subscriptiondomain.SubscriptionLink
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, package_id, status, current_period_end, cancel_at_period_end,
		 provider_ref, metadata, created_at, updated_at
		 FROM subscription_links
		 WHERE org_id = ? AND status IN ?
		 ORDER BY created_at ASC`,
		orgID,
		statuses,
	).Scan(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, status subscriptiondomain.LinkStatus, currentPeriodEnd *time.Time, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscription_links
		 SET status = ?, current_period_end = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		status,
		currentPeriodEnd,
		at,
		orgID,
		id,
	).Error
}

func (r *repo) SetCancelAtPeriodEnd(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, cancel bool, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscription_links
		 SET cancel_at_period_end = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		cancel,
		at,
		orgID,
		id,
	).Error
}
