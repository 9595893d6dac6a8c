package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	campaigndomain "github.com/leadflowhq/leadflow/internal/campaign/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() campaigndomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, campaign *campaigndomain.Campaign) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO campaigns (
			id, org_id, name, slug, platform, status, budget_cents, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		campaign.ID,
		campaign.OrgID,
		campaign.Name,
		campaign.Slug,
		campaign.Platform,
		campaign.Status,
		campaign.BudgetCents,
		campaign.Metadata,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, campaign *campaigndomain.Campaign) error {
	return db.WithContext(ctx).Exec(
		`UPDATE campaigns
		 SET name = ?, budget_cents = ?, metadata = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		campaign.Name,
		campaign.BudgetCents,
		campaign.Metadata,
		campaign.UpdatedAt,
		campaign.OrgID,
		campaign.ID,
	).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, status campaigndomain.Status, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE campaigns SET status = ?, updated_at = ? WHERE org_id = ? AND id = ?`,
		status,
		at,
		orgID,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*campaigndomain.Campaign, error) {
	var scanned campaigndomain.Campaign
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, slug, platform, status, budget_cents, metadata, created_at, updated_at
		 FROM campaigns
		 WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&scanned).Error
	if err != nil {
		return nil, err
	}
	if scanned.ID == 0 {
		return nil, nil
	}
	return &scanned, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, orgID snowflake.ID, slug string) (*campaigndomain.Campaign, error) {
	var scanned campaigndomain.Campaign
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, slug, platform, status, budget_cents, metadata, created_at, updated_at
		 FROM campaigns
		 WHERE org_id = ? AND slug = ?`,
		orgID,
		slug,
	).Scan(&scanned).Error
	if err != nil {
		return nil, err
	}
	if scanned.ID == 0 {
		return nil, nil
	}
	return &scanned, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]campaigndomain.Campaign, error) {
	var campaigns []campaigndomain.Campaign
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, slug, platform, status, budget_cents, metadata, created_at, updated_at
		 FROM campaigns
		 WHERE org_id = ?
		 ORDER BY created_at DESC, id DESC`,
		orgID,
	).Scan(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (r *repo) ListRecentlyUpdated(ctx context.Context, db *gorm.DB, orgID snowflake.ID, limit int) ([]campaigndomain.Campaign, error) {
	var campaigns []campaigndomain.Campaign
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, name, slug, platform, status, budget_cents, metadata, created_at, updated_at
		 FROM campaigns
		 WHERE org_id = ?
		 ORDER BY updated_at DESC, id DESC
		 LIMIT ?`,
		orgID,
		limit,
	).Scan(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}
