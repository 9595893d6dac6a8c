package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	leaddomain "github.com/leadflowhq/leadflow/internal/lead/domain"
	"github.com/leadflowhq/leadflow/pkg/db/option"
	pkgrepository "github.com/leadflowhq/leadflow/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() leaddomain.Repository {
	return &repo{}
}

func (r *repo) store(db *gorm.DB) pkgrepository.Repository[leaddomain.Lead] {
	return pkgrepository.ProvideStore[leaddomain.Lead](db)
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, lead *leaddomain.Lead) error {
	return r.store(db).Create(ctx, lead)
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, status leaddomain.Status, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE leads SET status = ?, updated_at = ? WHERE org_id = ? AND id = ?`,
		status,
		at,
		orgID,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*leaddomain.Lead, error) {
	return r.store(db).FindOne(ctx, &leaddomain.Lead{ID: id, OrgID: orgID})
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter leaddomain.ListFilter) ([]leaddomain.Lead, error) {
	query := &leaddomain.Lead{OrgID: orgID}
	if filter.CampaignID != nil {
		query.CampaignID = filter.CampaignID
	}
	if filter.Status != nil {
		query.Status = *filter.Status
	}

	opts := []option.QueryOption{option.WithSortBy("created_at desc, id desc")}
	if filter.Limit > 0 {
		opts = append(opts, option.WithLimit(filter.Limit))
	}

	rows, err := r.store(db).Find(ctx, query, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]leaddomain.Lead, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}
